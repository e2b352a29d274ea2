// Package view renders form pages and result areas as HTML.
package view

import (
	"bytes"
	"embed"
	"html/template"

	"dineout-frontend/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed templates/style.css
var Stylesheet []byte

// Templates parses the page templates. "page" renders a full
// model.PageState; "results" renders a model.ResultsArea.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

var shared = Templates()

// RenderResults renders only the results container's inner HTML.
func RenderResults(area model.ResultsArea) (string, error) {
	var buf bytes.Buffer
	if err := shared.ExecuteTemplate(&buf, "results", area); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderPage renders a whole page.
func RenderPage(state model.PageState) (string, error) {
	var buf bytes.Buffer
	if err := shared.ExecuteTemplate(&buf, "page", state); err != nil {
		return "", err
	}
	return buf.String(), nil
}
