package model

import "strings"

// FilterSelection is the body posted to the backend's /recommend endpoint.
// It is built fresh for every submission.
type FilterSelection struct {
	// Always exactly one element.
	PreferredCuisines []string `json:"preferred_cuisines"`
	Budget            string   `json:"budget"`
	MinRating         string   `json:"min_rating"`
	VegChoice         string   `json:"veg_choice"`
	OrderChoice       string   `json:"order_choice"`
}

// FormInput carries the raw control values read when the user submits.
// Empty select values fall back to the control's current selection.
type FormInput struct {
	CuisineInput string `form:"cuisine_input" json:"cuisine_input"`
	Cuisine      string `form:"cuisine" json:"cuisine"`
	Budget       string `form:"budget" json:"budget"`
	Rating       string `form:"rating" json:"rating"`
	Veg          string `form:"veg" json:"veg"`
	Order        string `form:"order" json:"order"`
}

// ResolveCuisine returns the trimmed free-text cuisine when it is non-empty,
// otherwise the dropdown value.
func ResolveCuisine(freeText, selected string) string {
	if c := strings.TrimSpace(freeText); c != "" {
		return c
	}
	return selected
}
