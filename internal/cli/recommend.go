package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"dineout-frontend/internal/model"

	"github.com/bytedance/sonic"
	"github.com/urfave/cli/v3"
)

const (
	formatText = "text"
	formatJSON = "json"
)

func recommendCmd() *cli.Command {
	return &cli.Command{
		Name:    "recommend",
		Aliases: []string{"rec"},
		Usage:   "Submit one recommendation request and print the results",
		Description: `Collects the same filters as the web form. --cuisine-input wins over
--cuisine when it is not blank; otherwise the first cuisine from the backend
is used.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "cuisine",
				Usage: "Cuisine picked from the backend's list",
			},
			&cli.StringFlag{
				Name:  "cuisine-input",
				Usage: "Free-text cuisine, overrides --cuisine when not blank",
			},
			&cli.StringFlag{
				Name:  "budget",
				Usage: "Maximum average cost",
			},
			&cli.StringFlag{
				Name:  "rating",
				Usage: fmt.Sprintf("Minimum rating (supported values: %s)", strings.Join(model.RatingValues, ", ")),
			},
			&cli.StringFlag{
				Name:  "veg",
				Usage: fmt.Sprintf("Vegetarian preference (supported values: %s)", strings.Join(model.VegValues, ", ")),
			},
			&cli.StringFlag{
				Name:  "order",
				Usage: fmt.Sprintf("Seating or delivery (supported values: %s)", strings.Join(model.OrderValues, ", ")),
			},
			&cli.StringFlag{
				Name:  "format",
				Value: formatText,
				Usage: "output format (text, json)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format := cmd.String("format")
			if format != formatText && format != formatJSON {
				return fmt.Errorf("unknown output format: %q", format)
			}

			in, err := buildInputFromCmd(cmd)
			if err != nil {
				return fmt.Errorf("error parsing recommendation input: %w", err)
			}

			fc, _ := newController(ctx, cmd)
			area := fc.Submit(ctx, in)

			return writeResults(cmd.Root().Writer, format, area)
		},
	}
}

func buildInputFromCmd(cmd *cli.Command) (model.FormInput, error) {
	in := model.FormInput{
		CuisineInput: cmd.String("cuisine-input"),
		Cuisine:      cmd.String("cuisine"),
		Budget:       cmd.String("budget"),
		Rating:       cmd.String("rating"),
		Veg:          cmd.String("veg"),
		Order:        cmd.String("order"),
	}

	checks := []struct {
		flag    string
		value   string
		allowed []string
	}{
		{"rating", in.Rating, model.RatingValues},
		{"veg", in.Veg, model.VegValues},
		{"order", in.Order, model.OrderValues},
	}
	for _, c := range checks {
		if c.value != "" && !slices.Contains(c.allowed, c.value) {
			return in, fmt.Errorf("%s: %q, supported values: %v", c.flag, c.value, c.allowed)
		}
	}
	return in, nil
}

func writeResults(w io.Writer, format string, area model.ResultsArea) error {
	if format == formatJSON {
		data, err := sonic.ConfigStd.MarshalIndent(area, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	text := area.PlainText()
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err := io.WriteString(w, text)
	return err
}
