package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func cuisinesCmd() *cli.Command {
	return &cli.Command{
		Name:  "cuisines",
		Usage: "List the cuisines the backend knows about",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, page := newController(ctx, cmd)

			out := cmd.Root().Writer
			for _, o := range page.Snapshot().Cuisine.Options {
				if _, err := fmt.Fprintln(out, o.Label); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
