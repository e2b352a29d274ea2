// Package cli implements the dineout command, a terminal front end that
// drives the same form controller as the web pages.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dineout-frontend/internal/client"
	"dineout-frontend/internal/model"
	"dineout-frontend/internal/service"
	"dineout-frontend/pkg/logger"

	"github.com/urfave/cli/v3"
)

const name = "dineout"

// overridden during build with ldflags
var version = "dev"

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := NewCommand(os.Stdout).Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewCommand builds the root command writing results to out.
func NewCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:    name,
		Usage:   "Restaurant recommendations from the terminal",
		Version: version,
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "backend",
				Value:   "http://127.0.0.1:5000",
				Usage:   "Base URL of the recommendation service",
				Sources: cli.EnvVars("DINEOUT_BACKEND_BASE_URL"),
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Per-request timeout (0 means none)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "warn",
				Usage: "log level (debug, info, warn, error)",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return ctx, logger.InitWithOutput(cmd.String("log-level"), "text", os.Stderr)
		},
		Commands: []*cli.Command{
			cuisinesCmd(),
			recommendCmd(),
		},
	}
}

// newController builds a scratch page with its dropdowns filled, the same
// way a freshly opened web page starts.
func newController(ctx context.Context, cmd *cli.Command) (*service.FormController, *model.Page) {
	backend := client.New(cmd.String("backend"), cmd.Duration("timeout"))
	page := model.NewPage(fmt.Sprintf("cli-%d", time.Now().UnixNano()))

	fc := service.NewFormController(page, backend, nil)
	fc.PopulateStaticOptions()
	fc.LoadCuisines(ctx)
	return fc, page
}
