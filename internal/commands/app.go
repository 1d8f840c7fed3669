package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-backoffice-cache/config"
	"github.com/goliatone/go-backoffice-cache/pkg/di"
)

// NewApp builds the root command. opts are passed to the container built in
// the Before hook.
func NewApp(flags *Flags, out io.Writer, opts ...di.Option) *cli.Command {
	app := &cli.Command{
		Name:      "backoffice",
		Usage:     "Browse back-office resources through the query cache",
		UsageText: "backoffice [global options] command [command options]",
		Writer:    out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("BACKOFFICE_CONFIG"),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error)",
				Sources:     cli.EnvVars("BACKOFFICE_LOG_LEVEL"),
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "base-url",
				Usage:       "backend base URL, overrides the config file",
				Destination: &flags.BaseURL,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			cfg, err := config.Load(flags.ConfigPath)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			if flags.LogLevel != "" {
				cfg.Log.Level = flags.LogLevel
			}
			if flags.BaseURL != "" {
				cfg.API.BaseURL = flags.BaseURL
			}
			flags.Config = cfg

			container, err := di.NewContainer(*cfg, opts...)
			if err != nil {
				return ctx, fmt.Errorf("build container: %w", err)
			}
			flags.Container = container
			return ctx, nil
		},
	}

	app = NewCustomersCmd(flags).Register(app)
	app = NewAgentsCmd(flags).Register(app)
	app = NewVendorsCmd(flags).Register(app)
	app = NewServicesCmd(flags).Register(app)

	return app
}

func pageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "page", Usage: "page number", Value: 1},
		&cli.IntFlag{Name: "limit", Usage: "page size", Value: 20},
		&cli.StringFlag{Name: "q", Usage: "free-text search"},
	}
}

func requireID(c *cli.Command) (string, error) {
	id := c.Args().First()
	if id == "" {
		return "", fmt.Errorf("missing id. Run '%s --help' for usage", c.FullName())
	}
	return id, nil
}
