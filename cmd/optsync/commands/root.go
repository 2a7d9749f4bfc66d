package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/florianilch/optsync/internal/app"
	"github.com/florianilch/optsync/internal/observability"
)

// Execute runs the root command with the given context and arguments.
func Execute(ctx context.Context, args []string) error {
	return newRootCommand(os.Environ).Run(ctx, args)
}

func newRootCommand(environFunc func() []string) *cli.Command {
	r := &runner{environ: environFunc}

	return &cli.Command{
		Name:  "optsync",
		Usage: "Read and write MediaWiki user preferences",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level (debug|info|warn|error)",
				Value: slog.LevelInfo.String(),
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "log format (text|json)",
				Value: string(app.DefaultConfigLogFormat),
			},
			&cli.StringFlag{
				Name:  "log-exporter",
				Usage: "log exporter (none|stdout|otlp-http|otlp-grpc)",
				Value: string(app.DefaultConfigLogExporter),
			},
			&cli.StringFlag{
				Name:  "site",
				Usage: "wiki base URL",
				Value: app.DefaultConfigSite,
			},
			&cli.StringFlag{
				Name:  "auth--method",
				Usage: "authentication method (none|static|oauth)",
				Value: string(app.DefaultConfigAuthMethod),
			},
		},
		Commands: []*cli.Command{
			r.getCommand(),
			r.setCommand(),
			r.deleteCommand(),
			r.resetCommand(),
			r.loginCommand(),
			r.serveCommand(),
		},
	}
}

// runner carries what every command needs to load configuration.
type runner struct {
	environ func() []string
}

// setup loads the configuration and installs logging. The returned shutdown func
// must be called before the process exits.
func (r *runner) setup(ctx context.Context, cmd *cli.Command) (*app.Config, observability.ShutdownFunc, error) {
	cfg, err := loadConfig(cmd.String("config"), cmd, r.environ)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	shutdown, err := observability.Instrument(ctx, cfg.LogLevel, string(cfg.LogFormat), string(cfg.LogExporter))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up observability layer: %w", err)
	}

	return cfg, shutdown, nil
}

// withApp runs fn against a freshly built App and flushes logs afterwards.
func (r *runner) withApp(ctx context.Context, cmd *cli.Command, fn func(*app.App) error) error {
	cfg, shutdown, err := r.setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			fmt.Fprintf(cmd.Root().ErrWriter, "flushing logs: %v\n", err)
		}
	}()

	application, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create app: %w", err)
	}

	return fn(application)
}

func (r *runner) serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the local preferences gateway",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "server--host",
				Usage: "server host",
				Value: app.DefaultConfigServerHost,
			},
			&cli.IntFlag{
				Name:  "server--port",
				Usage: "server port",
				Value: int(app.DefaultConfigServerPort),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return r.withApp(ctx, cmd, func(application *app.App) error {
				slog.InfoContext(ctx, "starting")

				if err := application.Start(ctx); err != nil {
					return fmt.Errorf("app failed to start: %w", err)
				}

				slog.InfoContext(ctx, "stopped gracefully")
				return nil
			})
		},
	}
}
