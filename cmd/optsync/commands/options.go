package commands

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/florianilch/optsync/internal/app"
	"github.com/florianilch/optsync/internal/useroption"
)

// errUsage is returned when positional arguments do not match the command.
var errUsage = errors.New("wrong number of arguments")

func (r *runner) getCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "print all preferences, or the value of one",
		ArgsUsage: "[KEY]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() > 1 {
				return fmt.Errorf("get: %w", errUsage)
			}
			key := cmd.Args().First()

			return r.withApp(ctx, cmd, func(application *app.App) error {
				info, err := application.Options().GetAll(ctx, application.Identity())
				if err != nil {
					return err
				}

				w := cmd.Root().Writer
				if key != "" {
					value, ok := info.Options[key]
					if !ok {
						return fmt.Errorf("option %q is not set", key)
					}
					_, err := fmt.Fprintln(w, value)
					return err
				}

				keys := make([]string, 0, len(info.Options))
				for k := range info.Options {
					keys = append(keys, k)
				}
				slices.Sort(keys)
				for _, k := range keys {
					if _, err := fmt.Fprintf(w, "%s=%s\n", k, info.Options[k]); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func (r *runner) setCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "set a preference, or remove it with --unset",
		ArgsUsage: "KEY [VALUE]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "unset",
				Usage: "send the key without a value, removing the preference",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opt := useroption.Option{Key: cmd.Args().First()}
			switch {
			case cmd.Bool("unset") && cmd.NArg() == 1:
			case !cmd.Bool("unset") && cmd.NArg() == 2:
				opt = useroption.NewOption(opt.Key, cmd.Args().Get(1))
			default:
				return fmt.Errorf("set: %w", errUsage)
			}

			return r.withApp(ctx, cmd, func(application *app.App) error {
				return application.Options().Set(ctx, application.Identity(), opt)
			})
		},
	}
}

func (r *runner) deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "remove a preference",
		ArgsUsage: "KEY",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("delete: %w", errUsage)
			}
			key := cmd.Args().First()

			return r.withApp(ctx, cmd, func(application *app.App) error {
				return application.Options().Delete(ctx, application.Identity(), key)
			})
		},
	}
}

func (r *runner) resetCommand() *cli.Command {
	return &cli.Command{
		Name:  "reset",
		Usage: "reset all preferences to the site defaults",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 0 {
				return fmt.Errorf("reset: %w", errUsage)
			}

			return r.withApp(ctx, cmd, func(application *app.App) error {
				return application.Options().Reset(ctx, application.Identity())
			})
		},
	}
}
