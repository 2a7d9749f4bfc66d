package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/florianilch/optsync/internal/app"
)

func (r *runner) loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "store the credential used to authenticate API requests",
		Description: "Reads an owner-only access token (auth.method=static) or an OAuth 2 " +
			"refresh token (auth.method=oauth) and writes it to the configured storage.",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, shutdown, err := r.setup(ctx, cmd)
			if err != nil {
				return err
			}
			defer func() { _ = shutdown(context.Background()) }()

			prompt, err := credentialPrompt(cfg.Auth.Method)
			if err != nil {
				return err
			}

			store, err := cfg.Auth.NewCredentialStore(ctx)
			if err != nil {
				return fmt.Errorf("failed to create credential store: %w", err)
			}

			secret, err := readSecret(cmd.Root().Reader, cmd.Root().ErrWriter, prompt)
			if err != nil {
				return err
			}

			if err := store.Write(ctx, secret); err != nil {
				return fmt.Errorf("storing credential: %w", err)
			}

			fmt.Fprintf(cmd.Root().ErrWriter, "credential stored in %s storage\n", cfg.Auth.Storage)
			return nil
		},
	}
}

func credentialPrompt(method app.AuthenticationMethod) (string, error) {
	switch method {
	case app.AuthenticationMethodStatic:
		return "Access token: ", nil
	case app.AuthenticationMethodOAuth:
		return "Refresh token: ", nil
	default:
		return "", fmt.Errorf("auth.method %q uses no stored credential", method)
	}
}

// readSecret reads one line. Input is not echoed when r is a terminal.
func readSecret(r io.Reader, w io.Writer, prompt string) (string, error) {
	if f, ok := r.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(w, prompt)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(w)
		if err != nil {
			return "", fmt.Errorf("reading credential: %w", err)
		}
		return validSecret(string(b))
	}

	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading credential: %w", err)
	}
	return validSecret(line)
}

func validSecret(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errors.New("empty credential")
	}
	return s, nil
}
