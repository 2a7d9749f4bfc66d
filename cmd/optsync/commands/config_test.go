package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/florianilch/optsync/internal/app"
)

func TestLoadConfigPrecedence(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	configPath := filepath.Join(t.TempDir(), "optsync.toml")
	err := os.WriteFile(configPath, []byte(`
site = "https://de.wikipedia.org"
log_format = "json"

[http]
timeout = "10s"

[auth]
method = "static"
storage = "env"
env_key = "FROM_FILE"
`), 0o600)
	if err != nil {
		t.Fatal(err)
	}

	environ := func() []string {
		return []string{
			"OPTSYNC_AUTH__ENV_KEY=FROM_ENV",
			"OPTSYNC_SITE=https://fr.wikipedia.org",
			"UNRELATED=1",
		}
	}

	var cfg *app.Config
	cmd := &cli.Command{
		Name: "test",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config"},
			&cli.StringFlag{Name: "site"},
			&cli.StringFlag{Name: "log-format"},
			&cli.IntFlag{Name: "server--port"},
			&cli.StringFlag{Name: "auth--method"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var err error
			cfg, err = loadConfig(cmd.String("config"), cmd, environ)
			return err
		},
	}

	args := []string{"test", "--config", configPath, "--site", "https://nl.wikipedia.org", "--server--port", "9000", "--auth--method", "none"}
	if err := cmd.Run(context.Background(), args); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if cfg.Site != "https://nl.wikipedia.org" {
		t.Errorf("site = %q, flag must win", cfg.Site)
	}
	if cfg.Auth.EnvKey != "FROM_ENV" {
		t.Errorf("auth.env_key = %q, env must override file", cfg.Auth.EnvKey)
	}
	if cfg.LogFormat != app.LogFormatJSON {
		t.Errorf("log_format = %q, unset flag must not override file", cfg.LogFormat)
	}
	if cfg.HTTP.Timeout != 10*time.Second {
		t.Errorf("http.timeout = %v", cfg.HTTP.Timeout)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("server.port = %d", cfg.Server.Port)
	}
	if cfg.Auth.Method != app.AuthenticationMethodNone {
		t.Errorf("auth.method = %q, nested flag must override file", cfg.Auth.Method)
	}
	if cfg.Server.Host != app.DefaultConfigServerHost {
		t.Errorf("server.host = %q, want default", cfg.Server.Host)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	environ := func() []string { return []string{"OPTSYNC_AUTH__METHOD=oauth"} }

	if _, err := loadConfig("", nil, environ); err == nil {
		t.Fatal("expected validation error for oauth without client_id")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	environ := func() []string { return nil }

	if _, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml"), nil, environ); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
