package app

import (
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
	if cfg.Site != DefaultConfigSite || cfg.Auth.Method != AuthenticationMethodNone {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if !strings.HasSuffix(cfg.Auth.File, "optsync/credential") {
		t.Errorf("auth.file = %q", cfg.Auth.File)
	}
	if cfg.Auth.TokenURL != DefaultConfigAuthTokenURL {
		t.Errorf("auth.token_url = %q", cfg.Auth.TokenURL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "static token from env",
			mutate: func(c *Config) { c.Auth.Method = AuthenticationMethodStatic; c.Auth.Storage = CredentialStorageTypeEnv; c.Auth.EnvKey = "WIKI_TOKEN" },
		},
		{
			name:    "oauth with env storage",
			mutate:  func(c *Config) { c.Auth.Method = AuthenticationMethodOAuth; c.Auth.ClientID = "id"; c.Auth.Storage = CredentialStorageTypeEnv; c.Auth.EnvKey = "X" },
			wantErr: "writable storage",
		},
		{
			name:    "oauth without client id",
			mutate:  func(c *Config) { c.Auth.Method = AuthenticationMethodOAuth },
			wantErr: "client_id",
		},
		{
			name:    "env storage without key",
			mutate:  func(c *Config) { c.Auth.Storage = CredentialStorageTypeEnv },
			wantErr: "env_key",
		},
		{
			name:    "unknown method",
			mutate:  func(c *Config) { c.Auth.Method = "kerberos" },
			wantErr: "Method",
		},
		{
			name:   "bare host site",
			mutate: func(c *Config) { c.Site = "en.wikipedia.org" },
		},
		{
			name:    "invalid site",
			mutate:  func(c *Config) { c.Site = "not a url" },
			wantErr: "site",
		},
		{
			name:    "unsupported site scheme",
			mutate:  func(c *Config) { c.Site = "ftp://en.wikipedia.org" },
			wantErr: "unsupported scheme",
		},
		{
			name:    "unknown exporter",
			mutate:  func(c *Config) { c.LogExporter = "syslog" },
			wantErr: "LogExporter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CONFIG_HOME", t.TempDir())
			cfg, err := Default()
			if err != nil {
				t.Fatalf("Default: %v", err)
			}
			tt.mutate(cfg)

			err = cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestApplyDefaultsDynamoDB(t *testing.T) {
	cfg := &Config{Auth: AuthConfig{Storage: CredentialStorageTypeDynamoDB, Account: "bot"}}
	if err := cfg.ApplyDefaults(); err != nil {
		t.Fatalf("ApplyDefaults: %v", err)
	}
	if cfg.Auth.DynamoDB.Table != DefaultConfigDynamoDBTable {
		t.Errorf("table = %q", cfg.Auth.DynamoDB.Table)
	}
	if cfg.Auth.Account != "bot" {
		t.Errorf("explicit account must be kept, got %q", cfg.Auth.Account)
	}
}
