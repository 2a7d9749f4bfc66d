package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/user"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/florianilch/optsync/internal/credential"
	"github.com/florianilch/optsync/internal/mwapi"
	"github.com/florianilch/optsync/internal/tokensource"
)

// LogFormat represents the logging output format.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// LogExporter selects where logs and spans go. "none" writes slog records to stderr
// directly and records no spans.
type LogExporter string

const (
	LogExporterNone     LogExporter = "none"
	LogExporterStdout   LogExporter = "stdout"
	LogExporterOTLPHTTP LogExporter = "otlp-http"
	LogExporterOTLPGRPC LogExporter = "otlp-grpc"
)

// CredentialStorageType represents where the session credential is persisted.
type CredentialStorageType string

const (
	CredentialStorageTypeFile     CredentialStorageType = "file"
	CredentialStorageTypeEnv      CredentialStorageType = "env"
	CredentialStorageTypeKeyring  CredentialStorageType = "keyring"
	CredentialStorageTypeDynamoDB CredentialStorageType = "dynamodb"
)

// AuthenticationMethod represents how API requests are authenticated.
type AuthenticationMethod string

const (
	// AuthenticationMethodNone sends requests with a plain cookie session.
	AuthenticationMethodNone AuthenticationMethod = "none"
	// AuthenticationMethodStatic sends a stored owner-only access token.
	AuthenticationMethodStatic AuthenticationMethod = "static"
	// AuthenticationMethodOAuth refreshes access tokens from a stored refresh token.
	AuthenticationMethodOAuth AuthenticationMethod = "oauth"
)

// keyringService is the keyring service name credentials are stored under.
const keyringService = "optsync"

// Default configuration values
const (
	DefaultConfigLogFormat       = LogFormatText
	DefaultConfigLogExporter     = LogExporterNone
	DefaultConfigSite            = "https://en.wikipedia.org"
	DefaultConfigUserAgent       = "optsync/0.1 (https://github.com/florianilch/optsync)"
	DefaultConfigHTTPTimeout     = 30 * time.Second
	DefaultConfigServerHost      = "127.0.0.1"
	DefaultConfigServerPort      = 4100
	DefaultConfigShutdownTimeout = 5 * time.Second
	DefaultConfigAuthMethod      = AuthenticationMethodNone
	DefaultConfigAuthStorage     = CredentialStorageTypeFile
	DefaultConfigDynamoDBTable   = "optsync-credentials"
)

// DefaultConfigAuthTokenURL is the Wikimedia OAuth 2 token endpoint.
var DefaultConfigAuthTokenURL = tokensource.Endpoint.TokenURL

// HTTPConfig holds outbound HTTP client configuration.
type HTTPConfig struct {
	// Timeout bounds each API round-trip, including the token fetch.
	Timeout time.Duration `json:"timeout"`
}

// ServerConfig holds the local gateway server configuration.
type ServerConfig struct {
	Host string `json:"host" validate:"hostname_rfc1123|ip"`
	Port uint16 `json:"port"`
}

// ShutdownConfig holds shutdown behavior configuration.
type ShutdownConfig struct {
	// Timeout for graceful shutdown.
	Timeout time.Duration `json:"timeout"`
}

// DynamoDBConfig addresses the credential table for dynamodb storage.
type DynamoDBConfig struct {
	Table    string `json:"table"`
	Region   string `json:"region,omitempty"`
	Endpoint string `json:"endpoint,omitempty" validate:"omitempty,url"`
}

// AuthConfig describes how to build the credential store and the token source.
type AuthConfig struct {
	// Method - how requests are authenticated
	Method AuthenticationMethod `json:"method" validate:"required,oneof=none static oauth"`

	// Storage - where the long-lived credential lives
	Storage CredentialStorageType `json:"storage" validate:"required,oneof=file env keyring dynamodb"`

	// Storage-specific settings
	File     string         `json:"file,omitempty"`    // file: path to credential file
	EnvKey   string         `json:"env_key,omitempty"` // env: variable name
	Account  string         `json:"account,omitempty"` // keyring user / dynamodb item key
	DynamoDB DynamoDBConfig `json:"dynamodb"`

	// OAuth consumer, required for the oauth method
	ClientID     string `json:"client_id,omitempty"`
	ClientSecret string `json:"client_secret,omitempty"`
	TokenURL     string `json:"token_url" validate:"omitempty,url"`
}

// NewCredentialStore creates the credential.Store described by the configuration.
func (a *AuthConfig) NewCredentialStore(ctx context.Context) (credential.Store, error) {
	switch a.Storage {
	case CredentialStorageTypeFile:
		return credential.NewFileStore(a.File)
	case CredentialStorageTypeEnv:
		return credential.NewEnvStore(a.EnvKey)
	case CredentialStorageTypeKeyring:
		return credential.NewKeyringStore(keyringService, a.Account)
	case CredentialStorageTypeDynamoDB:
		return credential.NewDynamoDBStore(ctx, credential.DynamoDBConfig{
			Table:    a.DynamoDB.Table,
			Region:   a.DynamoDB.Region,
			Endpoint: a.DynamoDB.Endpoint,
		}, a.Account)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", a.Storage)
	}
}

// Config holds the application's configuration.
type Config struct {
	// LogLevel for logging output (defaults to Info if unset).
	LogLevel    slog.Level  `json:"log_level"`
	LogFormat   LogFormat   `json:"log_format" validate:"oneof=text json"`
	LogExporter LogExporter `json:"log_exporter" validate:"oneof=none stdout otlp-http otlp-grpc"`

	// Site is the wiki whose preferences are synchronized. A bare host means https.
	Site      string `json:"site" validate:"required"`
	UserAgent string `json:"user_agent" validate:"required"`

	HTTP     HTTPConfig     `json:"http"`
	Server   ServerConfig   `json:"server"`
	Shutdown ShutdownConfig `json:"shutdown"`
	Auth     AuthConfig     `json:"auth"`
}

// Default creates a new Config with default values applied.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := cfg.ApplyDefaults(); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}
	return cfg, nil
}

// ApplyDefaults fills unset config fields with sensible defaults.
func (c *Config) ApplyDefaults() error {
	if c.LogFormat == "" {
		c.LogFormat = DefaultConfigLogFormat
	}
	if c.LogExporter == "" {
		c.LogExporter = DefaultConfigLogExporter
	}
	if c.Site == "" {
		c.Site = DefaultConfigSite
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultConfigUserAgent
	}
	if c.HTTP.Timeout == 0 {
		c.HTTP.Timeout = DefaultConfigHTTPTimeout
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultConfigServerHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultConfigServerPort
	}
	if c.Shutdown.Timeout == 0 {
		c.Shutdown.Timeout = DefaultConfigShutdownTimeout
	}
	if c.Auth.Method == "" {
		c.Auth.Method = DefaultConfigAuthMethod
	}
	if c.Auth.Storage == "" {
		c.Auth.Storage = DefaultConfigAuthStorage
	}
	if c.Auth.TokenURL == "" {
		c.Auth.TokenURL = DefaultConfigAuthTokenURL
	}

	// Dynamic defaults based on storage type
	switch c.Auth.Storage {
	case CredentialStorageTypeFile:
		if c.Auth.File == "" {
			configDir, err := os.UserConfigDir()
			if err != nil {
				return fmt.Errorf("auth.file required (auto-detect failed: %w)", err)
			}
			c.Auth.File = filepath.Join(configDir, "optsync", "credential")
		}
	case CredentialStorageTypeKeyring, CredentialStorageTypeDynamoDB:
		if c.Auth.Account == "" {
			currentUser, err := user.Current()
			if err != nil {
				return fmt.Errorf("auth.account required (auto-detect failed: %w)", err)
			}
			c.Auth.Account = currentUser.Username
		}
		if c.Auth.Storage == CredentialStorageTypeDynamoDB && c.Auth.DynamoDB.Table == "" {
			c.Auth.DynamoDB.Table = DefaultConfigDynamoDBTable
		}
	case CredentialStorageTypeEnv:
		// env_key must be explicitly configured (no sensible default)
	}

	return nil
}

// Validate validates the configuration using struct tags and cross-field rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if _, err := mwapi.ParseIdentity(c.Site); err != nil {
		return fmt.Errorf("site: %w", err)
	}

	if c.Auth.Method == AuthenticationMethodOAuth {
		// Refresh tokens rotate, so they must be written back
		if c.Auth.Storage == CredentialStorageTypeEnv {
			return errors.New("oauth authentication requires writable storage, env is read-only")
		}
		if c.Auth.ClientID == "" {
			return errors.New("auth.client_id required for oauth authentication")
		}
	}

	switch c.Auth.Storage {
	case CredentialStorageTypeFile:
		if c.Auth.File == "" {
			return errors.New("file path required for file storage")
		}
	case CredentialStorageTypeEnv:
		if c.Auth.EnvKey == "" {
			return errors.New("env_key required for env storage")
		}
	case CredentialStorageTypeKeyring, CredentialStorageTypeDynamoDB:
		if c.Auth.Account == "" {
			return fmt.Errorf("account required for %s storage", c.Auth.Storage)
		}
	}

	return nil
}
