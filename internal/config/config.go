// Package config provides a centralized entrypoint for the application parameters.
package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/creasty/defaults"
	pkgerrors "github.com/pkg/errors"
	"go.yaml.in/yaml/v3"
)

const (
	// ModeService serves the relay over HTTP.
	ModeService = "service"
	// ModeLambda serves the relay as an AWS Lambda function.
	ModeLambda = "lambda"
)

var (
	// Global is a struct that contains the global configuration.
	Global global
	// Relay is the relay configuration shared, read-only, by every request.
	Relay RelayConfig
	// Service is a struct that contains the configuration for the service mode.
	Service service
	// Lambda is a struct that contains the configuration for the lambda mode.
	Lambda lambda
	// AWS is a struct that contains the optional AWS integrations.
	AWS awsIntegrations
)

type global struct {
	// Mode is the runtime mode of the application.
	Mode string `yaml:"mode,omitempty" default:"service"`
	// Logging is a struct that contains the logging configuration.
	Logging struct {
		// Verbosity is the verbosity level of the application. It represents slog levels.
		Verbosity int `yaml:"verbosity,omitempty"`
		// CallerTrace is a flag that enables the caller trace in the logger.
		CallerTrace bool `yaml:"callerTrace,omitempty"`
	} `yaml:"logging,omitempty"`
}

// RelayConfig holds the parameters consumed by the request handler.
type RelayConfig struct {
	// WebhookURL is the chat webhook receiving failure notifications.
	WebhookURL string `yaml:"webhookUrl,omitempty" default:"http://mattermost/hook"`
	// WebhookSecret is the shared secret used to verify request signatures. nil disables verification.
	WebhookSecret *string `yaml:"webhookSecret,omitempty"`
	// EnforceSignature rejects unverified requests instead of logging a warning.
	EnforceSignature bool `yaml:"enforceSignature,omitempty"`
	// DefaultBranches are the branches whose failures are notified.
	DefaultBranches []string `yaml:"defaultBranches,omitempty" default:"[\"main\", \"master\"]"`
}

type service struct {
	Addr    string        `yaml:"addr,omitempty" default:"127.0.0.1"`
	Port    string        `yaml:"port,omitempty" default:"8080"`
	Timeout time.Duration `yaml:"timeout,omitempty" default:"30s"`
}

type lambda struct {
	PayloadType string `yaml:"payloadType,omitempty" default:"api-gateway-v2"`
}

type awsIntegrations struct {
	SSM struct {
		// WebhookSecretKey is the SSM parameter holding the shared secret.
		WebhookSecretKey string `yaml:"webhookSecretKey,omitempty"`
		// WebhookURLKey is the SSM parameter holding the notification webhook URL.
		WebhookURLKey string `yaml:"webhookUrlKey,omitempty"`
	} `yaml:"ssm,omitempty"`
	S3 struct {
		// DumpBucket receives a copy of every /dump body when set.
		DumpBucket string `yaml:"dumpBucket,omitempty"`
	} `yaml:"s3,omitempty"`
}

// Enabled reports whether any AWS integration is configured.
func (a awsIntegrations) Enabled() bool {
	return a.SSM.WebhookSecretKey != "" || a.SSM.WebhookURLKey != "" || a.S3.DumpBucket != ""
}

// SetDefaults sets the default values for the configuration.
func SetDefaults() error {
	return errors.Join(
		defaults.Set(&Global),
		defaults.Set(&Relay),
		defaults.Set(&Service),
		defaults.Set(&Lambda),
		defaults.Set(&AWS),
	)
}

// LoadFromFile loads the configuration from a file. A missing file is not an error.
func LoadFromFile(path string) error {
	if len(path) == 0 {
		return nil
	}
	fstat, err := os.Stat(path)
	if err != nil {
		return nil //nolint:nilerr // If the file does not exist, we ignore it.
	}
	if fstat.IsDir() {
		return fmt.Errorf("configuration file %s is a directory", path)
	}
	if !fstat.Mode().IsRegular() {
		return fmt.Errorf("configuration file %s is not a regular file", path)
	}

	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}
	type all struct {
		Global  global          `yaml:"global,omitempty"`
		Relay   RelayConfig     `yaml:"relay,omitempty"`
		Service service         `yaml:"service,omitempty"`
		Lambda  lambda          `yaml:"lambda,omitempty"`
		AWS     awsIntegrations `yaml:"aws,omitempty"`
	}
	var a all
	if err = yaml.Unmarshal(content, &a); err != nil {
		return fmt.Errorf("failed to unmarshal configuration file %s: %w", path, err)
	}
	Global = a.Global
	Relay = a.Relay
	Service = a.Service
	Lambda = a.Lambda
	AWS = a.AWS

	return nil
}

// SecretStore resolves named parameters, e.g. from SSM Parameter Store.
type SecretStore interface {
	GetSecret(ctx context.Context, key string, encrypted bool) (*string, error)
}

// ResolveSecrets overrides the relay webhook URL and secret with the values of the configured SSM parameters.
func ResolveSecrets(ctx context.Context, store SecretStore) error {
	if AWS.SSM.WebhookSecretKey != "" {
		secret, err := store.GetSecret(ctx, AWS.SSM.WebhookSecretKey, true)
		if err != nil {
			return pkgerrors.Wrap(err, "failed to resolve webhook secret")
		}
		Relay.WebhookSecret = secret
	}
	if AWS.SSM.WebhookURLKey != "" {
		u, err := store.GetSecret(ctx, AWS.SSM.WebhookURLKey, true)
		if err != nil {
			return pkgerrors.Wrap(err, "failed to resolve webhook URL")
		}
		Relay.WebhookURL = *u
	}
	return nil
}

// Validate checks that the relay configuration is usable.
func (r RelayConfig) Validate() error {
	u, err := url.Parse(r.WebhookURL)
	if err != nil {
		return pkgerrors.Wrap(err, "invalid webhook URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid webhook URL %q: scheme must be http or https", r.WebhookURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid webhook URL %q: missing host", r.WebhookURL)
	}
	return nil
}

// Snapshot returns a deep copy of the relay configuration, detached from later changes to Relay.
func (r RelayConfig) Snapshot() RelayConfig {
	c := r
	if r.WebhookSecret != nil {
		s := *r.WebhookSecret
		c.WebhookSecret = &s
	}
	c.DefaultBranches = slices.Clone(r.DefaultBranches)
	return c
}
