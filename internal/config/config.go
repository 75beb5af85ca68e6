// Package config handles loading and validation of service configuration.
// Supports both development (env vars) and production (Secret Manager) modes.
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/caarlos0/env/v11"
)

// Config holds all service configuration.
// Environment determines whether the supplier credential loads from env
// vars (development) or Secret Manager (production).
type Config struct {
	// Server settings
	Port        string `env:"PORT" envDefault:"8080" json:"port"`
	Environment string `env:"ENVIRONMENT" envDefault:"development" json:"environment"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info" json:"log_level"`

	// GCP settings (required in production)
	GCPProject string `env:"GCP_PROJECT" json:"gcp_project"`

	// AccountID is the wholesale account this storefront serves. Also
	// names the Secret Manager secret holding the supplier settings.
	AccountID string `env:"ACCOUNT_ID" json:"account_id"`

	// FavoritesLimit bounds the frequently-ordered section.
	FavoritesLimit int `env:"FAVORITES_LIMIT" envDefault:"15" json:"favorites_limit"`

	// Supplier holds the wholesale platform connection settings.
	// In production this is loaded from Secret Manager as JSON.
	Supplier SupplierConfig `envPrefix:"SUPPLIER_" json:"supplier"`
}

// SupplierConfig contains the wholesale platform connection settings.
type SupplierConfig struct {
	BaseURL       string `env:"BASE_URL" json:"base_url"`
	Credential    string `env:"CREDENTIAL" json:"credential"`
	MinAPIVersion string `env:"MIN_API_VERSION" json:"min_api_version"`
}

// Load reads configuration from file, environment, or Secret Manager.
// Priority: CONFIG_FILE (if set) → env vars, with the supplier block
// replaced from Secret Manager in production.
func Load(ctx context.Context) (*Config, error) {
	if configPath := os.Getenv("CONFIG_FILE"); configPath != "" {
		return loadFromFile(configPath)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if cfg.AccountID == "" {
		return nil, fmt.Errorf("ACCOUNT_ID environment variable required")
	}

	if cfg.Environment == "production" {
		if cfg.GCPProject == "" {
			return nil, fmt.Errorf("GCP_PROJECT required in production environment")
		}
		if err := cfg.loadFromSecretManager(ctx); err != nil {
			return nil, fmt.Errorf("loading supplier config: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile reads all configuration from a JSON file.
// Used for local development to avoid multiple env vars.
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := &Config{
		Port:           "8080",
		Environment:    "development",
		LogLevel:       "info",
		FavoritesLimit: 15,
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if cfg.AccountID == "" {
		return nil, fmt.Errorf("account_id is required")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromSecretManager fetches the supplier config from GCP Secret Manager.
// Secret name format: projects/{project}/secrets/ehurt-{account_id}/versions/latest
func (c *Config) loadFromSecretManager(ctx context.Context) error {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("creating secret manager client: %w", err)
	}
	defer client.Close()

	secretName := fmt.Sprintf("projects/%s/secrets/ehurt-%s/versions/latest",
		c.GCPProject, c.AccountID)

	result, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: secretName,
	})
	if err != nil {
		return fmt.Errorf("accessing secret %s: %w", secretName, err)
	}

	if err := json.Unmarshal(result.Payload.Data, &c.Supplier); err != nil {
		return fmt.Errorf("parsing secret JSON: %w", err)
	}
	return nil
}

// validate checks that all required configuration fields are present.
func (c *Config) validate() error {
	if c.Supplier.BaseURL == "" {
		return fmt.Errorf("supplier base_url is required")
	}
	u, err := url.Parse(c.Supplier.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid supplier base_url %q", c.Supplier.BaseURL)
	}
	if c.Supplier.Credential == "" {
		return fmt.Errorf("supplier credential is required")
	}
	if c.Supplier.MinAPIVersion != "" && strings.Count(c.Supplier.MinAPIVersion, ".") != 2 {
		return fmt.Errorf("supplier min_api_version must look like MAJOR.MINOR.PATCH, got %q", c.Supplier.MinAPIVersion)
	}
	if c.FavoritesLimit <= 0 {
		return fmt.Errorf("favorites_limit must be positive, got %d", c.FavoritesLimit)
	}
	return nil
}
