package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "PORT", "ENVIRONMENT", "LOG_LEVEL", "GCP_PROJECT",
		"ACCOUNT_ID", "FAVORITES_LIMIT",
		"SUPPLIER_BASE_URL", "SUPPLIER_CREDENTIAL", "SUPPLIER_MIN_API_VERSION",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("ACCOUNT_ID", "u-1022")
	t.Setenv("SUPPLIER_BASE_URL", "https://api.ehurt.example")
	t.Setenv("SUPPLIER_CREDENTIAL", "svc-token")
	t.Setenv("SUPPLIER_MIN_API_VERSION", "2.4.0")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "8080" || cfg.Environment != "development" || cfg.LogLevel != "info" {
		t.Errorf("defaults = %s/%s/%s", cfg.Port, cfg.Environment, cfg.LogLevel)
	}
	if cfg.FavoritesLimit != 15 {
		t.Errorf("FavoritesLimit = %d, want default 15", cfg.FavoritesLimit)
	}
	if cfg.Supplier.BaseURL != "https://api.ehurt.example" || cfg.Supplier.Credential != "svc-token" {
		t.Errorf("Supplier = %+v", cfg.Supplier)
	}
}

func TestLoadRequiresAccountID(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("SUPPLIER_BASE_URL", "https://api.ehurt.example")
	t.Setenv("SUPPLIER_CREDENTIAL", "svc-token")

	if _, err := Load(context.Background()); err == nil {
		t.Fatal("Load succeeded without ACCOUNT_ID")
	}
}

func TestLoadRejectsBadSupplierURL(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("ACCOUNT_ID", "u-1022")
	t.Setenv("SUPPLIER_BASE_URL", "not a url")
	t.Setenv("SUPPLIER_CREDENTIAL", "svc-token")

	if _, err := Load(context.Background()); err == nil {
		t.Fatal("Load accepted a malformed supplier URL")
	}
}

func TestLoadFromFile(t *testing.T) {
	clearConfigEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"port": "9090",
		"log_level": "debug",
		"account_id": "u-7",
		"favorites_limit": 20,
		"supplier": {
			"base_url": "https://api.ehurt.example",
			"credential": "file-token",
			"min_api_version": "2.4.0"
		}
	}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" || cfg.LogLevel != "debug" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Environment != "development" {
		t.Errorf("Environment = %s, want default development", cfg.Environment)
	}
	if cfg.FavoritesLimit != 20 || cfg.Supplier.Credential != "file-token" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestValidateMinAPIVersionShape(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("ACCOUNT_ID", "u-1022")
	t.Setenv("SUPPLIER_BASE_URL", "https://api.ehurt.example")
	t.Setenv("SUPPLIER_CREDENTIAL", "svc-token")
	t.Setenv("SUPPLIER_MIN_API_VERSION", "2.4")

	if _, err := Load(context.Background()); err == nil {
		t.Fatal("Load accepted a two-segment version")
	}
}
