package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != "3000" {
		t.Fatalf("expected default port 3000, got %q", cfg.Server.Port)
	}
	if cfg.Server.Addr() != ":3000" {
		t.Fatalf("expected addr :3000, got %q", cfg.Server.Addr())
	}
	if cfg.Storefront.DeliveryFeeCents != 200 {
		t.Fatalf("expected default delivery fee 200, got %d", cfg.Storefront.DeliveryFeeCents)
	}
	if cfg.Storefront.TaxRateBasisPoints != 0 {
		t.Fatalf("expected default tax rate 0, got %d", cfg.Storefront.TaxRateBasisPoints)
	}
	if cfg.GeoIP.BaseURL != "https://ipapi.co" {
		t.Fatalf("unexpected geoip base url %q", cfg.GeoIP.BaseURL)
	}
	if cfg.GeoIP.Timeout != 3*time.Second {
		t.Fatalf("unexpected geoip timeout %s", cfg.GeoIP.Timeout)
	}
}

func TestLoadEnvMapPrecedence(t *testing.T) {
	cfg, err := Load(
		WithoutSystemEnv(),
		WithEnvFile(""),
		WithEnvMap(map[string]string{
			"PORT":               "8181",
			"DELIVERY_FEE_CENTS": "350",
			"TAX_RATE_BP":        "825",
			"DATA_DIR":           "/tmp/qb-data",
		}),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != "8181" {
		t.Fatalf("expected port 8181, got %q", cfg.Server.Port)
	}
	if cfg.Storefront.DeliveryFeeCents != 350 {
		t.Fatalf("expected delivery fee 350, got %d", cfg.Storefront.DeliveryFeeCents)
	}
	if cfg.Storefront.TaxRateBasisPoints != 825 {
		t.Fatalf("expected tax rate 825, got %d", cfg.Storefront.TaxRateBasisPoints)
	}
	if cfg.Storefront.VisitPath() != filepath.Join("/tmp/qb-data", "visits.json") {
		t.Fatalf("unexpected visit path %q", cfg.Storefront.VisitPath())
	}
}

func TestLoadDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "# local overrides\nexport PORT=4000\nGEOIP_TIMEOUT=\"5s\"\n"
	if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
		t.Fatalf("failed writing env file: %v", err)
	}

	cfg, err := Load(WithoutSystemEnv(), WithEnvFile(envPath))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != "4000" {
		t.Fatalf("expected port 4000 from dotenv, got %q", cfg.Server.Port)
	}
	if cfg.GeoIP.Timeout != 5*time.Second {
		t.Fatalf("expected geoip timeout 5s, got %s", cfg.GeoIP.Timeout)
	}
}

func TestLoadValidationFailure(t *testing.T) {
	_, err := Load(
		WithoutSystemEnv(),
		WithEnvFile(""),
		WithEnvMap(map[string]string{
			"PORT":               "not-a-port",
			"DELIVERY_FEE_CENTS": "-5",
		}),
	)
	if err == nil {
		t.Fatalf("expected validation error")
	}

	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %T", err)
	}

	fields := validation.Fields()
	want := map[string]bool{"Server.Port": false, "Storefront.DeliveryFeeCents": false}
	for _, field := range fields {
		if _, ok := want[field]; ok {
			want[field] = true
		}
	}
	for field, seen := range want {
		if !seen {
			t.Fatalf("expected %s in invalid fields, got %v", field, fields)
		}
	}
}
