package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" || cfg.Env != "development" {
		t.Errorf("unexpected defaults: port=%q env=%q", cfg.Port, cfg.Env)
	}
	if cfg.TokenTTL != 24*time.Hour || cfg.Redis.IdempotencyTTL != 24*time.Hour {
		t.Errorf("unexpected ttl defaults: %s %s", cfg.TokenTTL, cfg.Redis.IdempotencyTTL)
	}
	if cfg.Access.AdminOverride {
		t.Error("admin override must be off by default")
	}
	if cfg.Access.FallbackRoute != "/" || cfg.Billing.IntervalDays != 30 || cfg.Audit.Workers != 4 {
		t.Errorf("unexpected defaults: %+v %+v %+v", cfg.Access, cfg.Billing, cfg.Audit)
	}
	if cfg.Mongo.Database != "backoffice" {
		t.Errorf("mongo db: got %q", cfg.Mongo.Database)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENV":                       "production",
		"JWT_SECRET":                "s3cr3t",
		"TOKEN_TTL":                 "2h",
		"AUTHZ_ADMIN_OVERRIDE":      "true",
		"ACCESS_FALLBACK_ROUTE":     "/home",
		"INSTALLMENT_INTERVAL_DAYS": "15",
		"REDIS_DB":                  "3",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Access.AdminOverride || cfg.Access.FallbackRoute != "/home" {
		t.Errorf("access config not applied: %+v", cfg.Access)
	}
	if cfg.TokenTTL != 2*time.Hour || cfg.Billing.IntervalDays != 15 || cfg.Redis.DB != 3 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.IsDevelopment() {
		t.Error("production config reported as development")
	}
}

func TestLoad_Validation(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret in production": {"ENV": "production"},
		"zero interval":                {"INSTALLMENT_INTERVAL_DAYS": "0"},
		"zero workers":                 {"AUDIT_WORKERS": "0"},
		"malformed duration":           {"TOKEN_TTL": "forever"},
	}
	for name, env := range cases {
		if _, err := load(context.Background(), envconfig.MapLookuper(env)); err == nil || !strings.HasPrefix(err.Error(), "config:") {
			t.Errorf("%s: expected config error, got %v", name, err)
		}
	}
}
