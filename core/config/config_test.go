package config

import (
	"strings"
	"testing"
)

func base() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "t"},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := base()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Errorf("run mode default = %q, want longpoll", cfg.Telegram.RunMode)
	}
	if cfg.Backend.BaseURL != "http://localhost:8080" {
		t.Errorf("backend base url default = %q", cfg.Backend.BaseURL)
	}
}

func TestNormalizeRequiresToken(t *testing.T) {
	cfg := base()
	cfg.Telegram.Token = ""
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestNormalizeRunModeAlias(t *testing.T) {
	cfg := base()
	cfg.Telegram.RunMode = "Polling"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Errorf("run mode = %q, want longpoll", cfg.Telegram.RunMode)
	}

	cfg = base()
	cfg.Telegram.RunMode = "carrier-pigeon"
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for invalid run mode")
	}
}

func TestNormalizeWebhookRequirements(t *testing.T) {
	cfg := base()
	cfg.Telegram.RunMode = RunModeWebhook
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for missing webhook url")
	}

	cfg = base()
	cfg.Telegram.RunMode = RunModeWebhook
	cfg.Webhook = WebhookConfig{URL: "https://bot.example.com", Listen: "0.0.0.0", Port: 8443}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
}

func TestNormalizeTrimsBackendSlash(t *testing.T) {
	cfg := base()
	cfg.Backend.BaseURL = "http://api.example.com/"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if strings.HasSuffix(cfg.Backend.BaseURL, "/") {
		t.Errorf("trailing slash not trimmed: %q", cfg.Backend.BaseURL)
	}
}

func TestNormalizeRateLimitExclusions(t *testing.T) {
	cfg := base()
	cfg.RateLimit.ExcludeUpdates = []string{" Callback "}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.RateLimit.ExcludeUpdates[0] != UpdateCallback {
		t.Errorf("exclusion not normalized: %q", cfg.RateLimit.ExcludeUpdates[0])
	}

	cfg = base()
	cfg.RateLimit.ExcludeUpdates = []string{"bogus"}
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for invalid exclusion")
	}
}
