package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{
			Token:   "123:abc",
			AdminID: 999,
		},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Errorf("run mode = %q, want %q", cfg.Telegram.RunMode, RunModeLongpoll)
	}
	if cfg.Session.TimeoutSeconds != 300 {
		t.Errorf("session timeout = %d, want 300", cfg.Session.TimeoutSeconds)
	}
}

func TestNormalizeRequiresToken(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.Token = ""
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for missing token")
	}
}

func TestNormalizeRequiresAdminID(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.AdminID = 0
	err := Normalize(cfg)
	if err == nil {
		t.Fatal("expected error for missing admin_id")
	}
	if !strings.Contains(err.Error(), "admin_id") {
		t.Errorf("error %q should mention admin_id", err)
	}
}

func TestNormalizeRunModeAlias(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "polling"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Errorf("run mode = %q, want %q", cfg.Telegram.RunMode, RunModeLongpoll)
	}
}

func TestNormalizeRejectsUnknownRunMode(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "carrier-pigeon"
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for unknown run mode")
	}
}

func TestNormalizeWebhookValidation(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = RunModeWebhook
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error: webhook mode without url/listen/port")
	}

	cfg = validConfig()
	cfg.Telegram.RunMode = RunModeWebhook
	cfg.Webhook = WebhookConfig{URL: "https://bot.example.com", Listen: "0.0.0.0", Port: 8443}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
}

func TestNormalizeDatabaseDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.Database = DatabaseConfig{Host: "localhost", User: "bot", Name: "botdb"}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Database.Port != "5432" {
		t.Errorf("db port = %q, want 5432", cfg.Database.Port)
	}
	if cfg.Database.SSLMode != "disable" {
		t.Errorf("sslmode = %q, want disable", cfg.Database.SSLMode)
	}
	if cfg.Database.MaxConnections != 4 {
		t.Errorf("max connections = %d, want 4", cfg.Database.MaxConnections)
	}
}

func TestNormalizeDatabaseRequiresUserAndName(t *testing.T) {
	cfg := validConfig()
	cfg.Database = DatabaseConfig{Host: "localhost"}
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error: database host set without user/name")
	}
}

func TestDatabaseEnabled(t *testing.T) {
	var db DatabaseConfig
	if db.Enabled() {
		t.Error("empty host should disable the database")
	}
	db.Host = "  "
	if db.Enabled() {
		t.Error("blank host should disable the database")
	}
	db.Host = "localhost"
	if !db.Enabled() {
		t.Error("set host should enable the database")
	}
}
