package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SMTP_HOST", "")
	t.Setenv("PORT", "7000")
	t.Setenv("STORAGE_DRIVER", "file")
	t.Setenv("SESSION_TTL", "24h")
	t.Setenv("SYNC_INTERVAL", "2s")
	t.Setenv("PUBLIC_URL_BASE", "https://horizon.bank")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 7000 || cfg.StorageDriver != "file" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.SessionTTL != 24*time.Hour || cfg.SyncInterval != 2*time.Second {
		t.Fatalf("durations: ttl=%v sync=%v", cfg.SessionTTL, cfg.SyncInterval)
	}
	if cfg.SMTPEnabled() {
		t.Fatal("SMTP should be disabled without SMTP_HOST")
	}
	if cfg.ListenAddr() != cfg.Address+":7000" {
		t.Fatalf("ListenAddr = %s", cfg.ListenAddr())
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"PORT":          "seventy",
		"SESSION_TTL":   "forever",
		"SYNC_INTERVAL": "0s",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv("PORT", "7000")
			t.Setenv("SESSION_TTL", "24h")
			t.Setenv("SYNC_INTERVAL", "2s")
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", key, value)
			}
		})
	}
}

func TestNewAdminAccount(t *testing.T) {
	admin, err := NewAdminAccount(&Config{AdminUser: "root", AdminPass: "hunter22"})
	if err != nil {
		t.Fatal(err)
	}
	if admin.Username != "root" || admin.AccountType != "admin" || admin.Password == "hunter22" {
		t.Fatalf("unexpected admin %+v", admin)
	}
}
