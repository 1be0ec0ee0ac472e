package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != 8080 || cfg.DBPath != "./data/giftcircle.db" {
		t.Errorf("Unexpected defaults: port=%d db=%s", cfg.Port, cfg.DBPath)
	}
	if cfg.StoreTimeout != 5*time.Second || cfg.StoreMaxRetries != 5 {
		t.Errorf("Unexpected store defaults: %v %d", cfg.StoreTimeout, cfg.StoreMaxRetries)
	}
	if cfg.LockBackend != LockMemory || cfg.LockTTL != 10*time.Second {
		t.Errorf("Unexpected lock defaults: %s %v", cfg.LockBackend, cfg.LockTTL)
	}
	if cfg.RateLimitRPS != 20 || cfg.RateLimitBurst != 40 {
		t.Errorf("Unexpected rate limit defaults: %v %d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if cfg.Addr() != ":8080" {
		t.Errorf("Addr = %s", cfg.Addr())
	}
}

func TestLoadFromEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "test.env")
	content := "PORT=9090\nAUTH_DISABLED=true\nSTORE_TIMEOUT=250ms\nLOCK_BACKEND=redis\nREDIS_ADDR=localhost:6379\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	// Variables set by the file are cleaned up with the rest of the test env.
	for _, key := range []string{"PORT", "AUTH_DISABLED", "STORE_TIMEOUT", "LOCK_BACKEND", "REDIS_ADDR", "JWT_SECRET"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load(envFile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != 9090 || !cfg.AuthDisabled || cfg.StoreTimeout != 250*time.Millisecond {
		t.Errorf("Env file not applied: %+v", cfg)
	}
	if cfg.LockBackend != LockRedis || cfg.RedisAddr != "localhost:6379" {
		t.Errorf("Lock settings not applied: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"missing secret", map[string]string{"JWT_SECRET": ""}, "JWT_SECRET"},
		{"bad port", map[string]string{"JWT_SECRET": "x", "PORT": "eighty"}, "PORT"},
		{"bad duration", map[string]string{"JWT_SECRET": "x", "STORE_TIMEOUT": "soon"}, "STORE_TIMEOUT"},
		{"redis without addr", map[string]string{"JWT_SECRET": "x", "LOCK_BACKEND": "redis", "REDIS_ADDR": ""}, "REDIS_ADDR"},
		{"unknown lock backend", map[string]string{"JWT_SECRET": "x", "LOCK_BACKEND": "etcd"}, "LOCK_BACKEND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error mentioning %s, got %v", tt.wantErr, err)
			}
		})
	}
}
