package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mmynk/waitlist/internal/config"
)

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		cfg  config.Config
	}{
		{"memory", config.Config{Backend: config.BackendMemory}},
		{"sqlite", config.Config{Backend: config.BackendSQLite, DBPath: filepath.Join(t.TempDir(), "w.db")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := openStore(ctx, tt.cfg)
			if err != nil {
				t.Fatalf("openStore failed: %v", err)
			}
			defer store.Close()

			if _, err := store.Incr(ctx, "warmup", 1); err != nil {
				t.Errorf("store not usable: %v", err)
			}
		})
	}
}

func TestOpenStoreUnreachableRedis(t *testing.T) {
	cfg := config.Config{Backend: config.BackendRedis, RedisAddr: "127.0.0.1:1", RedisPoolSize: 1}
	if store, err := openStore(context.Background(), cfg); err == nil {
		store.Close()
		t.Fatal("expected error for unreachable redis")
	}
}

func TestOpenStorePingsSQLite(t *testing.T) {
	store, err := openStore(context.Background(), config.Config{
		Backend: config.BackendSQLite,
		DBPath:  filepath.Join(t.TempDir(), "w.db"),
	})
	if err != nil {
		t.Fatalf("openStore failed: %v", err)
	}
	defer store.Close()

	if _, ok := store.(pinger); !ok {
		t.Error("sqlite store should support Ping")
	}
}

func TestNewSink(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{"nothing configured", config.Config{}, "log"},
		{"webhook", config.Config{WebhookURL: "http://localhost:9/hook"}, "webhook"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink, err := newSink(ctx, tt.cfg)
			if err != nil {
				t.Fatalf("newSink failed: %v", err)
			}
			if sink.Name() != tt.want {
				t.Errorf("sink: got %q, want %q", sink.Name(), tt.want)
			}
		})
	}

	t.Run("missing service account file", func(t *testing.T) {
		cfg := config.Config{
			SpreadsheetID:            "sheet-id",
			GoogleServiceAccountJSON: filepath.Join(t.TempDir(), "missing.json"),
		}
		if _, err := newSink(ctx, cfg); err == nil {
			t.Error("expected error for missing credentials file")
		}
	})
}
