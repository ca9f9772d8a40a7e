package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/waitlist/internal/config"
	"github.com/mmynk/waitlist/internal/notify"
	"github.com/mmynk/waitlist/internal/sheets"
	"github.com/mmynk/waitlist/internal/storage"
	"github.com/mmynk/waitlist/internal/storage/memory"
	"github.com/mmynk/waitlist/internal/storage/redis"
	"github.com/mmynk/waitlist/internal/storage/sqlite"
	"github.com/mmynk/waitlist/internal/webhook"
)

// pinger is implemented by stores that can check their connection.
type pinger interface {
	Ping(ctx context.Context) error
}

// sheetSink both appends single rows and overwrites the whole sheet.
type sheetSink interface {
	notify.Sink
	notify.Exporter
}

// openStore opens the configured backend and checks that it answers.
func openStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	store, err := dialStore(cfg)
	if err != nil {
		return nil, err
	}
	if p, ok := store.(pinger); ok {
		if err := p.Ping(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("%s ping: %w", cfg.Backend, err)
		}
	}
	return store, nil
}

func dialStore(cfg config.Config) (storage.Store, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return memory.New(), nil
	case config.BackendRedis:
		store, err := redis.New(cfg.RedisAddr, cfg.RedisPoolSize, cfg.RedisPrefix)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}

// newSink prefers Google Sheets, then a webhook, then logging only.
func newSink(ctx context.Context, cfg config.Config) (sheetSink, error) {
	switch {
	case cfg.SheetsEnabled():
		client, err := sheets.New(ctx, cfg.GoogleServiceAccountJSON, cfg.SpreadsheetID, cfg.SheetName)
		if err != nil {
			return nil, err
		}
		slog.Info("Google Sheets sink configured", "spreadsheet_id", client.SpreadsheetID(), "tab", cfg.SheetName)
		return client, nil
	case cfg.WebhookURL != "":
		return webhook.New(cfg.WebhookURL), nil
	default:
		return notify.NewLogSink(nil), nil
	}
}
