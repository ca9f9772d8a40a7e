// Package sheets writes waitlist rows to a Google Sheets tab.
package sheets

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/api/option"
	sheetsv4 "google.golang.org/api/sheets/v4"

	"github.com/mmynk/waitlist/internal/notify"
)

var (
	_ notify.Sink     = (*Client)(nil)
	_ notify.Exporter = (*Client)(nil)
)

type Client struct {
	srv           *sheetsv4.Service
	spreadsheetID string
	sheet         string
}

// New authenticates with a service account key file.
func New(ctx context.Context, serviceAccountJSONPath, spreadsheetID, sheet string) (*Client, error) {
	if _, err := os.Stat(serviceAccountJSONPath); err != nil {
		return nil, fmt.Errorf("service account json: %w", err)
	}
	return NewWithOptions(ctx, spreadsheetID, sheet,
		option.WithCredentialsFile(serviceAccountJSONPath),
		option.WithScopes(sheetsv4.SpreadsheetsScope),
	)
}

// NewWithOptions builds a client from arbitrary client options (endpoint, HTTP client, credentials).
func NewWithOptions(ctx context.Context, spreadsheetID, sheet string, opts ...option.ClientOption) (*Client, error) {
	srv, err := sheetsv4.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{srv: srv, spreadsheetID: spreadsheetID, sheet: sheet}, nil
}

func (c *Client) Name() string { return "google_sheets" }

func (c *Client) SpreadsheetID() string { return c.spreadsheetID }
