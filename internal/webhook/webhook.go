// Package webhook posts waitlist rows to an HTTP endpoint, typically an
// Apps Script or automation hook that appends them to a spreadsheet.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mmynk/waitlist/internal/notify"
)

var (
	_ notify.Sink     = (*Client)(nil)
	_ notify.Exporter = (*Client)(nil)
)

// Event names sent in the payload.
const (
	EventSignup = "signup"
	EventExport = "export"
)

// Payload is the JSON body posted to the webhook.
type Payload struct {
	Event string       `json:"event"`
	Row   *notify.Row  `json:"row,omitempty"`
	Rows  []notify.Row `json:"rows,omitempty"`
	Count int          `json:"count"`
}

type Client struct {
	url  string
	http *http.Client
}

// New returns a client posting to url with a 10 second timeout.
func New(url string) *Client {
	return &Client{url: url, http: &http.Client{Timeout: 10 * time.Second}}
}

func (c *Client) Name() string { return "webhook" }

func (c *Client) Append(ctx context.Context, row notify.Row) error {
	return c.post(ctx, Payload{Event: EventSignup, Row: &row, Count: 1})
}

func (c *Client) Export(ctx context.Context, rows []notify.Row) error {
	return c.post(ctx, Payload{Event: EventExport, Rows: rows, Count: len(rows)})
}

func (c *Client) post(ctx context.Context, p Payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", p.Event, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("post %s: unexpected status %d", p.Event, resp.StatusCode)
	}
	return nil
}
