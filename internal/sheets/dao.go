package sheets

import (
	"context"
	"fmt"

	sheetsv4 "google.golang.org/api/sheets/v4"

	"github.com/mmynk/waitlist/internal/notify"
)

// Append adds one signup row at the bottom of the tab.
func (c *Client) Append(ctx context.Context, row notify.Row) error {
	vr := &sheetsv4.ValueRange{Values: [][]interface{}{cells(row.Values())}}
	_, err := c.srv.Spreadsheets.Values.Append(c.spreadsheetID, c.sheet+"!A:H", vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	return nil
}

// Export clears the tab and rewrites it with a header and every row.
func (c *Client) Export(ctx context.Context, rows []notify.Row) error {
	_, err := c.srv.Spreadsheets.Values.Clear(c.spreadsheetID, c.sheet+"!A:Z", &sheetsv4.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("clear sheet: %w", err)
	}

	vr := &sheetsv4.ValueRange{Values: table(rows)}
	_, err = c.srv.Spreadsheets.Values.Update(c.spreadsheetID, c.sheet+"!A1", vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("write sheet: %w", err)
	}
	return nil
}

// table builds the header plus one line per row.
func table(rows []notify.Row) [][]interface{} {
	values := make([][]interface{}, 0, len(rows)+1)
	values = append(values, cells(notify.Header))
	for _, r := range rows {
		values = append(values, cells(r.Values()))
	}
	return values
}

func cells(in []string) []interface{} {
	out := make([]interface{}, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
