// Package notify delivers signups to external spreadsheets without blocking the caller.
//
// A Sink receives one row per accepted signup; an Exporter replaces the whole sheet.
// Google Sheets, an outbound webhook and a log-only fallback implement both.
package notify

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/mmynk/waitlist/internal/models"
)

// Header names the sheet columns, in Row.Values order.
var Header = []string{
	"Timestamp", "Name", "Email", "Phone", "Location",
	"Instagram", "Bib Number", "Referral Source",
}

// Row is the flat spreadsheet projection of a signup.
type Row struct {
	Timestamp      time.Time `json:"timestamp"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Location       string    `json:"location"`
	Instagram      string    `json:"instagram"`
	BibNumber      int       `json:"bibNumber"`
	ReferralSource string    `json:"referralSource"`
}

// RowFromSignup flattens s; a missing Instagram handle becomes "".
func RowFromSignup(s *models.Signup) Row {
	return Row{
		Timestamp:      s.SignupDate.UTC(),
		Name:           s.Name,
		Email:          s.Email,
		Phone:          s.Phone,
		Location:       s.Location,
		Instagram:      s.InstagramOrEmpty(),
		BibNumber:      s.BibNumber,
		ReferralSource: s.ReferralSource,
	}
}

// Values returns the row cells in Header order.
func (r Row) Values() []string {
	return []string{
		r.Timestamp.Format(time.RFC3339),
		r.Name,
		r.Email,
		r.Phone,
		r.Location,
		r.Instagram,
		strconv.Itoa(r.BibNumber),
		r.ReferralSource,
	}
}

// Sink receives a single row per accepted signup.
type Sink interface {
	Name() string
	Append(ctx context.Context, row Row) error
}

// Exporter overwrites the external sheet with every signup.
type Exporter interface {
	Name() string
	Export(ctx context.Context, rows []Row) error
}

// LogSink only logs what would have been sent. It is used when no external
// spreadsheet is configured.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink returns a LogSink writing to logger, or slog.Default() when nil.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Append(ctx context.Context, row Row) error {
	s.logger.InfoContext(ctx, "Waitlist signup data for sheets",
		"email", row.Email,
		"bib_number", row.BibNumber,
		"referral_source", row.ReferralSource,
	)
	return nil
}

func (s *LogSink) Export(ctx context.Context, rows []Row) error {
	s.logger.InfoContext(ctx, "Google Sheets export requested", "count", len(rows))
	return nil
}
