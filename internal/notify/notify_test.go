package notify

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/mmynk/waitlist/internal/models"
)

func TestRowFromSignup(t *testing.T) {
	handle := "@ana"
	s := &models.Signup{
		Name:           "Ana",
		Email:          "ana@example.com",
		Phone:          "+351 912 345 678",
		Location:       "Lisbon, Portugal",
		Instagram:      &handle,
		BibNumber:      1234,
		SignupDate:     time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC),
		ReferralSource: "landing_page",
	}

	got := RowFromSignup(s).Values()
	want := []string{
		"2026-05-04T10:30:00Z", "Ana", "ana@example.com", "+351 912 345 678",
		"Lisbon, Portugal", "@ana", "1234", "landing_page",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Values() = %v, want %v", got, want)
	}
	if len(got) != len(Header) {
		t.Errorf("Values has %d cells, Header has %d", len(got), len(Header))
	}

	s.Instagram = nil
	if row := RowFromSignup(s); row.Instagram != "" {
		t.Errorf("Instagram: got %q, want empty", row.Instagram)
	}
}

func TestLogSink(t *testing.T) {
	sink := NewLogSink(nil)
	if sink.Name() != "log" {
		t.Errorf("Name: got %q", sink.Name())
	}
	if err := sink.Append(context.Background(), Row{Email: "a@x.io"}); err != nil {
		t.Errorf("Append failed: %v", err)
	}
	if err := sink.Export(context.Background(), []Row{{}, {}}); err != nil {
		t.Errorf("Export failed: %v", err)
	}
}
