package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mmynk/waitlist/internal/models"
	"github.com/mmynk/waitlist/internal/storage/memory"
)

func TestStatsPlaceholderActivity(t *testing.T) {
	svc := NewWaitlistService(memory.New(), WithRand(func(n int) int { return n - 1 }))

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.LastHourActivity != 5 {
		t.Errorf("last hour activity: got %d, want 5", stats.LastHourActivity)
	}
}

func TestStatsTodayUsesUTCBucket(t *testing.T) {
	ctx := context.Background()
	// 23:30 UTC on April 1st is already April 2nd in UTC+2.
	clk := newClock(time.Date(2026, 4, 1, 23, 30, 0, 0, time.UTC))
	svc := NewWaitlistService(memory.New(), WithClock(clk.Now))

	if _, err := svc.Signup(ctx, validInput("late@example.com")); err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	stats, _ := svc.Stats(ctx)
	if stats.TodaySignups != 1 {
		t.Errorf("today signups: got %d, want 1", stats.TodaySignups)
	}

	clk.Set(time.Date(2026, 4, 2, 0, 30, 0, 0, time.UTC))
	stats, _ = svc.Stats(ctx)
	if stats.TodaySignups != 0 {
		t.Errorf("today signups after midnight UTC: got %d, want 0", stats.TodaySignups)
	}
	if stats.TotalSignups != 1 {
		t.Errorf("total signups: got %d, want 1", stats.TotalSignups)
	}
}

func TestStatsComputed(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	clk := newClock(now)
	svc := NewWaitlistService(memory.New(), WithClock(clk.Now), WithStatsMode(StatsComputed))

	signupAt := func(at time.Time, email, location, phone string) {
		t.Helper()
		clk.Set(at)
		in := models.SignupInput{Name: "R", Email: email, Phone: phone, Location: location}
		if _, err := svc.Signup(ctx, in); err != nil {
			t.Fatalf("Signup failed: %v", err)
		}
	}

	// Previous week: 2 signups.
	signupAt(now.Add(-10*24*time.Hour), "a@x.io", "Lisbon, Portugal", "n/a")
	signupAt(now.Add(-9*24*time.Hour), "b@x.io", "Porto, Portugal", "n/a")
	// Current week: 3 signups, one in the last hour.
	signupAt(now.Add(-3*24*time.Hour), "c@x.io", "Berlin, Germany", "n/a")
	signupAt(now.Add(-2*time.Hour), "d@x.io", "Atlantis", "n/a")
	signupAt(now.Add(-10*time.Minute), "e@x.io", "London", "+44 20 7031 3000")

	clk.Set(now)
	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}

	if stats.TotalSignups != 5 {
		t.Errorf("total signups: got %d, want 5", stats.TotalSignups)
	}
	// PT, DE, GB, and "atlantis".
	if stats.Countries != 4 {
		t.Errorf("countries: got %d, want 4", stats.Countries)
	}
	// (3 - 2) / 2 = 50%.
	if stats.GrowthRate != 50 {
		t.Errorf("growth rate: got %d, want 50", stats.GrowthRate)
	}
	if stats.LastHourActivity != 1 {
		t.Errorf("last hour activity: got %d, want 1", stats.LastHourActivity)
	}
	if stats.TodaySignups != 2 {
		t.Errorf("today signups: got %d, want 2", stats.TodaySignups)
	}
}

func TestStatsComputedEmptyStore(t *testing.T) {
	svc := NewWaitlistService(memory.New(), WithStatsMode(StatsComputed))

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalSignups != BaselineTotalSignups || stats.Countries != 0 || stats.GrowthRate != 0 || stats.LastHourActivity != 0 {
		t.Errorf("unexpected stats on empty store: %+v", stats)
	}
}

func TestStatsStorageFailure(t *testing.T) {
	svc := NewWaitlistService(&failingStore{Store: memory.New(), failGet: true})

	_, err := svc.Stats(context.Background())
	var storageErr *StorageError
	if !errors.As(err, &storageErr) {
		t.Errorf("expected StorageError, got %v", err)
	}
}

func TestGrowthRate(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) models.Signup { return models.Signup{CreatedAt: now.Add(-d)} }
	day := 24 * time.Hour

	tests := []struct {
		name    string
		signups []models.Signup
		want    int
	}{
		{"no signups", nil, 0},
		{"only this week", []models.Signup{at(day)}, 100},
		{"flat", []models.Signup{at(day), at(8 * day)}, 0},
		{"shrinking", []models.Signup{at(8 * day), at(9 * day)}, -100},
		{"tripled", []models.Signup{at(day), at(2 * day), at(3 * day), at(10 * day)}, 200},
		{"older than two weeks ignored", []models.Signup{at(day), at(20 * day)}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := growthRate(tt.signups, now); got != tt.want {
				t.Errorf("growthRate() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCountryOf(t *testing.T) {
	tests := []struct {
		location string
		phone    string
		want     string
	}{
		{"Lisbon, Portugal", "", "PT"},
		{"Germany", "", "DE"},
		{"Berlin, Germany", "+351 912 345 678", "DE"},
		{"London", "+44 20 7031 3000", "GB"},
		{"Atlantis", "not a phone", "place:atlantis"},
		{"  Atlantis ", "", "place:atlantis"},
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.location+"|"+tt.phone, func(t *testing.T) {
			if got := countryOf(tt.location, tt.phone); got != tt.want {
				t.Errorf("countryOf(%q, %q) = %q, want %q", tt.location, tt.phone, got, tt.want)
			}
		})
	}
}
