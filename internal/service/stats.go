package service

import (
	"context"
	"strconv"
	"time"

	"github.com/mmynk/waitlist/internal/models"
)

// Stats policies.
const (
	StatsPlaceholder = "placeholder"
	StatsComputed    = "computed"
)

// Values shown before real traffic exists, and by the placeholder policy.
const (
	BaselineTotalSignups = 1247
	PlaceholderCountries = 14
	PlaceholderGrowth    = 127
)

const growthWindow = 7 * 24 * time.Hour

// Stats returns the landing page counters. It never fails on an empty store.
//
// todaySignups uses the UTC calendar day, matching the date index keys.
func (s *WaitlistService) Stats(ctx context.Context) (*models.Stats, error) {
	stats := &models.Stats{TotalSignups: BaselineTotalSignups}

	raw, found, err := s.store.Get(ctx, totalCountKey)
	if err != nil {
		return nil, &StorageError{Op: "read counter", Err: err}
	}
	if found {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, &StorageError{Op: "parse counter", Err: err}
		}
		stats.TotalSignups = n
	}

	now := s.now().UTC()
	today, err := s.store.GetByPrefix(ctx, dateBucket(now))
	if err != nil {
		return nil, &StorageError{Op: "scan today", Err: err}
	}
	stats.TodaySignups = len(today)

	if s.statsMode != StatsComputed {
		stats.Countries = PlaceholderCountries
		stats.GrowthRate = PlaceholderGrowth
		stats.LastHourActivity = 1 + s.intN(5)
		return stats, nil
	}

	signups, err := s.ExportAll(ctx)
	if err != nil {
		return nil, err
	}
	stats.Countries = distinctCountries(signups)
	stats.GrowthRate = growthRate(signups, now)
	stats.LastHourActivity = countCreated(signups, now.Add(-time.Hour), now)
	return stats, nil
}

// growthRate compares the last seven days with the seven before, in whole percent.
func growthRate(signups []models.Signup, now time.Time) int {
	current := countCreated(signups, now.Add(-growthWindow), now)
	previous := countCreated(signups, now.Add(-2*growthWindow), now.Add(-growthWindow))
	switch {
	case previous == 0 && current == 0:
		return 0
	case previous == 0:
		return 100
	default:
		return (current - previous) * 100 / previous
	}
}

// countCreated counts signups created in (from, to].
func countCreated(signups []models.Signup, from, to time.Time) int {
	n := 0
	for _, s := range signups {
		if s.CreatedAt.After(from) && !s.CreatedAt.After(to) {
			n++
		}
	}
	return n
}
