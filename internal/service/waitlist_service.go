// Package service implements the waitlist operations on top of a key-value store.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mmynk/waitlist/internal/metrics"
	"github.com/mmynk/waitlist/internal/models"
	"github.com/mmynk/waitlist/internal/notify"
	"github.com/mmynk/waitlist/internal/storage"
)

// Bib numbers are drawn uniformly from [MinBibNumber, MaxBibNumber].
const (
	MinBibNumber = 1000
	MaxBibNumber = 9998
)

// Notifier accepts rows for best-effort delivery. *notify.Dispatcher implements it.
type Notifier interface {
	Enqueue(row notify.Row) bool
}

// SignupResult is returned by a successful Signup.
type SignupResult struct {
	Signup       *models.Signup
	BibNumber    int
	TotalSignups int64
}

// WaitlistService implements signup intake, statistics and exports.
type WaitlistService struct {
	store     storage.Store
	notifier  Notifier
	exporter  notify.Exporter
	statsMode string
	now       func() time.Time
	intN      func(n int) int
}

// Option configures a WaitlistService.
type Option func(*WaitlistService)

// WithNotifier sets where accepted signups are announced. Defaults to a no-op.
func WithNotifier(n Notifier) Option {
	return func(s *WaitlistService) { s.notifier = n }
}

// WithExporter sets the target of ExportToSheet. Defaults to a notify.LogSink.
func WithExporter(e notify.Exporter) Option {
	return func(s *WaitlistService) { s.exporter = e }
}

// WithStatsMode selects StatsPlaceholder or StatsComputed.
func WithStatsMode(mode string) Option {
	return func(s *WaitlistService) { s.statsMode = mode }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *WaitlistService) { s.now = now }
}

// WithRand overrides the random source used for bib numbers and placeholder activity.
func WithRand(intN func(n int) int) Option {
	return func(s *WaitlistService) { s.intN = intN }
}

// NewWaitlistService creates a new WaitlistService with the given storage backend.
func NewWaitlistService(store storage.Store, opts ...Option) *WaitlistService {
	s := &WaitlistService{
		store:     store,
		notifier:  discardNotifier{},
		exporter:  notify.NewLogSink(nil),
		statsMode: StatsPlaceholder,
		now:       time.Now,
		intN:      rand.IntN,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Signup registers a new waitlist entry.
//
// The email index is claimed first with a conditional write; it is the only
// authority on uniqueness, so a losing concurrent request never writes a record.
// The primary record and the date index are then written concurrently and the
// counter is incremented atomically.
func (s *WaitlistService) Signup(ctx context.Context, in models.SignupInput) (*SignupResult, error) {
	if in.MissingFields() {
		metrics.SignupsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
		return nil, ErrMissingFields
	}

	signup := models.NewSignup(in, s.bibNumber(), s.now())
	slog.Info("Signup request received", "email", signup.Email, "referral_source", signup.ReferralSource)

	created, err := s.store.SetIfAbsent(ctx, emailKey(signup.Email), signup.ID)
	if err != nil {
		metrics.SignupsTotal.WithLabelValues(metrics.ResultError).Inc()
		return nil, &StorageError{Op: "claim email", Err: err}
	}
	if !created {
		metrics.SignupsTotal.WithLabelValues(metrics.ResultDuplicate).Inc()
		slog.Info("Signup rejected, email already registered", "email", signup.Email)
		return nil, ErrEmailExists
	}

	record, err := json.Marshal(signup)
	if err != nil {
		s.release(ctx, signup)
		metrics.SignupsTotal.WithLabelValues(metrics.ResultError).Inc()
		return nil, fmt.Errorf("failed to encode signup: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.store.Set(gctx, signupKey(signup.ID), string(record))
	})
	g.Go(func() error {
		return s.store.Set(gctx, dateKey(signup.SignupDate, signup.ID), signup.ID)
	})
	if err := g.Wait(); err != nil {
		s.release(ctx, signup)
		metrics.SignupsTotal.WithLabelValues(metrics.ResultError).Inc()
		return nil, &StorageError{Op: "write signup", Err: err}
	}

	total, err := s.store.Incr(ctx, totalCountKey, 1)
	if err != nil {
		s.release(ctx, signup)
		metrics.SignupsTotal.WithLabelValues(metrics.ResultError).Inc()
		return nil, &StorageError{Op: "increment counter", Err: err}
	}

	metrics.SignupsTotal.WithLabelValues(metrics.ResultCreated).Inc()
	slog.Info("Signup created",
		"signup_id", signup.ID,
		"bib_number", signup.BibNumber,
		"total_signups", total,
	)

	s.notifier.Enqueue(notify.RowFromSignup(signup))

	return &SignupResult{
		Signup:       signup,
		BibNumber:    signup.BibNumber,
		TotalSignups: total,
	}, nil
}

// release undoes a partially written signup so the email can be used again.
func (s *WaitlistService) release(ctx context.Context, signup *models.Signup) {
	ctx = context.WithoutCancel(ctx)
	for _, key := range []string{
		signupKey(signup.ID),
		dateKey(signup.SignupDate, signup.ID),
		emailKey(signup.Email),
	} {
		if err := s.store.Delete(ctx, key); err != nil {
			slog.Error("Failed to roll back signup key", "key", key, "signup_id", signup.ID, "error", err)
		}
	}
}

// ExportAll returns every stored signup, oldest first.
func (s *WaitlistService) ExportAll(ctx context.Context) ([]models.Signup, error) {
	pairs, err := s.store.GetByPrefix(ctx, signupPrefix)
	if err != nil {
		return nil, &StorageError{Op: "scan signups", Err: err}
	}

	signups := make([]models.Signup, 0, len(pairs))
	for _, kv := range pairs {
		var signup models.Signup
		if err := json.Unmarshal([]byte(kv.Value), &signup); err != nil {
			slog.Warn("Skipping undecodable signup record", "key", kv.Key, "error", err)
			continue
		}
		signups = append(signups, signup)
	}

	sort.SliceStable(signups, func(i, j int) bool {
		return signups[i].CreatedAt.Before(signups[j].CreatedAt)
	})

	return signups, nil
}

// Recent returns up to limit signups, newest first.
func (s *WaitlistService) Recent(ctx context.Context, limit int) ([]models.Signup, error) {
	signups, err := s.ExportAll(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(signups, func(i, j int) bool {
		return signups[i].SignupDate.After(signups[j].SignupDate)
	})
	if limit >= 0 && len(signups) > limit {
		signups = signups[:limit]
	}
	return signups, nil
}

// ExportToSheet pushes every signup to the configured exporter and returns the row count.
func (s *WaitlistService) ExportToSheet(ctx context.Context) (int, error) {
	signups, err := s.ExportAll(ctx)
	if err != nil {
		metrics.SheetExportsTotal.WithLabelValues(metrics.ResultFailed).Inc()
		return 0, err
	}

	rows := make([]notify.Row, len(signups))
	for i := range signups {
		rows[i] = notify.RowFromSignup(&signups[i])
	}

	if err := s.exporter.Export(ctx, rows); err != nil {
		metrics.SheetExportsTotal.WithLabelValues(metrics.ResultFailed).Inc()
		return 0, &ExternalServiceError{Sink: s.exporter.Name(), Err: err}
	}

	metrics.SheetExportsTotal.WithLabelValues(metrics.ResultOK).Inc()
	slog.Info("Sheet export completed", "sink", s.exporter.Name(), "count", len(rows))
	return len(rows), nil
}

func (s *WaitlistService) bibNumber() int {
	return MinBibNumber + s.intN(MaxBibNumber-MinBibNumber+1)
}

type discardNotifier struct{}

func (discardNotifier) Enqueue(notify.Row) bool { return false }
