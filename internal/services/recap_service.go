package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"moodjournal/internal/metrics"
	"moodjournal/internal/models"
	"moodjournal/internal/recap"
	"moodjournal/internal/stats"
)

type recentEntries interface {
	ListSince(ctx context.Context, userID string, since time.Time) ([]models.Entry, error)
}

type recapRepo interface {
	Latest(ctx context.Context, userID string) (models.WeeklyRecap, error)
	Upsert(ctx context.Context, userID, text string, generatedAt time.Time) (models.WeeklyRecap, error)
}

// RecapResult is a stored recap plus its freshness at read time.
type RecapResult struct {
	RecapText   string
	GeneratedAt time.Time
	Stale       bool
}

type RecapOptions struct {
	// Window is how far back entries are collected. Defaults to 7 days.
	Window time.Duration
	// Timeout bounds a single generator call. Defaults to 60s.
	Timeout time.Duration
}

// RecapService keeps one cached recap per user. A recap is fresh on the local
// calendar day it was generated and stale afterwards.
type RecapService struct {
	entries recentEntries
	recaps  recapRepo
	gen     recap.Generator
	enc     *EncryptionService
	loc     *time.Location
	window  time.Duration
	timeout time.Duration
	now     func() time.Time
	log     *zap.Logger

	inflight singleflight.Group
}

func NewRecapService(entries recentEntries, recaps recapRepo, gen recap.Generator, enc *EncryptionService, loc *time.Location, opts RecapOptions, log *zap.Logger) *RecapService {
	if gen == nil {
		gen = recap.Disabled{}
	}
	if loc == nil {
		loc = time.UTC
	}
	if opts.Window <= 0 {
		opts.Window = 7 * 24 * time.Hour
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RecapService{
		entries: entries,
		recaps:  recaps,
		gen:     gen,
		enc:     enc,
		loc:     loc,
		window:  opts.Window,
		timeout: opts.Timeout,
		now:     time.Now,
		log:     log,
	}
}

// WithClock replaces the time source. Used by tests.
func (s *RecapService) WithClock(now func() time.Time) *RecapService {
	s.now = now
	return s
}

// Get returns the stored recap with its staleness. ErrNotFound when the user
// never generated one.
func (s *RecapService) Get(ctx context.Context, userID string) (RecapResult, error) {
	r, err := s.recaps.Latest(ctx, userID)
	if err != nil {
		return RecapResult{}, err
	}
	if err := s.enc.DecryptRecap(&r); err != nil {
		return RecapResult{}, fmt.Errorf("decrypt recap: %w", err)
	}
	return RecapResult{
		RecapText:   r.RecapText,
		GeneratedAt: r.GeneratedAt,
		Stale:       stats.IsStale(r.GeneratedAt, s.now(), s.loc),
	}, nil
}

// GetFresh serves the stored recap when it was generated today and otherwise
// generates a new one. If generation fails but an older recap exists, the old
// one is returned marked stale.
func (s *RecapService) GetFresh(ctx context.Context, userID string) (RecapResult, error) {
	current, err := s.Get(ctx, userID)
	switch {
	case err == nil && !current.Stale:
		return current, nil
	case err != nil && !errors.Is(err, models.ErrNotFound):
		return RecapResult{}, err
	}
	hasStored := err == nil

	fresh, genErr := s.Generate(ctx, userID)
	if genErr == nil {
		return fresh, nil
	}
	if hasStored {
		s.log.Warn("serving stale recap after failed regeneration",
			zap.String("user_id", userID), zap.Error(genErr))
		return current, nil
	}
	return RecapResult{}, genErr
}

// Generate produces a recap from the trailing window of entries and stores
// it. Nothing is written unless the generator returns non-empty text.
// Concurrent calls for the same user share one generation.
func (s *RecapService) Generate(ctx context.Context, userID string) (RecapResult, error) {
	// The shared call must not be canceled by whichever caller arrived first.
	detached := context.WithoutCancel(ctx)
	v, err, shared := s.inflight.Do(userID, func() (any, error) {
		return s.generate(detached, userID)
	})
	if shared {
		s.log.Debug("recap generation shared", zap.String("user_id", userID))
	}
	if err != nil {
		return RecapResult{}, err
	}
	return v.(RecapResult), nil
}

func (s *RecapService) generate(ctx context.Context, userID string) (RecapResult, error) {
	since := s.now().Add(-s.window)
	entries, err := s.entries.ListSince(ctx, userID, since)
	if err != nil {
		return RecapResult{}, err
	}
	if len(entries) == 0 {
		metrics.RecordRecapGeneration(metrics.OutcomeRefused, 0)
		return RecapResult{}, fmt.Errorf("since %s: %w", since.In(s.loc).Format(time.RFC3339), models.ErrNoRecentEntries)
	}
	for i := range entries {
		if err := s.enc.DecryptEntry(&entries[i]); err != nil {
			return RecapResult{}, fmt.Errorf("decrypt entry %s: %w", entries[i].ID, err)
		}
	}

	log := s.log.With(zap.String("user_id", userID), zap.Int("entries", len(entries)))
	log.Info("generating weekly recap")

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	start := time.Now()
	text, err := s.gen.Generate(genCtx, recap.BuildPrompt(entries, s.loc))
	elapsed := time.Since(start)
	if err == nil && strings.TrimSpace(text) == "" {
		err = fmt.Errorf("empty recap text: %w", models.ErrUpstream)
	}
	if err != nil {
		outcome := metrics.OutcomeFailed
		if errors.Is(err, models.ErrGeneratorUnavailable) {
			outcome = metrics.OutcomeUnavailable
		}
		metrics.RecordRecapGeneration(outcome, elapsed)
		log.Error("recap generation failed", zap.Duration("elapsed", elapsed), zap.Error(err))
		return RecapResult{}, err
	}
	text = strings.TrimSpace(text)

	stored, err := s.enc.EncryptRecapText(text)
	if err != nil {
		return RecapResult{}, fmt.Errorf("encrypt recap: %w", err)
	}
	saved, err := s.recaps.Upsert(ctx, userID, stored, s.now().UTC().Truncate(time.Millisecond))
	if err != nil {
		return RecapResult{}, err
	}
	metrics.RecordRecapGeneration(metrics.OutcomeSuccess, elapsed)
	log.Info("weekly recap saved", zap.Duration("elapsed", elapsed))

	return RecapResult{RecapText: text, GeneratedAt: saved.GeneratedAt}, nil
}
