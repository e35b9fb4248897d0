package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"moodjournal/internal/metrics"
	"moodjournal/internal/models"
	"moodjournal/internal/sentiment"
	"moodjournal/internal/stats"
)

type entryRepo interface {
	Create(ctx context.Context, e models.Entry) (models.Entry, error)
	Get(ctx context.Context, userID, id string) (models.Entry, error)
	Update(ctx context.Context, userID, id string, u models.EntryUpdate) (models.Entry, error)
	Delete(ctx context.Context, userID, id string) error
	List(ctx context.Context, userID string) ([]models.Entry, error)
	ListSince(ctx context.Context, userID string, since time.Time) ([]models.Entry, error)
}

// EntryInput is the user-editable part of an entry.
type EntryInput struct {
	Title   string
	Content string
}

// EntryService owns the entry lifecycle: it classifies content on every write
// and keeps title/content encrypted at rest when configured.
type EntryService struct {
	entries    entryRepo
	classifier *sentiment.Classifier
	enc        *EncryptionService
	loc        *time.Location
	now        func() time.Time
	log        *zap.Logger
}

func NewEntryService(entries entryRepo, classifier *sentiment.Classifier, enc *EncryptionService, loc *time.Location, log *zap.Logger) *EntryService {
	if classifier == nil {
		classifier = sentiment.NewClassifier(nil)
	}
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &EntryService{
		entries:    entries,
		classifier: classifier,
		enc:        enc,
		loc:        loc,
		now:        time.Now,
		log:        log,
	}
}

// WithClock replaces the time source. Used by tests.
func (s *EntryService) WithClock(now func() time.Time) *EntryService {
	s.now = now
	return s
}

func (s *EntryService) Create(ctx context.Context, userID string, in EntryInput) (models.Entry, error) {
	in, err := validateInput(in)
	if err != nil {
		return models.Entry{}, err
	}

	result := s.classifier.Classify(in.Content)
	now := s.now().UTC()
	e := models.Entry{
		UserID:         userID,
		Title:          in.Title,
		Content:        in.Content,
		Mood:           result.Mood,
		SentimentScore: result.Score,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.enc.EncryptEntry(&e); err != nil {
		return models.Entry{}, fmt.Errorf("encrypt entry: %w", err)
	}

	created, err := s.entries.Create(ctx, e)
	if err != nil {
		return models.Entry{}, err
	}
	metrics.RecordEntryClassified(string(result.Mood))
	s.log.Debug("entry created",
		zap.String("user_id", userID),
		zap.String("entry_id", created.ID),
		zap.String("mood", string(result.Mood)))

	created.Title, created.Content = in.Title, in.Content
	return created, nil
}

func (s *EntryService) Get(ctx context.Context, userID, id string) (models.Entry, error) {
	e, err := s.entries.Get(ctx, userID, id)
	if err != nil {
		return models.Entry{}, err
	}
	if err := s.enc.DecryptEntry(&e); err != nil {
		return models.Entry{}, fmt.Errorf("decrypt entry %s: %w", e.ID, err)
	}
	return e, nil
}

// List returns the user's entries newest first.
func (s *EntryService) List(ctx context.Context, userID string) ([]models.Entry, error) {
	entries, err := s.entries.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if err := s.enc.DecryptEntry(&entries[i]); err != nil {
			return nil, fmt.Errorf("decrypt entry %s: %w", entries[i].ID, err)
		}
	}
	return entries, nil
}

// Update replaces title and content and re-derives mood and score from the
// new content.
func (s *EntryService) Update(ctx context.Context, userID, id string, in EntryInput) (models.Entry, error) {
	in, err := validateInput(in)
	if err != nil {
		return models.Entry{}, err
	}

	result := s.classifier.Classify(in.Content)
	u := models.EntryUpdate{
		Title:          in.Title,
		Content:        in.Content,
		Mood:           result.Mood,
		SentimentScore: result.Score,
		UpdatedAt:      s.now().UTC(),
	}
	if err := s.enc.EncryptUpdate(&u); err != nil {
		return models.Entry{}, fmt.Errorf("encrypt entry: %w", err)
	}

	updated, err := s.entries.Update(ctx, userID, id, u)
	if err != nil {
		return models.Entry{}, err
	}
	metrics.RecordEntryClassified(string(result.Mood))

	updated.Title, updated.Content = in.Title, in.Content
	return updated, nil
}

func (s *EntryService) Delete(ctx context.Context, userID, id string) error {
	if err := s.entries.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.log.Debug("entry deleted", zap.String("user_id", userID), zap.String("entry_id", id))
	return nil
}

// Daily returns the per-day mood timeline. Only mood and score are read, so
// entries are not decrypted.
func (s *EntryService) Daily(ctx context.Context, userID string) ([]models.DailyStat, error) {
	entries, err := s.entries.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return stats.AggregateDaily(entries, s.loc), nil
}

func (s *EntryService) Summary(ctx context.Context, userID string) (models.Summary, error) {
	entries, err := s.entries.List(ctx, userID)
	if err != nil {
		return models.Summary{}, err
	}
	return stats.Summarize(entries), nil
}

func validateInput(in EntryInput) (EntryInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	var fields []models.FieldError
	if in.Title == "" {
		fields = append(fields, models.FieldError{Field: "title", Message: "is required"})
	}
	if strings.TrimSpace(in.Content) == "" {
		fields = append(fields, models.FieldError{Field: "content", Message: "is required"})
	}
	if len(fields) > 0 {
		return in, &models.ValidationError{Errors: fields}
	}
	return in, nil
}
