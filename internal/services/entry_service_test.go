package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moodjournal/internal/models"
	"moodjournal/internal/sentiment"
)

var fixedNow = time.Date(2025, 5, 7, 15, 0, 0, 0, time.UTC)

func newEntryService(t *testing.T, repo *mockEntryRepo, enc *EncryptionService) *EntryService {
	t.Helper()
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return NewEntryService(repo, sentiment.NewClassifier(nil), enc, ny, nil).
		WithClock(func() time.Time { return fixedNow })
}

func TestEntryService_CreateClassifiesContent(t *testing.T) {
	repo := &mockEntryRepo{}
	svc := newEntryService(t, repo, nil)

	e, err := svc.Create(context.Background(), "user_a", EntryInput{
		Title:   "  Monday  ",
		Content: "Today was a great day, I feel happy!",
	})
	require.NoError(t, err)

	assert.Equal(t, "entry-1", e.ID)
	assert.Equal(t, "user_a", e.UserID)
	assert.Equal(t, "Monday", e.Title, "title is trimmed")
	assert.Equal(t, models.MoodPositive, e.Mood)
	assert.Equal(t, 6, e.SentimentScore)
	assert.Equal(t, fixedNow, e.CreatedAt)
	assert.Equal(t, fixedNow, e.UpdatedAt)
}

func TestEntryService_CreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		in     EntryInput
		fields []string
	}{
		{name: "missing title", in: EntryInput{Content: "x"}, fields: []string{"title"}},
		{name: "blank content", in: EntryInput{Title: "t", Content: "   \n"}, fields: []string{"content"}},
		{name: "both missing", in: EntryInput{}, fields: []string{"title", "content"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockEntryRepo{}
			svc := newEntryService(t, repo, nil)

			_, err := svc.Create(context.Background(), "user_a", tt.in)
			require.ErrorIs(t, err, models.ErrValidation)

			var verr *models.ValidationError
			require.True(t, errors.As(err, &verr))
			var got []string
			for _, f := range verr.Errors {
				got = append(got, f.Field)
			}
			assert.Equal(t, tt.fields, got)
			assert.Empty(t, repo.created, "store must not be touched")
		})
	}
}

func TestEntryService_UpdateRederivesMood(t *testing.T) {
	repo := &mockEntryRepo{
		UpdateFunc: func(_ context.Context, userID, id string, u models.EntryUpdate) (models.Entry, error) {
			return models.Entry{
				ID: id, UserID: userID, Title: u.Title, Content: u.Content,
				Mood: u.Mood, SentimentScore: u.SentimentScore,
				CreatedAt: fixedNow.Add(-time.Hour), UpdatedAt: u.UpdatedAt,
			}, nil
		},
	}
	svc := newEntryService(t, repo, nil)

	e, err := svc.Update(context.Background(), "user_a", "e1", EntryInput{Title: "t", Content: "I am sad and tired."})
	require.NoError(t, err)
	assert.Equal(t, models.MoodNegative, e.Mood)
	assert.Equal(t, -4, e.SentimentScore)
	assert.Equal(t, fixedNow, e.UpdatedAt)
	assert.True(t, e.UpdatedAt.After(e.CreatedAt))
}

func TestEntryService_UpdateNotFound(t *testing.T) {
	svc := newEntryService(t, &mockEntryRepo{}, nil)
	_, err := svc.Update(context.Background(), "user_a", "missing", EntryInput{Title: "t", Content: "c"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestEntryService_EncryptsAtRest(t *testing.T) {
	enc, err := NewEncryptionService([]byte("test-secret"))
	require.NoError(t, err)

	var stored models.Entry
	repo := &mockEntryRepo{
		CreateFunc: func(_ context.Context, e models.Entry) (models.Entry, error) {
			e.ID = "e1"
			stored = e
			return e, nil
		},
		GetFunc: func(context.Context, string, string) (models.Entry, error) {
			return stored, nil
		},
	}
	svc := newEntryService(t, repo, enc)

	created, err := svc.Create(context.Background(), "user_a", EntryInput{Title: "secret title", Content: "I feel happy"})
	require.NoError(t, err)
	assert.Equal(t, "secret title", created.Title)
	assert.NotEqual(t, "secret title", stored.Title)
	assert.NotEqual(t, "I feel happy", stored.Content)
	assert.Equal(t, models.MoodPositive, stored.Mood, "mood stays in clear")

	got, err := svc.Get(context.Background(), "user_a", "e1")
	require.NoError(t, err)
	assert.Equal(t, "secret title", got.Title)
	assert.Equal(t, "I feel happy", got.Content)
}

func TestEntryService_DailyAndSummary(t *testing.T) {
	repo := &mockEntryRepo{
		ListFunc: func(context.Context, string) ([]models.Entry, error) {
			return []models.Entry{
				// 2025-05-06 23:30 in New York.
				{SentimentScore: 4, Mood: models.MoodPositive, CreatedAt: time.Date(2025, 5, 7, 3, 30, 0, 0, time.UTC)},
				{SentimentScore: -2, Mood: models.MoodNegative, CreatedAt: time.Date(2025, 5, 6, 14, 0, 0, 0, time.UTC)},
				{SentimentScore: 0, Mood: models.MoodNeutral, CreatedAt: time.Date(2025, 5, 7, 14, 0, 0, 0, time.UTC)},
			}, nil
		},
	}
	svc := newEntryService(t, repo, nil)

	daily, err := svc.Daily(context.Background(), "user_a")
	require.NoError(t, err)
	require.Len(t, daily, 2)
	assert.Equal(t, models.DailyStat{Date: "2025-05-06", AverageMoodScore: 1, OverallMood: models.MoodNeutral}, daily[0])
	assert.Equal(t, models.DailyStat{Date: "2025-05-07", AverageMoodScore: 0, OverallMood: models.MoodNeutral}, daily[1])

	sum, err := svc.Summary(context.Background(), "user_a")
	require.NoError(t, err)
	assert.Equal(t, models.Summary{Total: 3, PositiveCount: 1, NeutralCount: 1, NegativeCount: 1}, sum)
}

func TestEntryService_Delete(t *testing.T) {
	var deleted string
	repo := &mockEntryRepo{
		DeleteFunc: func(_ context.Context, _, id string) error {
			deleted = id
			return nil
		},
	}
	svc := newEntryService(t, repo, nil)
	require.NoError(t, svc.Delete(context.Background(), "user_a", "e1"))
	assert.Equal(t, "e1", deleted)

	assert.ErrorIs(t, newEntryService(t, &mockEntryRepo{}, nil).Delete(context.Background(), "user_a", "x"), models.ErrNotFound)
}
