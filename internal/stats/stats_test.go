package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moodjournal/internal/models"
)

func newYork(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

func scored(at time.Time, score int, mood models.Mood) models.Entry {
	return models.Entry{CreatedAt: at, SentimentScore: score, Mood: mood}
}

func TestAggregateDaily_Empty(t *testing.T) {
	t.Parallel()

	got := AggregateDaily(nil, time.UTC)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAggregateDaily_AveragesAndRederivesMood(t *testing.T) {
	t.Parallel()

	day := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	entries := []models.Entry{
		scored(day, 2, models.MoodPositive),
		scored(day.Add(time.Hour), 0, models.MoodNeutral),
		scored(day.Add(2*time.Hour), -2, models.MoodNegative),
	}

	got := AggregateDaily(entries, time.UTC)
	require.Len(t, got, 1)
	assert.Equal(t, "2025-03-10", got[0].Date)
	assert.InDelta(t, 0.0, got[0].AverageMoodScore, 1e-9)
	assert.Equal(t, models.MoodNeutral, got[0].OverallMood)
}

func TestAggregateDaily_MoodIgnoresStoredEntryMood(t *testing.T) {
	t.Parallel()

	day := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	entries := []models.Entry{
		scored(day, 3, models.MoodNegative),
		scored(day, 2, models.MoodNegative),
	}

	got := AggregateDaily(entries, time.UTC)
	require.Len(t, got, 1)
	assert.InDelta(t, 2.5, got[0].AverageMoodScore, 1e-9)
	assert.Equal(t, models.MoodPositive, got[0].OverallMood)
}

func TestAggregateDaily_BucketsInConfiguredZoneAndSorts(t *testing.T) {
	t.Parallel()

	loc := newYork(t)
	// 03:00 UTC on the 11th is still the evening of the 10th in New York (EDT, UTC-4).
	lateEvening := time.Date(2025, 6, 11, 3, 0, 0, 0, time.UTC)
	nextMorning := time.Date(2025, 6, 11, 13, 0, 0, 0, time.UTC)
	earlier := time.Date(2025, 6, 2, 16, 0, 0, 0, time.UTC)

	entries := []models.Entry{
		scored(nextMorning, -4, models.MoodNegative),
		scored(lateEvening, 4, models.MoodPositive),
		scored(earlier, 1, models.MoodNeutral),
	}

	got := AggregateDaily(entries, loc)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"2025-06-02", "2025-06-10", "2025-06-11"},
		[]string{got[0].Date, got[1].Date, got[2].Date})
	assert.Equal(t, models.MoodNeutral, got[0].OverallMood)
	assert.Equal(t, models.MoodPositive, got[1].OverallMood)
	assert.Equal(t, models.MoodNegative, got[2].OverallMood)

	// The same instants collapse differently in UTC.
	utc := AggregateDaily(entries, time.UTC)
	require.Len(t, utc, 2)
	assert.Equal(t, "2025-06-11", utc[1].Date)
	assert.InDelta(t, 0.0, utc[1].AverageMoodScore, 1e-9)
}

func TestSummarize_CountsPartitionTotal(t *testing.T) {
	t.Parallel()

	now := time.Now()
	entries := []models.Entry{
		scored(now, 3, models.MoodPositive),
		scored(now, 4, models.MoodPositive),
		scored(now, 0, models.MoodNeutral),
		scored(now, -3, models.MoodNegative),
		scored(now, 0, models.Mood("")),
	}

	got := Summarize(entries)
	assert.Equal(t, models.Summary{Total: 5, PositiveCount: 2, NeutralCount: 2, NegativeCount: 1}, got)
	assert.Equal(t, got.Total, got.PositiveCount+got.NeutralCount+got.NegativeCount)

	assert.Equal(t, models.Summary{}, Summarize(nil))
}

func TestIsStale(t *testing.T) {
	t.Parallel()

	loc := newYork(t)
	now := time.Date(2025, 1, 15, 14, 0, 0, 0, loc)

	assert.False(t, IsStale(now.Add(-4*time.Hour), now, loc), "generated earlier today")
	assert.True(t, IsStale(now.AddDate(0, 0, -1), now, loc), "generated yesterday")
	assert.True(t, IsStale(time.Time{}, now, loc), "never generated")

	// 01:00 UTC on the 16th is still the 15th in New York.
	utcLate := time.Date(2025, 1, 16, 1, 0, 0, 0, time.UTC)
	assert.False(t, IsStale(utcLate, now, loc))
	assert.True(t, IsStale(utcLate, now, time.UTC))
}
