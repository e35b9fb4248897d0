// Package stats holds the pure computations behind the mood dashboard:
// per-day averages, mood counts and recap freshness. Calendar days are
// always taken in a single configured time zone.
package stats

import (
	"sort"
	"time"

	"moodjournal/internal/models"
	"moodjournal/internal/sentiment"
)

// DateLayout is the calendar-day key; its lexical order is chronological.
const DateLayout = "2006-01-02"

// LocalDate returns the calendar date of t in loc.
func LocalDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// AggregateDaily buckets entries by their local creation date, averages the
// sentiment scores per bucket and re-derives a mood from each average.
// Output is ascending by date. Empty input yields an empty, non-nil slice.
func AggregateDaily(entries []models.Entry, loc *time.Location) []models.DailyStat {
	type bucket struct {
		sum   int
		count int
	}
	buckets := make(map[string]*bucket)
	for _, e := range entries {
		day := LocalDate(e.CreatedAt, loc)
		b, ok := buckets[day]
		if !ok {
			b = &bucket{}
			buckets[day] = b
		}
		b.sum += e.SentimentScore
		b.count++
	}

	out := make([]models.DailyStat, 0, len(buckets))
	for day, b := range buckets {
		avg := float64(b.sum) / float64(b.count)
		out = append(out, models.DailyStat{
			Date:             day,
			AverageMoodScore: avg,
			OverallMood:      sentiment.MoodForScore(avg),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Summarize counts entries by their stored mood. Entries carrying an unknown
// mood are counted as neutral so the partition always sums to the total.
func Summarize(entries []models.Entry) models.Summary {
	s := models.Summary{Total: len(entries)}
	for _, e := range entries {
		switch e.Mood {
		case models.MoodPositive:
			s.PositiveCount++
		case models.MoodNegative:
			s.NegativeCount++
		default:
			s.NeutralCount++
		}
	}
	return s
}

// IsStale reports whether a recap generated at generatedAt is no longer valid
// at now: it is stale once the local calendar day differs.
func IsStale(generatedAt, now time.Time, loc *time.Location) bool {
	if generatedAt.IsZero() {
		return true
	}
	return LocalDate(generatedAt, loc) != LocalDate(now, loc)
}
