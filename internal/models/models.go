package models

import "time"

type Mood string

const (
	MoodPositive Mood = "positive"
	MoodNeutral  Mood = "neutral"
	MoodNegative Mood = "negative"
)

type Entry struct {
	ID             string    `db:"id" json:"id"`
	UserID         string    `db:"user_id" json:"userId"`
	Title          string    `db:"title" json:"title"`
	Content        string    `db:"content" json:"content"` // Encrypted at rest when a key is configured
	Mood           Mood      `db:"mood" json:"mood"`
	SentimentScore int       `db:"sentiment_score" json:"sentimentScore"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

// EntryUpdate is a full replacement of the user-editable fields together with
// the derived ones recomputed from the new content.
type EntryUpdate struct {
	Title          string
	Content        string
	Mood           Mood
	SentimentScore int
	UpdatedAt      time.Time
}

type WeeklyRecap struct {
	UserID      string    `db:"user_id" json:"userId"`
	RecapText   string    `db:"recap_text" json:"recapText"` // Encrypted at rest when a key is configured
	GeneratedAt time.Time `db:"generated_at" json:"generatedAt"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// DailyStat is one calendar-day bucket of the mood timeline.
type DailyStat struct {
	Date             string  `json:"date"`
	AverageMoodScore float64 `json:"averageMoodScore"`
	OverallMood      Mood    `json:"overallMood"`
}

type Summary struct {
	Total         int `json:"total"`
	PositiveCount int `json:"positiveCount"`
	NeutralCount  int `json:"neutralCount"`
	NegativeCount int `json:"negativeCount"`
}
