// Package sentiment derives a mood label from journal text.
//
// Scoring is delegated to a Scorer (by default an AFINN-style word list);
// the mapping from score to mood is fixed: above 1 is positive, below -1 is
// negative, anything in between is neutral.
package sentiment

import "moodjournal/internal/models"

// Scorer maps text to a signed valence. Implementations must accept any
// input, including the empty string.
type Scorer interface {
	Score(text string) int
}

type Result struct {
	Score int
	Mood  models.Mood
}

// Classifier is constructed once per process and shared by all requests.
type Classifier struct {
	scorer Scorer
}

func NewClassifier(scorer Scorer) *Classifier {
	if scorer == nil {
		scorer = DefaultScorer()
	}
	return &Classifier{scorer: scorer}
}

func (c *Classifier) Classify(text string) Result {
	score := c.scorer.Score(text)
	return Result{Score: score, Mood: MoodForScore(float64(score))}
}

// MoodForScore applies the mood threshold rule. It is shared with the daily
// aggregator, which feeds it averaged scores.
func MoodForScore(score float64) models.Mood {
	switch {
	case score > 1:
		return models.MoodPositive
	case score < -1:
		return models.MoodNegative
	default:
		return models.MoodNeutral
	}
}
