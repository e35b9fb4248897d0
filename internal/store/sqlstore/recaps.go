package sqlstore

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"moodjournal/internal/models"
)

const recapColumns = `user_id, recap_text, generated_at, created_at`

// RecapStore keeps one weekly recap row per user.
type RecapStore struct {
	db *sqlx.DB
}

func NewRecapStore(db *sqlx.DB) *RecapStore {
	return &RecapStore{db: db}
}

// Latest returns the user's recap or ErrNotFound when none was generated yet.
func (s *RecapStore) Latest(ctx context.Context, userID string) (models.WeeklyRecap, error) {
	var r models.WeeklyRecap
	err := s.db.GetContext(ctx, &r, s.db.Rebind(`SELECT `+recapColumns+` FROM weekly_recaps WHERE user_id = ?`), userID)
	if err != nil {
		return models.WeeklyRecap{}, mapError(err, "get recap")
	}
	return normalizeRecap(r), nil
}

// Upsert writes text as the user's recap, generated at generatedAt.
func (s *RecapStore) Upsert(ctx context.Context, userID, text string, generatedAt time.Time) (models.WeeklyRecap, error) {
	var r models.WeeklyRecap
	at := generatedAt.UTC()
	err := s.db.GetContext(ctx, &r, s.db.Rebind(`INSERT INTO weekly_recaps (`+recapColumns+`)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			recap_text = excluded.recap_text,
			generated_at = excluded.generated_at
		RETURNING `+recapColumns),
		userID, text, at, at)
	if err != nil {
		return models.WeeklyRecap{}, mapError(err, "upsert recap")
	}
	return normalizeRecap(r), nil
}

func normalizeRecap(r models.WeeklyRecap) models.WeeklyRecap {
	r.GeneratedAt = r.GeneratedAt.UTC()
	r.CreatedAt = r.CreatedAt.UTC()
	return r
}
