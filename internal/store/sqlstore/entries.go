// Package sqlstore persists entries and weekly recaps in PostgreSQL or SQLite
// through sqlx. Queries are written with '?' placeholders and rebound for the
// connection's driver.
package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"moodjournal/internal/models"
)

const entryColumns = `id, user_id, title, content, mood, sentiment_score, created_at, updated_at`

type EntryStore struct {
	db *sqlx.DB
}

func NewEntryStore(db *sqlx.DB) *EntryStore {
	return &EntryStore{db: db}
}

// Create inserts e under a freshly generated id and returns the stored row.
func (s *EntryStore) Create(ctx context.Context, e models.Entry) (models.Entry, error) {
	e.ID = uuid.NewString()
	e = truncate(e)

	_, err := s.db.ExecContext(ctx, s.db.Rebind(`INSERT INTO entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		e.ID, e.UserID, e.Title, e.Content, e.Mood, e.SentimentScore, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return models.Entry{}, mapError(err, "insert entry")
	}
	return e, nil
}

// Get returns one entry owned by userID.
func (s *EntryStore) Get(ctx context.Context, userID, id string) (models.Entry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.Entry{}, fmt.Errorf("get entry %q: %w", id, models.ErrNotFound)
	}
	var e models.Entry
	err := s.db.GetContext(ctx, &e, s.db.Rebind(`SELECT `+entryColumns+` FROM entries WHERE id = ? AND user_id = ?`), id, userID)
	if err != nil {
		return models.Entry{}, mapError(err, "get entry")
	}
	return normalize(e), nil
}

// Update replaces title, content and derived fields of an owned entry.
// created_at is never touched.
func (s *EntryStore) Update(ctx context.Context, userID, id string, u models.EntryUpdate) (models.Entry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.Entry{}, fmt.Errorf("update entry %q: %w", id, models.ErrNotFound)
	}
	var e models.Entry
	err := s.db.GetContext(ctx, &e, s.db.Rebind(`UPDATE entries
		SET title = ?, content = ?, mood = ?, sentiment_score = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
		RETURNING `+entryColumns),
		u.Title, u.Content, u.Mood, u.SentimentScore, u.UpdatedAt.UTC(), id, userID)
	if err != nil {
		return models.Entry{}, mapError(err, "update entry")
	}
	return normalize(e), nil
}

// Delete removes an owned entry. A missing or foreign id is ErrNotFound.
func (s *EntryStore) Delete(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("delete entry %q: %w", id, models.ErrNotFound)
	}
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM entries WHERE id = ? AND user_id = ?`), id, userID)
	if err != nil {
		return mapError(err, "delete entry")
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return mapError(err, "delete entry")
	}
	if rows == 0 {
		return fmt.Errorf("delete entry %q: %w", id, models.ErrNotFound)
	}
	return nil
}

// List returns all entries of userID, newest first.
func (s *EntryStore) List(ctx context.Context, userID string) ([]models.Entry, error) {
	return s.selectEntries(ctx, "list entries",
		`SELECT `+entryColumns+` FROM entries WHERE user_id = ? ORDER BY created_at DESC`, userID)
}

// ListSince returns entries of userID created at or after since, oldest first.
func (s *EntryStore) ListSince(ctx context.Context, userID string, since time.Time) ([]models.Entry, error) {
	return s.selectEntries(ctx, "list entries since",
		`SELECT `+entryColumns+` FROM entries WHERE user_id = ? AND created_at >= ? ORDER BY created_at ASC`,
		userID, since.UTC())
}

func (s *EntryStore) selectEntries(ctx context.Context, op, query string, args ...any) ([]models.Entry, error) {
	out := []models.Entry{}
	if err := s.db.SelectContext(ctx, &out, s.db.Rebind(query), args...); err != nil {
		return nil, mapError(err, op)
	}
	for i := range out {
		out[i] = normalize(out[i])
	}
	return out, nil
}

// Ping checks the connection for readiness probes.
func (s *EntryStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// truncate drops precision Postgres would lose, so the returned row matches a
// later read.
func truncate(e models.Entry) models.Entry {
	e.CreatedAt = e.CreatedAt.UTC().Truncate(time.Microsecond)
	e.UpdatedAt = e.UpdatedAt.UTC().Truncate(time.Microsecond)
	return e
}

func normalize(e models.Entry) models.Entry {
	e.CreatedAt = e.CreatedAt.UTC()
	e.UpdatedAt = e.UpdatedAt.UTC()
	return e
}
