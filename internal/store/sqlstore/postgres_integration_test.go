//go:build integration

package sqlstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moodjournal/internal/db"
	"moodjournal/internal/models"
	"moodjournal/internal/store/sqlstore"
	"moodjournal/internal/testinfra"
)

func TestPostgres_EntriesAndRecaps(t *testing.T) {
	testinfra.SkipIfNoDocker(t)
	dsn := testinfra.StartPostgres(t)

	ctx := context.Background()
	conn, err := db.OpenPostgres(ctx, dsn, db.Options{MaxOpenConns: 4})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.RunMigrations(ctx, conn))

	entries := sqlstore.NewEntryStore(conn)
	recaps := sqlstore.NewRecapStore(conn)

	created, err := entries.Create(ctx, newEntry("user_a", base, "pg", 2, models.MoodPositive))
	require.NoError(t, err)

	got, err := entries.Get(ctx, "user_a", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "pg", got.Title)
	assert.True(t, base.Equal(got.CreatedAt))

	_, err = entries.Get(ctx, "user_b", created.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	// Postgres keeps microseconds; the created row must match what a read returns.
	precise, err := entries.Create(ctx, newEntry("user_a", base.Add(987654321*time.Nanosecond), "precise", 0, models.MoodNeutral))
	require.NoError(t, err)
	reread, err := entries.Get(ctx, "user_a", precise.ID)
	require.NoError(t, err)
	assert.True(t, precise.CreatedAt.Equal(reread.CreatedAt), "created %v, read %v", precise.CreatedAt, reread.CreatedAt)
	require.NoError(t, entries.Delete(ctx, "user_a", precise.ID))

	since, err := entries.ListSince(ctx, "user_a", base)
	require.NoError(t, err)
	assert.Len(t, since, 1)

	require.NoError(t, entries.Delete(ctx, "user_a", created.ID))
	assert.ErrorIs(t, entries.Delete(ctx, "user_a", created.ID), models.ErrNotFound)

	_, err = recaps.Upsert(ctx, "user_a", "one", base)
	require.NoError(t, err)
	r, err := recaps.Upsert(ctx, "user_a", "two", base.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, "two", r.RecapText)
	assert.True(t, base.Equal(r.CreatedAt))

	require.NoError(t, entries.Ping(ctx))
}
