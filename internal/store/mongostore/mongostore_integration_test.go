//go:build integration

package mongostore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moodjournal/internal/models"
	"moodjournal/internal/store/mongostore"
	"moodjournal/internal/testinfra"
)

func TestMongo_EntriesAndRecaps(t *testing.T) {
	testinfra.SkipIfNoDocker(t)
	uri := testinfra.StartMongo(t)

	ctx := context.Background()
	store, err := mongostore.Open(ctx, uri, "moodjournal_test")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close(context.Background()) })

	entries := store.Entries()
	recaps := store.Recaps()
	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	var ids []string
	for i := 0; i < 3; i++ {
		at := base.AddDate(0, 0, i)
		e, err := entries.Create(ctx, models.Entry{
			UserID: "user_a", Title: "t", Content: "c",
			Mood: models.MoodNeutral, CreatedAt: at, UpdatedAt: at,
		})
		require.NoError(t, err)
		ids = append(ids, e.ID)
	}

	list, err := entries.List(ctx, "user_a")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, ids[2], list[0].ID)

	since, err := entries.ListSince(ctx, "user_a", base.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, since, 2)
	assert.Equal(t, ids[1], since[0].ID)

	_, err = entries.Get(ctx, "user_b", ids[0])
	assert.ErrorIs(t, err, models.ErrNotFound)

	updated, err := entries.Update(ctx, "user_a", ids[0], models.EntryUpdate{
		Title: "new", Content: "great", Mood: models.MoodPositive, SentimentScore: 3, UpdatedAt: base.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Title)
	assert.True(t, base.Equal(updated.CreatedAt))

	assert.ErrorIs(t, entries.Delete(ctx, "user_b", ids[0]), models.ErrNotFound)
	require.NoError(t, entries.Delete(ctx, "user_a", ids[0]))

	_, err = recaps.Latest(ctx, "user_a")
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = recaps.Upsert(ctx, "user_a", "first", base)
	require.NoError(t, err)
	r, err := recaps.Upsert(ctx, "user_a", "second", base.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, "second", r.RecapText)
	assert.True(t, base.Equal(r.CreatedAt))
}
