package mongostore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"moodjournal/internal/models"
)

func TestOwnedFilter(t *testing.T) {
	oid := primitive.NewObjectID()

	filter, err := ownedFilter("user_a", oid.Hex())
	require.NoError(t, err)
	assert.Equal(t, oid, filter["_id"])
	assert.Equal(t, "user_a", filter["userId"])

	_, err = ownedFilter("user_a", "not-an-object-id")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestEntryDocModel(t *testing.T) {
	oid := primitive.NewObjectID()
	at := time.Date(2025, 5, 1, 8, 0, 0, 0, time.FixedZone("X", 3600))

	e := entryDoc{
		ID:             oid,
		UserID:         "user_a",
		Title:          "t",
		Content:        "c",
		Mood:           "positive",
		SentimentScore: 5,
		CreatedAt:      at,
		UpdatedAt:      at,
	}.model()

	assert.Equal(t, oid.Hex(), e.ID)
	assert.Equal(t, models.MoodPositive, e.Mood)
	assert.Equal(t, time.UTC, e.CreatedAt.Location())
	assert.True(t, at.Equal(e.CreatedAt))
}

func TestToMillis(t *testing.T) {
	at := time.Date(2025, 5, 1, 8, 0, 0, 123456789, time.UTC)
	assert.Equal(t, 123000000, toMillis(at).Nanosecond())
}
