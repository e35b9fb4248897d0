package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"moodjournal/internal/models"
)

type recapDoc struct {
	UserID      string    `bson:"userId"`
	RecapText   string    `bson:"recapText"`
	GeneratedAt time.Time `bson:"generatedAt"`
	CreatedAt   time.Time `bson:"createdAt"`
}

func (d recapDoc) model() models.WeeklyRecap {
	return models.WeeklyRecap{
		UserID:      d.UserID,
		RecapText:   d.RecapText,
		GeneratedAt: d.GeneratedAt.UTC(),
		CreatedAt:   d.CreatedAt.UTC(),
	}
}

type RecapStore struct {
	coll *mongo.Collection
}

func (s *RecapStore) Latest(ctx context.Context, userID string) (models.WeeklyRecap, error) {
	var doc recapDoc
	if err := s.coll.FindOne(ctx, bson.M{"userId": userID}).Decode(&doc); err != nil {
		return models.WeeklyRecap{}, mapError(err, "get recap")
	}
	return doc.model(), nil
}

// Upsert replaces the user's recap text. createdAt is only set on insert.
func (s *RecapStore) Upsert(ctx context.Context, userID, text string, generatedAt time.Time) (models.WeeklyRecap, error) {
	at := toMillis(generatedAt)
	update := bson.M{
		"$set":         bson.M{"recapText": text, "generatedAt": at},
		"$setOnInsert": bson.M{"createdAt": at},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc recapDoc
	if err := s.coll.FindOneAndUpdate(ctx, bson.M{"userId": userID}, update, opts).Decode(&doc); err != nil {
		return models.WeeklyRecap{}, mapError(err, "upsert recap")
	}
	return doc.model(), nil
}
