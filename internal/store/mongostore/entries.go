package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"moodjournal/internal/models"
)

type entryDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	UserID         string             `bson:"userId"`
	Title          string             `bson:"title"`
	Content        string             `bson:"content"`
	Mood           string             `bson:"mood"`
	SentimentScore int                `bson:"sentimentScore"`
	CreatedAt      time.Time          `bson:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt"`
}

func (d entryDoc) model() models.Entry {
	return models.Entry{
		ID:             d.ID.Hex(),
		UserID:         d.UserID,
		Title:          d.Title,
		Content:        d.Content,
		Mood:           models.Mood(d.Mood),
		SentimentScore: d.SentimentScore,
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
	}
}

type EntryStore struct {
	coll *mongo.Collection
	ping func(context.Context) error
}

func (s *EntryStore) Create(ctx context.Context, e models.Entry) (models.Entry, error) {
	doc := entryDoc{
		ID:             primitive.NewObjectID(),
		UserID:         e.UserID,
		Title:          e.Title,
		Content:        e.Content,
		Mood:           string(e.Mood),
		SentimentScore: e.SentimentScore,
		CreatedAt:      toMillis(e.CreatedAt),
		UpdatedAt:      toMillis(e.UpdatedAt),
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return models.Entry{}, mapError(err, "insert entry")
	}
	return doc.model(), nil
}

func (s *EntryStore) Get(ctx context.Context, userID, id string) (models.Entry, error) {
	filter, err := ownedFilter(userID, id)
	if err != nil {
		return models.Entry{}, fmt.Errorf("get entry: %w", err)
	}
	var doc entryDoc
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return models.Entry{}, mapError(err, "get entry")
	}
	return doc.model(), nil
}

func (s *EntryStore) Update(ctx context.Context, userID, id string, u models.EntryUpdate) (models.Entry, error) {
	filter, err := ownedFilter(userID, id)
	if err != nil {
		return models.Entry{}, fmt.Errorf("update entry: %w", err)
	}
	update := bson.M{"$set": bson.M{
		"title":          u.Title,
		"content":        u.Content,
		"mood":           string(u.Mood),
		"sentimentScore": u.SentimentScore,
		"updatedAt":      toMillis(u.UpdatedAt),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc entryDoc
	if err := s.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return models.Entry{}, mapError(err, "update entry")
	}
	return doc.model(), nil
}

func (s *EntryStore) Delete(ctx context.Context, userID, id string) error {
	filter, err := ownedFilter(userID, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	res, err := s.coll.DeleteOne(ctx, filter)
	if err != nil {
		return mapError(err, "delete entry")
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete entry %q: %w", id, models.ErrNotFound)
	}
	return nil
}

// List returns all entries of userID, newest first.
func (s *EntryStore) List(ctx context.Context, userID string) ([]models.Entry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return s.find(ctx, "list entries", bson.M{"userId": userID}, opts)
}

// ListSince returns entries of userID created at or after since, oldest first.
func (s *EntryStore) ListSince(ctx context.Context, userID string, since time.Time) ([]models.Entry, error) {
	filter := bson.M{"userId": userID, "createdAt": bson.M{"$gte": toMillis(since)}}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return s.find(ctx, "list entries since", filter, opts)
}

func (s *EntryStore) find(ctx context.Context, op string, filter bson.M, opts *options.FindOptions) ([]models.Entry, error) {
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, mapError(err, op)
	}
	var docs []entryDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mapError(err, op)
	}
	out := make([]models.Entry, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

func (s *EntryStore) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// ownedFilter matches id for its owner. Ids that are not ObjectIDs can never
// match, so they are reported as not found.
func ownedFilter(userID, id string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("entry %q: %w", id, models.ErrNotFound)
	}
	return bson.M{"_id": oid, "userId": userID}, nil
}
