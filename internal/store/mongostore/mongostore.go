// Package mongostore persists entries and weekly recaps in MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"moodjournal/internal/models"
)

const (
	entriesCollection = "entries"
	recapsCollection  = "weekly_recaps"
)

// Store owns the client and hands out collection-backed stores.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Open connects to uri, pings the primary and ensures indexes exist.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	s := &Store{client: client, db: client.Database(database)}
	if err := s.Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// EnsureIndexes creates the per-user listing index and the one-recap-per-user
// unique index. It is idempotent.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(entriesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create entries index: %w", err)
	}
	_, err = s.db.Collection(recapsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create recaps index: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) Entries() *EntryStore {
	return &EntryStore{coll: s.db.Collection(entriesCollection), ping: s.Ping}
}

func (s *Store) Recaps() *RecapStore {
	return &RecapStore{coll: s.db.Collection(recapsCollection)}
}

func mapError(err error, op string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// BSON dates carry millisecond precision.
func toMillis(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
