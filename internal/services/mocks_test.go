package services

import (
	"context"
	"sync"
	"time"

	"moodjournal/internal/models"
)

// ===========================================================================
// Manual mocks (moq-style with func fields)
// ===========================================================================

type mockEntryRepo struct {
	CreateFunc    func(ctx context.Context, e models.Entry) (models.Entry, error)
	GetFunc       func(ctx context.Context, userID, id string) (models.Entry, error)
	UpdateFunc    func(ctx context.Context, userID, id string, u models.EntryUpdate) (models.Entry, error)
	DeleteFunc    func(ctx context.Context, userID, id string) error
	ListFunc      func(ctx context.Context, userID string) ([]models.Entry, error)
	ListSinceFunc func(ctx context.Context, userID string, since time.Time) ([]models.Entry, error)

	mu      sync.Mutex
	created []models.Entry
	updates []models.EntryUpdate
}

func (m *mockEntryRepo) Create(ctx context.Context, e models.Entry) (models.Entry, error) {
	m.mu.Lock()
	m.created = append(m.created, e)
	m.mu.Unlock()
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, e)
	}
	e.ID = "entry-1"
	return e, nil
}

func (m *mockEntryRepo) Get(ctx context.Context, userID, id string) (models.Entry, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, userID, id)
	}
	return models.Entry{}, models.ErrNotFound
}

func (m *mockEntryRepo) Update(ctx context.Context, userID, id string, u models.EntryUpdate) (models.Entry, error) {
	m.mu.Lock()
	m.updates = append(m.updates, u)
	m.mu.Unlock()
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, userID, id, u)
	}
	return models.Entry{}, models.ErrNotFound
}

func (m *mockEntryRepo) Delete(ctx context.Context, userID, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, id)
	}
	return models.ErrNotFound
}

func (m *mockEntryRepo) List(ctx context.Context, userID string) ([]models.Entry, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID)
	}
	return []models.Entry{}, nil
}

func (m *mockEntryRepo) ListSince(ctx context.Context, userID string, since time.Time) ([]models.Entry, error) {
	if m.ListSinceFunc != nil {
		return m.ListSinceFunc(ctx, userID, since)
	}
	return []models.Entry{}, nil
}

// memRecapRepo is an in-memory recap store that records writes.
type memRecapRepo struct {
	mu      sync.Mutex
	recaps  map[string]models.WeeklyRecap
	upserts int
	err     error
}

func newMemRecapRepo() *memRecapRepo {
	return &memRecapRepo{recaps: map[string]models.WeeklyRecap{}}
}

func (m *memRecapRepo) Latest(_ context.Context, userID string) (models.WeeklyRecap, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recaps[userID]
	if !ok {
		return models.WeeklyRecap{}, models.ErrNotFound
	}
	return r, nil
}

func (m *memRecapRepo) Upsert(_ context.Context, userID, text string, generatedAt time.Time) (models.WeeklyRecap, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return models.WeeklyRecap{}, m.err
	}
	m.upserts++
	r, ok := m.recaps[userID]
	if !ok {
		r = models.WeeklyRecap{UserID: userID, CreatedAt: generatedAt}
	}
	r.RecapText = text
	r.GeneratedAt = generatedAt
	m.recaps[userID] = r
	return r, nil
}
