// Package testutil fournit les doubles partagés par les tests des services.
package testutil

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/database"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/docstore"
)

// NewStore ouvre un document store SQLite en mémoire, migré, fermé en fin de test
func NewStore(t testing.TB, opts ...docstore.Option) *docstore.GormStore {
	t.Helper()

	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, docstore.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	return docstore.New(db, opts...)
}

// GetHook s'exécute avant chaque Get; une erreur non nulle est renvoyée à la place de la lecture
type GetHook func(ctx context.Context, collection, id string) error

// SpyStore compte les lectures par collection et permet d'injecter des pannes
type SpyStore struct {
	docstore.Store

	QueryErr error
	SetErr   error
	OnGet    GetHook

	mu      sync.Mutex
	gets    map[string]int
	queries atomic.Int64
}

func NewSpyStore(inner docstore.Store) *SpyStore {
	return &SpyStore{Store: inner, gets: map[string]int{}}
}

func (s *SpyStore) Query(ctx context.Context, collection, orderBy string, dir docstore.Direction) ([]docstore.Snapshot, error) {
	s.queries.Add(1)
	if s.QueryErr != nil {
		return nil, s.QueryErr
	}
	return s.Store.Query(ctx, collection, orderBy, dir)
}

func (s *SpyStore) Get(ctx context.Context, collection, id string) (docstore.Snapshot, error) {
	s.mu.Lock()
	s.gets[collection]++
	s.mu.Unlock()

	if s.OnGet != nil {
		if err := s.OnGet(ctx, collection, id); err != nil {
			return docstore.Snapshot{}, err
		}
	}
	return s.Store.Get(ctx, collection, id)
}

func (s *SpyStore) Set(ctx context.Context, collection, id string, data docstore.Record) error {
	if s.SetErr != nil {
		return s.SetErr
	}
	return s.Store.Set(ctx, collection, id, data)
}

// Gets renvoie le nombre de Get émis sur une collection
func (s *SpyStore) Gets(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets[collection]
}

func (s *SpyStore) Queries() int {
	return int(s.queries.Load())
}
