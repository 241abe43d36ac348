package docstore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/docstore"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/testutil"
)

func TestGetMissing(t *testing.T) {
	store := testutil.NewStore(t)

	snap, err := store.Get(context.Background(), "users", "nobody")
	require.NoError(t, err)
	assert.False(t, snap.Exists())
	assert.Nil(t, snap.Data)
	assert.Equal(t, "nobody", snap.ID)
}

func TestSetGetUpdate(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)

	require.NoError(t, store.Set(ctx, "users", "u1", docstore.Record{
		"userId":    "u1",
		"firstName": "Ada",
		"lastName":  "Lovelace",
	}))

	require.NoError(t, store.Update(ctx, "users", "u1", docstore.Record{"firstName": "Augusta"}))

	snap, err := store.Get(ctx, "users", "u1")
	require.NoError(t, err)
	require.True(t, snap.Exists())

	first, ok := snap.Data.String("firstName")
	assert.True(t, ok)
	assert.Equal(t, "Augusta", first)
	last, _ := snap.Data.String("lastName")
	assert.Equal(t, "Lovelace", last)

	// Set remplace entièrement le document
	require.NoError(t, store.Set(ctx, "users", "u1", docstore.Record{"userId": "u1"}))
	snap, err = store.Get(ctx, "users", "u1")
	require.NoError(t, err)
	assert.False(t, snap.Data.Has("lastName"))
}

func TestUpdateMissing(t *testing.T) {
	store := testutil.NewStore(t)

	err := store.Update(context.Background(), "users", "ghost", docstore.Record{"firstName": "x"})
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestAddAssignsID(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)

	id1, err := store.Add(ctx, "posts", docstore.Record{"text": "a"})
	require.NoError(t, err)
	id2, err := store.Add(ctx, "posts", docstore.Record{"text": "b"})
	require.NoError(t, err)

	assert.NotEmpty(t, id1)
	assert.NotEqual(t, id1, id2)

	snap, err := store.Get(ctx, "posts", id1)
	require.NoError(t, err)
	assert.True(t, snap.Exists())
}

func TestQueryOrder(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)

	require.NoError(t, store.Set(ctx, "posts", "old", docstore.Record{"timestamp": 1000}))
	require.NoError(t, store.Set(ctx, "posts", "new", docstore.Record{"timestamp": 3000}))
	require.NoError(t, store.Set(ctx, "posts", "mid", docstore.Record{"timestamp": 2000}))
	require.NoError(t, store.Set(ctx, "posts", "none", docstore.Record{"text": "sans date"}))
	// Les sous-collections ne remontent pas dans la collection parente
	require.NoError(t, store.Set(ctx, docstore.SubCollection("posts", "new", "likes"), "u1", docstore.Record{"userId": "u1"}))

	desc, err := store.Query(ctx, "posts", "timestamp", docstore.Desc)
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "mid", "old", "none"}, ids(desc))

	asc, err := store.Query(ctx, "posts", "timestamp", docstore.Asc)
	require.NoError(t, err)
	assert.Equal(t, []string{"old", "mid", "new", "none"}, ids(asc))
}

func TestQueryRejectsInjectedField(t *testing.T) {
	store := testutil.NewStore(t)

	_, err := store.Query(context.Background(), "posts", "timestamp'; DROP TABLE documents; --", docstore.Desc)
	assert.ErrorIs(t, err, docstore.ErrInvalidField)
}

func TestTransactionCommit(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	require.NoError(t, store.Set(ctx, "posts", "p1", docstore.Record{"likes": 0}))

	likes := docstore.SubCollection("posts", "p1", "likes")
	err := store.RunTransaction(ctx, func(tx docstore.Tx) error {
		snap, err := tx.Get("posts", "p1")
		if err != nil {
			return err
		}
		n, _ := snap.Data.Int64("likes")
		if err := tx.Update("posts", "p1", docstore.Record{"likes": n + 1}); err != nil {
			return err
		}
		return tx.Set(likes, "u1", docstore.Record{"userId": "u1"})
	})
	require.NoError(t, err)

	post, err := store.Get(ctx, "posts", "p1")
	require.NoError(t, err)
	n, ok := post.Data.Int64("likes")
	assert.True(t, ok)
	assert.Equal(t, int64(1), n)

	like, err := store.Get(ctx, likes, "u1")
	require.NoError(t, err)
	assert.True(t, like.Exists())
}

func TestTransactionRollback(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	require.NoError(t, store.Set(ctx, "posts", "p1", docstore.Record{"likes": 4}))

	boom := errors.New("boom")
	err := store.RunTransaction(ctx, func(tx docstore.Tx) error {
		if err := tx.Update("posts", "p1", docstore.Record{"likes": 5}); err != nil {
			return err
		}
		if err := tx.Delete("posts", "p1"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	post, err := store.Get(ctx, "posts", "p1")
	require.NoError(t, err)
	require.True(t, post.Exists())
	n, _ := post.Data.Int64("likes")
	assert.Equal(t, int64(4), n)
}

func TestTransactionUpdateMissing(t *testing.T) {
	store := testutil.NewStore(t)

	err := store.RunTransaction(context.Background(), func(tx docstore.Tx) error {
		return tx.Update("posts", "ghost", docstore.Record{"likes": 1})
	})
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func ids(snaps []docstore.Snapshot) []string {
	out := make([]string, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, s.ID)
	}
	return out
}
