package userstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelez/photodeck-be/internal/apperrors"
	"github.com/avelez/photodeck-be/internal/config"
	"github.com/avelez/photodeck-be/internal/database"
	"github.com/avelez/photodeck-be/internal/models"
)

func newTestStore(t *testing.T) *SQLite {
	t.Helper()

	cfg := config.Database{
		Backend:    "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	}
	db, err := database.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db, cfg.Backend))
	return NewSQLite(db)
}

func TestSQLite_CreateAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, models.User{ID: "u1", Username: "alice", PasswordHash: "hash"})
	require.NoError(t, err)
	assert.Equal(t, "alice", created.Username)
	assert.False(t, created.CreatedAt.IsZero(), "created_at set by the store")

	byID, err := store.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "hash", byID.PasswordHash)

	byName, err := store.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "u1", byName.ID)

	_, err = store.GetByID(ctx, "missing")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestSQLite_UniqueUsername(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, models.User{ID: "u1", Username: "alice", PasswordHash: "h"})
	require.NoError(t, err)

	_, err = store.Create(ctx, models.User{ID: "u2", Username: "alice", PasswordHash: "h"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestSQLite_ListSearchCount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, u := range []models.User{
		{ID: "u1", Username: "alice", PasswordHash: "h"},
		{ID: "u2", Username: "bob", PasswordHash: "h"},
		{ID: "u3", Username: "alicia", PasswordHash: "h"},
	} {
		_, err := store.Create(ctx, u)
		require.NoError(t, err)
	}

	users, err := store.List(ctx, 0, 2)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	users, err = store.List(ctx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	users, err = store.Search(ctx, "ali", 0, 10)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestSQLite_UpdateAndDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, models.User{ID: "u1", Username: "alice", PasswordHash: "h1"})
	require.NoError(t, err)

	updated, err := store.Update(ctx, models.User{ID: "u1", Username: "alice2", PasswordHash: "h2"})
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)
	assert.Equal(t, "h2", updated.PasswordHash)

	_, err = store.Update(ctx, models.User{ID: "missing", Username: "x", PasswordHash: "h"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	require.NoError(t, store.Delete(ctx, "u1"))
	err = store.Delete(ctx, "u1")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}
