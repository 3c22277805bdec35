package games

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Miltondz/one-page-rpg-sub001/internal/storage"
	"github.com/Miltondz/one-page-rpg-sub001/pkg/actor"
	"github.com/Miltondz/one-page-rpg-sub001/pkg/social"
)

func newTestRegistry(store storage.Storage) *Registry {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	factory := func() *social.Context {
		return social.New(social.Options{Seed: 7, Logger: logger})
	}
	return NewRegistry(factory, store, logger)
}

func TestRegistry_CreateAndGet(t *testing.T) {
	store := storage.NewMockStorage()
	reg := newTestRegistry(store)
	ctx := context.Background()

	g, err := reg.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Saves())
	assert.Equal(t, 1, reg.Len())

	got, err := reg.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Same(t, g, got)
}

func TestRegistry_CreateSaveError(t *testing.T) {
	store := storage.NewMockStorage()
	store.SetSaveError(errors.New("redis down"))
	reg := newTestRegistry(store)

	_, err := reg.Create(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 0, reg.Len())
}

func TestRegistry_GetMissing(t *testing.T) {
	reg := newTestRegistry(storage.NewMockStorage())

	g, err := reg.Get(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, g)
}

func TestRegistry_RestoresFromStorage(t *testing.T) {
	store := storage.NewMockStorage()
	ctx := context.Background()

	first := newTestRegistry(store)
	g, err := first.Create(ctx)
	require.NoError(t, err)

	g.Lock()
	g.Social().MeetNPC(actor.NPC{ID: "mara", Name: "Mara"})
	require.NoError(t, first.Save(ctx, g))
	g.Unlock()

	// A fresh registry models a restarted server.
	second := newTestRegistry(store)
	restored, err := second.Get(ctx, g.ID)
	require.NoError(t, err)
	require.NotNil(t, restored)

	restored.Lock()
	defer restored.Unlock()
	_, ok := restored.Social().Memory("mara")
	assert.True(t, ok, "restored game should remember mara")
}

func TestRegistry_Delete(t *testing.T) {
	store := storage.NewMockStorage()
	reg := newTestRegistry(store)
	ctx := context.Background()

	g, err := reg.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, reg.Delete(ctx, g.ID))

	got, err := reg.Get(ctx, g.ID)
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 0, reg.Len())
}

func TestRegistry_DeleteWhileHeld(t *testing.T) {
	store := storage.NewMockStorage()
	reg := newTestRegistry(store)
	ctx := context.Background()

	g, err := reg.Create(ctx)
	require.NoError(t, err)

	// A request holds the game while the delete comes in.
	g.Lock()
	done := make(chan error, 1)
	go func() { done <- reg.Delete(ctx, g.ID) }()

	g.Social().MeetNPC(actor.NPC{ID: "mara", Name: "Mara"})
	require.NoError(t, reg.Save(ctx, g))
	g.Unlock()

	require.NoError(t, <-done)

	g.Lock()
	defer g.Unlock()
	assert.True(t, g.Deleted())
	assert.ErrorIs(t, reg.Save(ctx, g), ErrGameDeleted)

	snap, err := store.LoadSnapshot(ctx, g.ID)
	require.NoError(t, err)
	assert.Nil(t, snap, "deleted game must not be written back")
}

func TestRegistry_DeletedIDIsNotRestored(t *testing.T) {
	store := storage.NewMockStorage()
	reg := newTestRegistry(store)
	ctx := context.Background()

	g, err := reg.Create(ctx)
	require.NoError(t, err)
	snap := g.Social().Snapshot()
	require.NoError(t, reg.Delete(ctx, g.ID))

	// A stale writer elsewhere puts the snapshot back.
	require.NoError(t, store.SaveSnapshot(ctx, g.ID, &snap))

	got, err := reg.Get(ctx, g.ID)
	assert.NoError(t, err)
	assert.Nil(t, got)
}
