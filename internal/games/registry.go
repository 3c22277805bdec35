// Package games keeps the social context of every active game in memory,
// loading it from storage on first use and saving it after changes.
package games

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Miltondz/one-page-rpg-sub001/internal/storage"
	"github.com/Miltondz/one-page-rpg-sub001/pkg/social"
)

// ErrGameDeleted is returned when saving a game that was deleted while a
// request still held it.
var ErrGameDeleted = errors.New("game deleted")

// Game is one save. The social context is single threaded: hold the lock
// for the whole of any request that touches it.
type Game struct {
	ID        uuid.UUID
	CreatedAt time.Time

	mu      sync.Mutex
	social  *social.Context
	deleted bool
}

func (g *Game) Lock()   { g.mu.Lock() }
func (g *Game) Unlock() { g.mu.Unlock() }

// Deleted reports whether the game was deleted after it was fetched.
// Callers must hold the lock.
func (g *Game) Deleted() bool {
	return g.deleted
}

// Social returns the game's context. Callers must hold the lock.
func (g *Game) Social() *social.Context {
	return g.social
}

// Factory builds an empty social context for a new or reloaded game.
type Factory func() *social.Context

type Registry struct {
	mu         sync.RWMutex
	games      map[uuid.UUID]*Game
	tombstones map[uuid.UUID]struct{}
	newContext Factory
	storage    storage.Storage
	logger     *slog.Logger
}

func NewRegistry(newContext Factory, store storage.Storage, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		games:      make(map[uuid.UUID]*Game),
		tombstones: make(map[uuid.UUID]struct{}),
		newContext: newContext,
		storage:    store,
		logger:     logger,
	}
}

// Create starts a new game and saves its empty snapshot.
func (r *Registry) Create(ctx context.Context) (*Game, error) {
	g := &Game{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		social:    r.newContext(),
	}
	if err := r.Save(ctx, g); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.games[g.ID] = g
	r.mu.Unlock()

	r.logger.Info("Created game", "game_id", g.ID)
	return g, nil
}

// Get returns the game, restoring it from storage when it is not in
// memory. Returns nil, nil if the game does not exist anywhere or was
// deleted.
func (r *Registry) Get(ctx context.Context, id uuid.UUID) (*Game, error) {
	r.mu.RLock()
	g, ok := r.games[id]
	_, gone := r.tombstones[id]
	r.mu.RUnlock()
	if ok {
		return g, nil
	}
	if gone {
		return nil, nil
	}

	snap, err := r.storage.LoadSnapshot(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load game %s: %w", id, err)
	}
	if snap == nil {
		return nil, nil
	}

	sc := r.newContext()
	sc.Restore(*snap)
	loaded := &Game{ID: id, CreatedAt: snap.SavedAt, social: sc}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, gone := r.tombstones[id]; gone {
		return nil, nil
	}
	// Another request may have restored it meanwhile.
	if existing, ok := r.games[id]; ok {
		return existing, nil
	}
	r.games[id] = loaded
	r.logger.Info("Restored game from storage", "game_id", id)
	return loaded, nil
}

// Save persists the game's snapshot. Callers must hold the game lock.
func (r *Registry) Save(ctx context.Context, g *Game) error {
	if g.deleted {
		return fmt.Errorf("failed to save game %s: %w", g.ID, ErrGameDeleted)
	}
	snap := g.social.Snapshot()
	if err := r.storage.SaveSnapshot(ctx, g.ID, &snap); err != nil {
		return fmt.Errorf("failed to save game %s: %w", g.ID, err)
	}
	return nil
}

// Delete drops the game from memory and storage. It waits for any request
// holding the game to finish; later saves of that game fail with
// ErrGameDeleted and the id is never restored again.
func (r *Registry) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	g := r.games[id]
	delete(r.games, id)
	r.tombstones[id] = struct{}{}
	r.mu.Unlock()

	if g != nil {
		g.Lock()
		defer g.Unlock()
		g.deleted = true
	}
	if err := r.storage.DeleteSnapshot(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game %s: %w", id, err)
	}
	r.logger.Info("Deleted game", "game_id", id)
	return nil
}

// Len is the number of games held in memory.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}
