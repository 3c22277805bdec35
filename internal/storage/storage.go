package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/Miltondz/one-page-rpg-sub001/pkg/social"
)

// Storage persists social snapshots per game.
type Storage interface {
	Ping(ctx context.Context) error
	Close() error

	// SaveSnapshot stores the snapshot, replacing any previous one.
	SaveSnapshot(ctx context.Context, id uuid.UUID, snap *social.Snapshot) error
	// LoadSnapshot returns nil, nil when no snapshot exists.
	LoadSnapshot(ctx context.Context, id uuid.UUID) (*social.Snapshot, error)
	DeleteSnapshot(ctx context.Context, id uuid.UUID) error
}
