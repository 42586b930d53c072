package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwebster45206/wolf-agent/pkg/game"
	"github.com/jwebster45206/wolf-agent/pkg/roles"
)

// Storage persists session state and serves role profiles. Sessions
// live in Redis with a TTL; profiles are static files on disk.
type Storage interface {
	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
	// Close releases connections.
	Close() error

	// SaveSession persists a session context.
	SaveSession(ctx context.Context, id uuid.UUID, gc *game.Context) error
	// LoadSession fetches a session context; (nil, nil) when absent.
	LoadSession(ctx context.Context, id uuid.UUID) (*game.Context, error)
	// DeleteSession discards a session.
	DeleteSession(ctx context.Context, id uuid.UUID) error

	// GetProfile returns the role profile, preferring an on-disk
	// override and falling back to the built-in default.
	GetProfile(ctx context.Context, role game.Role) (*roles.Profile, error)
	// ListProfiles lists roles with on-disk profile overrides.
	ListProfiles(ctx context.Context) ([]string, error)
}
