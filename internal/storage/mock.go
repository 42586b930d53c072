package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/jwebster45206/wolf-agent/pkg/game"
	"github.com/jwebster45206/wolf-agent/pkg/roles"
)

// MockStorage is an in-memory Storage implementation for testing.
type MockStorage struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*game.Context

	PingErr error
	SaveErr error
	LoadErr error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates an empty in-memory store.
func NewMockStorage() *MockStorage {
	return &MockStorage{
		sessions: make(map[uuid.UUID]*game.Context),
	}
}

func (m *MockStorage) Ping(ctx context.Context) error {
	return m.PingErr
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) SaveSession(ctx context.Context, id uuid.UUID, gc *game.Context) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = gc
	return nil
}

func (m *MockStorage) LoadSession(ctx context.Context, id uuid.UUID) (*game.Context, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[id], nil
}

func (m *MockStorage) DeleteSession(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *MockStorage) GetProfile(ctx context.Context, role game.Role) (*roles.Profile, error) {
	p := roles.DefaultProfile(role)
	return &p, nil
}

func (m *MockStorage) ListProfiles(ctx context.Context) ([]string, error) {
	return []string{}, nil
}
