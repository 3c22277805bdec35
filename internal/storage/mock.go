package storage

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/Miltondz/one-page-rpg-sub001/pkg/social"
)

// MockStorage is an in-memory Storage for tests. Snapshots are stored as
// JSON so callers cannot share state with the store.
type MockStorage struct {
	mu        sync.RWMutex
	snapshots map[uuid.UUID][]byte
	pingError error
	saveError error
	saves     int
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

func NewMockStorage() *MockStorage {
	return &MockStorage{snapshots: make(map[uuid.UUID][]byte)}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetSaveError configures the mock to fail on save with the given error
func (m *MockStorage) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
}

// Saves returns how many snapshots were saved successfully.
func (m *MockStorage) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) SaveSnapshot(ctx context.Context, id uuid.UUID, snap *social.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	m.snapshots[id] = data
	m.saves++
	return nil
}

func (m *MockStorage) LoadSnapshot(ctx context.Context, id uuid.UUID) (*social.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.snapshots[id]
	if !ok {
		return nil, nil
	}
	var snap social.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (m *MockStorage) DeleteSnapshot(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, id)
	return nil
}
