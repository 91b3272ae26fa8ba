package storage

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

// MockStore is an in-memory SaveStore for testing
type MockStore struct {
	mu        sync.RWMutex
	saves     map[string]mockSave
	pingError error
	putError  error
}

type mockSave struct {
	data      []byte
	updatedAt time.Time
}

// Ensure MockStore implements SaveStore interface
var _ SaveStore = (*MockStore)(nil)

// NewMockStore creates a new mock store
func NewMockStore() *MockStore {
	return &MockStore{
		saves: make(map[string]mockSave),
	}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStore) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetPutError configures the mock to fail every PutSave with the given error
func (m *MockStore) SetPutError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putError = err
}

// Ping mocks storage ping
func (m *MockStore) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

// Close mocks storage close
func (m *MockStore) Close() error {
	return nil
}

func (m *MockStore) PutSave(ctx context.Context, slot string, data []byte) error {
	if err := ValidateSlot(slot); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putError != nil {
		return fmt.Errorf("failed to save %s: %w", slot, m.putError)
	}
	m.saves[slot] = mockSave{data: slices.Clone(data), updatedAt: time.Now()}
	return nil
}

func (m *MockStore) GetSave(ctx context.Context, slot string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.saves[slot]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, slot)
	}
	return slices.Clone(s.data), nil
}

func (m *MockStore) DeleteSave(ctx context.Context, slot string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.saves[slot]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, slot)
	}
	delete(m.saves, slot)
	return nil
}

func (m *MockStore) ListSaves(ctx context.Context) ([]SaveInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	infos := make([]SaveInfo, 0, len(m.saves))
	for slot, s := range m.saves {
		infos = append(infos, SaveInfo{Slot: slot, Size: len(s.data), UpdatedAt: s.updatedAt})
	}
	slices.SortFunc(infos, func(a, b SaveInfo) int { return strings.Compare(a.Slot, b.Slot) })
	return infos, nil
}

// Corrupt overwrites a slot's blob directly, skipping validation (for testing)
func (m *MockStore) Corrupt(slot string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves[slot] = mockSave{data: data, updatedAt: time.Now()}
}
