package service

import (
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/repository"
)

// ── Mock Storage ──

type mockStorage struct {
	lists map[string][]json.RawMessage
	slots map[string][]byte
}

func newMockStorage() *mockStorage {
	return &mockStorage{
		lists: make(map[string][]json.RawMessage),
		slots: make(map[string][]byte),
	}
}

func (m *mockStorage) ReadList(table string) []json.RawMessage {
	return m.lists[table]
}

func (m *mockStorage) WriteList(table string, items []json.RawMessage) error {
	m.lists[table] = items
	return nil
}

func (m *mockStorage) ReadValue(slot string) ([]byte, bool) {
	v, ok := m.slots[slot]
	return v, ok
}

func (m *mockStorage) WriteValue(slot string, v []byte) error {
	m.slots[slot] = v
	return nil
}

func (m *mockStorage) DeleteValue(slot string) error {
	delete(m.slots, slot)
	return nil
}

func newTestRepo(t *testing.T, storage *mockStorage) *repository.Repository {
	t.Helper()
	base := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	n := 0
	clock := func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Millisecond)
	}
	return repository.New(storage, nil, zap.NewNop(), repository.WithClock(clock))
}
