package memo

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps entries in process memory with a TTL.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryCell
}

type memoryCell struct {
	entry   Entry
	expires time.Time
}

// NewMemoryStore returns an in-memory store. A ttl of zero or less uses
// DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryCell),
	}
}

func (m *MemoryStore) Get(_ context.Context, session string) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cell, ok := m.entries[session]
	if !ok {
		return Entry{}, nil
	}
	if !m.now().Before(cell.expires) {
		delete(m.entries, session)
		return Entry{}, nil
	}
	return cell.entry, nil
}

func (m *MemoryStore) SetQuestion(_ context.Context, session, question string) error {
	m.update(session, func(e *Entry) { e.Question = question })
	return nil
}

func (m *MemoryStore) SetScenario(_ context.Context, session, scenario string) error {
	m.update(session, func(e *Entry) { e.Scenario = scenario })
	return nil
}

func (m *MemoryStore) update(session string, set func(*Entry)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	cell := m.entries[session]
	if !now.Before(cell.expires) {
		cell = memoryCell{}
	}
	set(&cell.entry)
	cell.expires = now.Add(m.ttl)
	m.entries[session] = cell
}

// Len returns the number of stored sessions, expired ones included until
// they are next read.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
