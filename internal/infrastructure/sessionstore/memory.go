package sessionstore

import (
	"context"
	"sync"
	"time"

	"github.com/Sarojv04/TDS-Project/internal/builder/application"
	"github.com/Sarojv04/TDS-Project/internal/builder/domain"
)

// MemoryRepository keeps sessions in process. Used when no Redis address is configured.
type MemoryRepository struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

type memoryEntry struct {
	state     domain.FormState
	expiresAt time.Time
}

var _ application.SessionRepository = (*MemoryRepository)(nil)

func NewMemoryRepository(ttl time.Duration) *MemoryRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryRepository{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *MemoryRepository) Get(_ context.Context, id string) (domain.FormState, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[id]
	if !ok {
		return domain.FormState{}, false, nil
	}
	if m.now().After(entry.expiresAt) {
		delete(m.entries, id)
		return domain.FormState{}, false, nil
	}
	return entry.state.Clone(), true, nil
}

func (m *MemoryRepository) Set(_ context.Context, id string, state domain.FormState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[id] = memoryEntry{state: state.Clone(), expiresAt: m.now().Add(m.ttl)}
	return nil
}

func (m *MemoryRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}
