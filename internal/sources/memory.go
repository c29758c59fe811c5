package sources

import (
	"context"
	"sync"

	"github.com/dastanaron/bookmarks-sync/internal/syncids"
)

// MemorySource is a mutex-guarded map-backed ItemSource, used by the
// merger's own tests and by callers that want to seed a pass from
// in-memory fixtures instead of SQLite.
type MemorySource struct {
	mu      sync.RWMutex
	records map[syncids.GUID]syncids.Record
}

// NewMemorySource builds a MemorySource seeded with records.
func NewMemorySource(records ...syncids.Record) *MemorySource {
	m := &MemorySource{records: make(map[syncids.GUID]syncids.Record, len(records))}
	for _, r := range records {
		m.records[r.GUID] = r
	}
	return m
}

// Put inserts or overwrites a record, for tests that build up a fixture
// incrementally.
func (m *MemorySource) Put(r syncids.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[r.GUID] = r
}

func (m *MemorySource) Get(_ context.Context, guid syncids.GUID) (syncids.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[guid]
	if !ok {
		return syncids.Record{}, ErrNotFound
	}
	return r, nil
}

func (m *MemorySource) GetBatch(_ context.Context, guids []syncids.GUID) (map[syncids.GUID]syncids.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[syncids.GUID]syncids.Record, len(guids))
	for _, guid := range guids {
		if r, ok := m.records[guid]; ok {
			out[guid] = r
		}
	}
	return out, nil
}

// Prefetch is a no-op ack: MemorySource has no cache to warm.
func (m *MemorySource) Prefetch(_ context.Context, _ []syncids.GUID) error {
	return nil
}
