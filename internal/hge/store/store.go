package store

import (
	"maps"
	"sync"
	"time"

	"github.com/greeddj/go-hge/internal/hge/helpers"
)

// SnapshotMeta holds metadata about the persisted store.
type SnapshotMeta struct {
	SchemaVersion int       `json:"schema_version"`
	LastSnapshot  time.Time `json:"last_snapshot"`
}

// APICacheEntry stores a cached API response and validation data.
type APICacheEntry struct {
	URL          string        `json:"url"`
	ETag         string        `json:"etag"`
	LastModified string        `json:"last_modified"`
	FetchedAt    time.Time     `json:"fetched_at"`
	TTL          time.Duration `json:"ttl"`
	Body         []byte        `json:"body"`
}

// Location is the last position reported for a commander.
type Location struct {
	System   string    `json:"system"`
	SystemID int64     `json:"system_id,omitempty"`
	SeenAt   time.Time `json:"seen_at"`
}

// Store holds cached API responses and last known commander locations.
type Store struct {
	mu        sync.RWMutex             `json:"-"`
	Meta      SnapshotMeta             `json:"meta"`
	APICache  map[string]APICacheEntry `json:"api_cache"`
	Locations map[string]Location      `json:"locations"`
}

// New creates an initialized Store with empty maps.
func New() *Store {
	return &Store{
		Meta: SnapshotMeta{
			SchemaVersion: helpers.StoreSchemaVersion,
		},
		APICache:  make(map[string]APICacheEntry),
		Locations: make(map[string]Location),
	}
}

// GetAPICache returns a cached API entry by key.
func (m *Store) GetAPICache(key string) (APICacheEntry, bool) {
	if m == nil {
		return APICacheEntry{}, false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.APICache[key]
	return entry, ok
}

// SetAPICache stores a cached API entry.
func (m *Store) SetAPICache(key string, entry APICacheEntry) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.APICache[key] = entry
}

// ClearCaches drops every cached API response.
func (m *Store) ClearCaches() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.APICache = make(map[string]APICacheEntry)
}

// PruneAPICache removes entries fetched before now-maxAge and returns how many were dropped.
func (m *Store) PruneAPICache(now time.Time, maxAge time.Duration) int {
	if m == nil || maxAge <= 0 {
		return 0
	}
	cutoff := now.Add(-maxAge)
	m.mu.Lock()
	defer m.mu.Unlock()
	dropped := 0
	for key, entry := range m.APICache {
		if entry.FetchedAt.Before(cutoff) {
			delete(m.APICache, key)
			dropped++
		}
	}
	return dropped
}

// GetLocation returns the last known location for a commander.
func (m *Store) GetLocation(commander string) (Location, bool) {
	if m == nil {
		return Location{}, false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	loc, ok := m.Locations[helpers.Normalize(commander)]
	return loc, ok
}

// SetLocation records the last known location for a commander.
func (m *Store) SetLocation(commander string, loc Location) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Locations[helpers.Normalize(commander)] = loc
}

// MetaSnapshot returns the current store metadata.
func (m *Store) MetaSnapshot() SnapshotMeta {
	if m == nil {
		return SnapshotMeta{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Meta
}

// Len returns the number of cached responses and known locations.
func (m *Store) Len() (responses, locations int) {
	if m == nil {
		return 0, 0
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.APICache), len(m.Locations)
}

// snapshotData is a serialized view of Store contents.
type snapshotData struct {
	Meta      SnapshotMeta
	APICache  map[string]APICacheEntry
	Locations map[string]Location
}

// snapshotData builds a snapshot payload from the store.
func (m *Store) snapshotData() snapshotData {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data := snapshotData{
		Meta:      m.Meta,
		APICache:  make(map[string]APICacheEntry, len(m.APICache)),
		Locations: make(map[string]Location, len(m.Locations)),
	}
	maps.Copy(data.APICache, m.APICache)
	maps.Copy(data.Locations, m.Locations)
	return data
}
