package store

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/greeddj/go-hge/internal/hge/helpers"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	st := New()
	st.SetAPICache("api", APICacheEntry{
		URL:       "https://example.com/api",
		ETag:      "etag",
		FetchedAt: fixed,
		TTL:       time.Minute,
		Body:      []byte(`{"ok":true}`),
	})
	st.SetLocation("Jameson", Location{System: "Sol", SystemID: 27, SeenAt: fixed})

	if err := Save(db, st); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	loaded, err := Load(db)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	meta := loaded.MetaSnapshot()
	if meta.SchemaVersion != helpers.StoreSchemaVersion {
		t.Fatalf("unexpected schema version: %d", meta.SchemaVersion)
	}
	if meta.LastSnapshot.IsZero() {
		t.Fatalf("expected LastSnapshot to be set")
	}
	entry, ok := loaded.GetAPICache("api")
	if !ok || string(entry.Body) != `{"ok":true}` || entry.ETag != "etag" {
		t.Fatalf("unexpected api cache entry: %#v", entry)
	}
	loc, ok := loaded.GetLocation("  JAMESON ")
	if !ok || loc.System != "Sol" || loc.SystemID != 27 || !loc.SeenAt.Equal(fixed) {
		t.Fatalf("unexpected location: %#v", loc)
	}
}

func TestSaveReplacesBuckets(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)

	st := New()
	st.SetAPICache("old", APICacheEntry{URL: "old", Body: []byte("1")})
	if err := Save(db, st); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	st.ClearCaches()
	st.SetAPICache("new", APICacheEntry{URL: "new", Body: []byte("2")})
	if err := Save(db, st); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	loaded, err := Load(db)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if _, ok := loaded.GetAPICache("old"); ok {
		t.Fatalf("expected old entry to be gone")
	}
	if _, ok := loaded.GetAPICache("new"); !ok {
		t.Fatalf("expected new entry")
	}
}

func TestLoadNilDB(t *testing.T) {
	t.Parallel()
	st, err := Load(nil)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if responses, locations := st.Len(); responses != 0 || locations != 0 {
		t.Fatalf("expected empty store, got %d/%d", responses, locations)
	}
	if err := Save(nil, st); err == nil {
		t.Fatalf("expected error saving to nil db")
	}
}

func TestPruneAPICache(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	st := New()
	st.SetAPICache("fresh", APICacheEntry{FetchedAt: now.Add(-time.Hour)})
	st.SetAPICache("stale", APICacheEntry{FetchedAt: now.Add(-30 * 24 * time.Hour)})

	if dropped := st.PruneAPICache(now, helpers.CachePruneAfter); dropped != 1 {
		t.Fatalf("expected 1 pruned entry, got %d", dropped)
	}
	if _, ok := st.GetAPICache("fresh"); !ok {
		t.Fatalf("expected fresh entry to survive")
	}
}

func TestAcquireLock(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	release, err := AcquireLock(dir, "test")
	if err != nil {
		t.Fatalf("AcquireLock error: %v", err)
	}
	if _, err := AcquireLock(dir, "test"); err == nil {
		t.Fatalf("expected second lock to fail while held")
	}
	if err := release(); err != nil {
		t.Fatalf("release error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, helpers.StoreDBLock)); !os.IsNotExist(err) {
		t.Fatalf("expected lock file to be removed, got %v", err)
	}
}

func TestAcquireLockTakesOverDeadProcess(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	stale := []byte(`{"pid":0,"since":"2024-01-01T00:00:00Z"}`)
	if err := os.WriteFile(filepath.Join(dir, helpers.StoreDBLock), stale, helpers.FileMod); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	release, err := AcquireLock(dir, "test")
	if err != nil {
		t.Fatalf("AcquireLock error: %v", err)
	}
	_ = release()
}

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "doc.json")

	if err := WriteJSON(path, map[string]int{"a": 1}, helpers.SecretFileMod); err != nil {
		t.Fatalf("WriteJSON error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if string(data) != `{"a":1}` {
		t.Fatalf("unexpected content: %s", data)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat error: %v", err)
	}
	if info.Mode().Perm() != helpers.SecretFileMod {
		t.Fatalf("unexpected mode: %v", info.Mode().Perm())
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected temp files to be gone, got %d entries", len(entries))
	}
}

func TestClearCacheFiles(t *testing.T) {
	t.Parallel()
	names := []string{
		helpers.StoreDBCache,
		helpers.StoreProfile,
		helpers.StoreConfig,
		helpers.StoreSystemsSnapshot,
		helpers.StoreIndexSnapshot,
		".go-hge-mmdb.json-123.tmp",
	}

	tests := []struct {
		name string
		all  bool
		want []string
	}{
		{name: "cache only", want: []string{".go-hge-mmdb.json-123.tmp", helpers.StoreDBCache}},
		{name: "all", all: true, want: []string{".go-hge-mmdb.json-123.tmp", helpers.StoreDBCache, helpers.StoreSystemsSnapshot, helpers.StoreIndexSnapshot}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			for _, name := range names {
				if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), helpers.FileMod); err != nil {
					t.Fatalf("WriteFile error: %v", err)
				}
			}
			removed, err := ClearCacheFiles(dir, tt.all)
			if err != nil {
				t.Fatalf("ClearCacheFiles error: %v", err)
			}
			slices.Sort(removed)
			want := slices.Clone(tt.want)
			slices.Sort(want)
			if !slices.Equal(removed, want) {
				t.Fatalf("expected %v, got %v", want, removed)
			}
			if _, err := os.Stat(filepath.Join(dir, helpers.StoreProfile)); err != nil {
				t.Fatalf("expected profile to be kept: %v", err)
			}
		})
	}
}

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}
