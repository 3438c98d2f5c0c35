package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/greeddj/go-hge/internal/hge/cache"
	"github.com/greeddj/go-hge/internal/hge/fetch"
	"github.com/greeddj/go-hge/internal/hge/helpers"
	"github.com/greeddj/go-hge/internal/hge/store"
	"golang.org/x/sync/singleflight"
)

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Source describes where a mirror downloads its document from.
type Source struct {
	Name   string
	URL    string
	Header http.Header
}

// Options carries the collaborators shared by every mirror.
type Options struct {
	Client Doer
	Logger *slog.Logger
	Now    func() time.Time
}

// Mirror is a JSON document fetched from a URL and cached in a local file.
// Content is replaced whole on a successful refresh and never patched.
type Mirror[T any] struct {
	source Source
	path   string
	decode Decoder[T]
	client Doer
	logger *slog.Logger
	now    func() time.Time

	mu         sync.RWMutex
	content    T
	loaded     bool
	lastUpdate time.Time
	downloads  atomic.Int64

	group singleflight.Group
}

// snapshot is the on-disk document.
type snapshot[T any] struct {
	Content   T         `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// New builds a mirror persisted at path.
func New[T any](source Source, path string, decode Decoder[T], opts Options) *Mirror[T] {
	if decode == nil {
		decode = JSON[T]()
	}
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Mirror[T]{
		source: source,
		path:   path,
		decode: decode,
		client: opts.Client,
		logger: opts.Logger.With("mirror", source.Name),
		now:    opts.Now,
	}
}

// Name returns the source name.
func (m *Mirror[T]) Name() string {
	return m.source.Name
}

// Path returns the snapshot location.
func (m *Mirror[T]) Path() string {
	return m.path
}

// URL returns the source URL.
func (m *Mirror[T]) URL() string {
	return m.source.URL
}

// LastUpdate returns the timestamp of the held content; zero when never populated.
func (m *Mirror[T]) LastUpdate() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastUpdate
}

// Loaded reports whether content is populated.
func (m *Mirror[T]) Loaded() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loaded
}

// Load reads the local snapshot, refreshing from the remote when none exists.
// A corrupt snapshot leaves the in-memory state untouched and returns
// ErrSnapshotCorrupt.
func (m *Mirror[T]) Load(ctx context.Context) error {
	//nolint:gosec // path is derived from the data directory.
	data, err := os.ReadFile(m.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			m.logger.Info("no local snapshot, fetching", "path", m.path)
			return m.Refresh(ctx)
		}
		m.logger.Error("failed to read snapshot", "path", m.path, "err", err)
		return fmt.Errorf("%w: %s: %w", helpers.ErrSnapshotCorrupt, m.path, err)
	}

	snap, err := decodeSnapshot[T](data)
	if err != nil {
		m.logger.Error("corrupt snapshot", "path", m.path, "err", err)
		return fmt.Errorf("%w: %s: %w", helpers.ErrSnapshotCorrupt, m.path, err)
	}
	m.commit(snap.Content, snap.Timestamp)
	m.logger.Debug("snapshot loaded", "path", m.path, "timestamp", snap.Timestamp)
	return nil
}

func decodeSnapshot[T any](data []byte) (snapshot[T], error) {
	var doc struct {
		Content   json.RawMessage `json:"content"`
		Timestamp *time.Time      `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return snapshot[T]{}, err
	}
	if len(doc.Content) == 0 || string(doc.Content) == "null" || doc.Timestamp == nil {
		return snapshot[T]{}, errors.New("content or timestamp missing")
	}
	var snap snapshot[T]
	if err := json.Unmarshal(doc.Content, &snap.Content); err != nil {
		return snapshot[T]{}, err
	}
	snap.Timestamp = *doc.Timestamp
	return snap, nil
}

// Refresh downloads the document, commits it in memory and persists it.
// On download failure the held content is kept.
func (m *Mirror[T]) Refresh(ctx context.Context) error {
	start := m.now()
	content, modified, err := m.fetchRemote(ctx)
	if err != nil {
		m.logger.Warn("refresh failed, keeping current content", "url", m.source.URL, "err", err)
		return err
	}
	m.commit(content, modified)
	m.downloads.Add(1)
	m.logger.Info("refreshed", "url", m.source.URL, "last_modified", modified, "took", m.now().Sub(start))

	if err := store.WriteJSON(m.path, &snapshot[T]{Content: content, Timestamp: modified}, helpers.FileMod); err != nil {
		m.logger.Error("failed to persist snapshot", "path", m.path, "err", err)
		return fmt.Errorf("%w: %s: %w", helpers.ErrMirrorPersistFailed, m.path, err)
	}
	return nil
}

func (m *Mirror[T]) commit(content T, timestamp time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.content = content
	m.lastUpdate = timestamp
	m.loaded = true
}

// fetchRemote downloads and decodes the document and reads its Last-Modified.
func (m *Mirror[T]) fetchRemote(ctx context.Context) (T, time.Time, error) {
	var zero T
	resp, err := m.do(ctx, http.MethodGet)
	if err != nil {
		return zero, time.Time{}, fmt.Errorf("%w: %w", helpers.ErrMirrorFetchFailed, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		m.logger.Warn("unexpected status", "url", m.source.URL, "status", resp.StatusCode)
		statusErr := &cache.HTTPStatusError{URL: m.source.URL, Status: resp.Status, Code: resp.StatusCode}
		return zero, time.Time{}, fmt.Errorf("%w: %w", helpers.ErrMirrorFetchFailed, statusErr)
	}

	body, err := fetch.ReadBody(resp)
	if err != nil {
		return zero, time.Time{}, fmt.Errorf("%w: %w", helpers.ErrMirrorFetchFailed, err)
	}
	content, err := m.decode(body)
	if err != nil {
		return zero, time.Time{}, fmt.Errorf("%w: %s: %w", helpers.ErrMirrorDecodeFailed, m.source.URL, err)
	}

	modified, err := lastModified(resp.Header)
	if err != nil {
		m.logger.Debug("no usable Last-Modified, using local clock", "url", m.source.URL)
		modified = m.now().UTC()
	}
	return content, modified, nil
}

func (m *Mirror[T]) do(ctx context.Context, method string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, m.source.URL, http.NoBody)
	if err != nil {
		return nil, err
	}
	for key, values := range m.source.Header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	return m.client.Do(req)
}

func lastModified(header http.Header) (time.Time, error) {
	value := header.Get("Last-Modified")
	if value == "" {
		return time.Time{}, helpers.ErrLastModifiedMissing
	}
	t, err := http.ParseTime(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid Last-Modified %q: %w", value, err)
	}
	return t.UTC(), nil
}

// Database returns the content, loading it on first access. It does not
// check staleness. A corrupt snapshot is replaced by a remote refresh.
func (m *Mirror[T]) Database(ctx context.Context) (T, error) {
	if content, ok := m.current(); ok {
		return content, nil
	}
	_, err, _ := m.group.Do("load", func() (any, error) {
		if m.Loaded() {
			return nil, nil
		}
		err := m.Load(ctx)
		if errors.Is(err, helpers.ErrSnapshotCorrupt) {
			err = m.Refresh(ctx)
		}
		return nil, err
	})
	content, ok := m.current()
	if !ok {
		if err == nil {
			err = helpers.ErrMirrorEmpty
		}
		return content, fmt.Errorf("%s: %w", m.source.Name, err)
	}
	return content, nil
}

func (m *Mirror[T]) current() (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.content, m.loaded
}

// CheckUpdate makes sure content is loaded, then refreshes it when the
// remote reports a newer document. It reports whether a download happened.
func (m *Mirror[T]) CheckUpdate(ctx context.Context) (bool, error) {
	before := m.downloads.Load()
	if _, err := m.Database(ctx); err != nil {
		return false, err
	}
	if m.downloads.Load() != before {
		return true, nil
	}
	if !m.ShouldRefresh(ctx) {
		return false, nil
	}
	if err := m.Refresh(ctx); err != nil {
		return false, err
	}
	return true, nil
}
