package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/greeddj/go-hge/internal/hge/fetch"
	"github.com/greeddj/go-hge/internal/hge/store"
)

// apiCacheKey generates a stable cache key for a URL.
func apiCacheKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

// FetchJSON fetches url honoring policy and unmarshals the body into out.
// A cached entry younger than the TTL is served without a request; an older
// one is revalidated with If-None-Match / If-Modified-Since.
func FetchJSON(ctx context.Context, client *http.Client, url string, st *store.Store, out any, policy Policy) error {
	if st == nil || (!policy.Read && !policy.Write) {
		res, err := fetchJSONBody(ctx, client, url, nil)
		if err != nil {
			return err
		}
		return json.Unmarshal(res.body, out)
	}

	key := apiCacheKey(url)
	if policy.Read {
		if ok, err := tryServeFromCache(ctx, client, url, st, key, out, policy); ok || err != nil {
			return err
		}
	}
	return fetchAndStore(ctx, client, url, st, key, out, policy)
}

func tryServeFromCache(ctx context.Context, client *http.Client, url string, st *store.Store, key string, out any, policy Policy) (bool, error) {
	entry, ok := st.GetAPICache(key)
	if !ok || entry.URL != url || len(entry.Body) == 0 {
		return false, nil
	}
	if isFresh(entry, policy) && json.Unmarshal(entry.Body, out) == nil {
		return true, nil
	}
	return revalidate(ctx, client, url, st, key, entry, out, policy)
}

func isFresh(entry store.APICacheEntry, policy Policy) bool {
	return policy.TTL == 0 || time.Since(entry.FetchedAt) <= policy.TTL
}

func revalidate(ctx context.Context, client *http.Client, url string, st *store.Store, key string, entry store.APICacheEntry, out any, policy Policy) (bool, error) {
	res, err := fetchJSONBody(ctx, client, url, &entry)
	if err != nil {
		return false, err
	}
	if res.notModified {
		if policy.Write {
			st.SetAPICache(key, refreshEntry(entry, res))
		}
		return true, json.Unmarshal(entry.Body, out)
	}
	if policy.Write {
		st.SetAPICache(key, newEntry(url, res, policy.TTL))
	}
	return true, json.Unmarshal(res.body, out)
}

func fetchAndStore(ctx context.Context, client *http.Client, url string, st *store.Store, key string, out any, policy Policy) error {
	res, err := fetchJSONBody(ctx, client, url, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(res.body, out); err != nil {
		return err
	}
	if policy.Write {
		st.SetAPICache(key, newEntry(url, res, policy.TTL))
	}
	return nil
}

func newEntry(url string, res fetchResult, ttl time.Duration) store.APICacheEntry {
	return store.APICacheEntry{
		URL:          url,
		FetchedAt:    time.Now().UTC(),
		TTL:          ttl,
		Body:         res.body,
		ETag:         res.etag,
		LastModified: res.lastModified,
	}
}

func refreshEntry(entry store.APICacheEntry, res fetchResult) store.APICacheEntry {
	entry.FetchedAt = time.Now().UTC()
	if res.etag != "" {
		entry.ETag = res.etag
	}
	if res.lastModified != "" {
		entry.LastModified = res.lastModified
	}
	return entry
}

// PostForm sends form as a URL-encoded POST body to endpoint and unmarshals
// the JSON answer into out. Responses are never cached and form values never
// appear in the returned errors.
func PostForm(ctx context.Context, client *http.Client, endpoint string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return &HTTPStatusError{URL: endpoint, Status: resp.Status, Code: resp.StatusCode}
	}
	body, err := fetch.ReadBody(resp)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

type fetchResult struct {
	body         []byte
	etag         string
	lastModified string
	notModified  bool
}

func fetchJSONBody(ctx context.Context, client *http.Client, url string, entry *store.APICacheEntry) (fetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fetchResult{}, err
	}
	req.Header.Set("Accept", "application/json")
	if entry != nil {
		if entry.ETag != "" {
			req.Header.Set("If-None-Match", entry.ETag)
		}
		if entry.LastModified != "" {
			req.Header.Set("If-Modified-Since", entry.LastModified)
		}
	}
	resp, err := client.Do(req)
	if err != nil {
		return fetchResult{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	res := fetchResult{
		etag:         resp.Header.Get("ETag"),
		lastModified: resp.Header.Get("Last-Modified"),
	}
	if resp.StatusCode == http.StatusNotModified {
		res.notModified = true
		return res, nil
	}
	if resp.StatusCode != http.StatusOK {
		return fetchResult{}, &HTTPStatusError{URL: url, Status: resp.Status, Code: resp.StatusCode}
	}
	res.body, err = fetch.ReadBody(resp)
	return res, err
}

// HTTPStatusError describes a non-200 HTTP response.
type HTTPStatusError struct {
	URL    string
	Status string
	Code   int
}

// Error implements the error interface.
func (e *HTTPStatusError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("unexpected response: %s (%s)", e.Status, e.URL)
	}
	return "unexpected response: " + e.Status
}
