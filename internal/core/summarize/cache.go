package summarize

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Entry is one cached summary: the content fingerprint and record size at
// generation time, plus the generated text.
type Entry struct {
	Hash    string `json:"hash"`
	Size    int64  `json:"size"`
	Summary string `json:"summary"`
}

// UnmarshalJSON accepts both the structured entry shape and the legacy
// plain-string shape. Legacy entries come back with an empty Hash, which
// the summarizer uses to upgrade them in place.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var legacy string
	if err := json.Unmarshal(data, &legacy); err == nil {
		*e = Entry{Summary: legacy}
		return nil
	}

	type entry Entry
	var v entry
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*e = Entry(v)
	return nil
}

// Fingerprint returns the deterministic cache fingerprint for a session's
// excerpt content.
func Fingerprint(content string) string {
	sum := md5.Sum([]byte(content))
	return hex.EncodeToString(sum[:])[:16]
}

// Cache is the persistent summary cache: a single JSON mapping from session
// id to Entry, rewritten whole on every save. A corrupt or unreadable file
// is treated as empty. All access goes through the cache object; callers
// never touch the file.
type Cache struct {
	path string

	mu      sync.Mutex
	entries map[string]Entry
}

// OpenCache loads the cache at path, starting empty when the file is
// missing or unreadable.
func OpenCache(path string) *Cache {
	c := &Cache{path: path, entries: make(map[string]Entry)}

	data, err := os.ReadFile(path)
	if err != nil {
		return c
	}
	var entries map[string]Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return c
	}
	c.entries = entries
	return c
}

// Get returns the entry for a session id.
func (c *Cache) Get(id string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	return e, ok
}

// Put stores an entry and persists the whole cache.
func (c *Cache) Put(id string, e Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = e
	return c.save()
}

// Delete removes an entry and persists the whole cache.
func (c *Cache) Delete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[id]; !ok {
		return nil
	}
	delete(c.entries, id)
	return c.save()
}

func (c *Cache) save() error {
	data, err := json.Marshal(c.entries)
	if err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}

// LogCache persists generated temporal logs: a single JSON mapping from
// id:fingerprint composite key to display lines, same whole-file overwrite
// discipline as Cache.
type LogCache struct {
	path string

	mu      sync.Mutex
	entries map[string][]string
}

// OpenLogCache loads the log cache at path, starting empty on any failure.
func OpenLogCache(path string) *LogCache {
	c := &LogCache{path: path, entries: make(map[string][]string)}

	data, err := os.ReadFile(path)
	if err != nil {
		return c
	}
	var entries map[string][]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return c
	}
	c.entries = entries
	return c
}

// Get returns the cached lines for a composite key.
func (c *LogCache) Get(key string) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	lines, ok := c.entries[key]
	return lines, ok
}

// Put stores lines under a composite key and persists the whole cache.
func (c *LogCache) Put(key string, lines []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = lines

	data, err := json.Marshal(c.entries)
	if err != nil {
		return fmt.Errorf("failed to encode log cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write log cache: %w", err)
	}
	return nil
}
