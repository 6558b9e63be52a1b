package gotext

import (
	"sort"
	"sync"
)

// VersionStore is an optional backing store behind the in-memory cache.
type VersionStore interface {
	Get(key VersionKey) (*Version, bool)
	Set(key VersionKey, v *Version) error
}

// Entry is a single cached version with the key it is stored under.
type Entry struct {
	Key     VersionKey `json:"key"`
	Version *Version   `json:"version"`
}

// VersionCache maps reference → language → version title → version. It never
// evicts; it lives as long as the session that created it.
// It also remembers the default version title per (book, language).
type VersionCache struct {
	mu       sync.RWMutex
	entries  map[string]map[string]map[string]*Version
	defaults map[string]map[string]string
	count    int
	backing  VersionStore
}

// NewVersionCache creates an empty cache.
func NewVersionCache() *VersionCache {
	return &VersionCache{
		entries:  make(map[string]map[string]map[string]*Version),
		defaults: make(map[string]map[string]string),
	}
}

// WithBackingStore sets a store consulted on memory misses and written on every set.
func (c *VersionCache) WithBackingStore(s VersionStore) *VersionCache {
	c.backing = s
	return c
}

// Get returns the version stored at exactly (ref, language, versionTitle).
func (c *VersionCache) Get(ref, language, versionTitle string) (*Version, bool) {
	c.mu.RLock()
	v, ok := c.entries[ref][language][versionTitle]
	c.mu.RUnlock()
	if ok {
		return v, true
	}

	if c.backing != nil && ref != "" {
		return c.backing.Get(VersionKey{Ref: ref, Language: language, VersionTitle: versionTitle})
	}
	return nil, false
}

// GetKey is Get for a VersionKey.
func (c *VersionCache) GetKey(k VersionKey) (*Version, bool) {
	return c.Get(k.Ref, k.Language, k.VersionTitle)
}

// Set stores v under the key derived from its own identity fields.
func (c *VersionCache) Set(v *Version) error {
	if err := validate(v); err != nil {
		return err
	}
	return c.store(v.Key(), v)
}

// SetRequested stores a version fetched for req. The version is stored under
// its resolved key and, if that differs, under req too. When req had no
// version title, the resolved title becomes the default for the book and
// language unless one is already remembered.
func (c *VersionCache) SetRequested(req VersionKey, v *Version) error {
	if req.Ref == "" {
		return ErrEmptyReference
	}
	if err := validate(v); err != nil {
		return err
	}

	if req.VersionTitle == "" {
		c.mu.Lock()
		book := BookFromRef(req.Ref)
		if _, ok := c.defaults[book][req.Language]; !ok {
			c.setDefaultLocked(book, req.Language, v.VersionTitle)
		}
		c.mu.Unlock()
	}

	err := c.store(v.Key(), v)
	if req != v.Key() {
		if aliasErr := c.store(req, v); err == nil {
			err = aliasErr
		}
	}
	return err
}

// DefaultVersion returns the remembered default version title for (book, language).
func (c *VersionCache) DefaultVersion(book, language string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	title, ok := c.defaults[book][language]
	return title, ok
}

// SetDefaultVersion overwrites the default version title for (book, language).
func (c *VersionCache) SetDefaultVersion(book, language, versionTitle string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setDefaultLocked(book, language, versionTitle)
}

// Defaults returns a copy of the default preference table (book → language → title).
func (c *VersionCache) Defaults() map[string]map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]map[string]string, len(c.defaults))
	for book, langs := range c.defaults {
		m := make(map[string]string, len(langs))
		for lang, title := range langs {
			m[lang] = title
		}
		out[book] = m
	}
	return out
}

// Len returns the number of stored keys in memory.
func (c *VersionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.count
}

// Clear removes all entries and default preferences from memory.
func (c *VersionCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]map[string]map[string]*Version)
	c.defaults = make(map[string]map[string]string)
	c.count = 0
}

// Entries returns every in-memory entry sorted by key.
// This is used for cache export.
func (c *VersionCache) Entries() []Entry {
	c.mu.RLock()
	result := make([]Entry, 0, c.count)
	for ref, langs := range c.entries {
		for lang, titles := range langs {
			for title, v := range titles {
				result = append(result, Entry{
					Key:     VersionKey{Ref: ref, Language: lang, VersionTitle: title},
					Version: v,
				})
			}
		}
	}
	c.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return KeyString(result[i].Key) < KeyString(result[j].Key)
	})
	return result
}

// Put stores v under an explicit key, bypassing identity derivation.
// This is used for cache import.
func (c *VersionCache) Put(key VersionKey, v *Version) error {
	if key.Ref == "" {
		return ErrEmptyReference
	}
	if v == nil {
		return &MalformedPayloadError{Missing: []string{"version"}}
	}
	return c.store(key, v)
}

func (c *VersionCache) store(k VersionKey, v *Version) error {
	c.mu.Lock()
	langs, ok := c.entries[k.Ref]
	if !ok {
		langs = make(map[string]map[string]*Version)
		c.entries[k.Ref] = langs
	}
	titles, ok := langs[k.Language]
	if !ok {
		titles = make(map[string]*Version)
		langs[k.Language] = titles
	}
	if _, exists := titles[k.VersionTitle]; !exists {
		c.count++
	}
	titles[k.VersionTitle] = v
	c.mu.Unlock()

	if c.backing != nil {
		if err := c.backing.Set(k, v); err != nil {
			return &CacheError{Message: "backing store write failed", Cause: err}
		}
	}
	return nil
}

// setDefaultLocked must be called with the write lock held.
func (c *VersionCache) setDefaultLocked(book, language, versionTitle string) {
	langs, ok := c.defaults[book]
	if !ok {
		langs = make(map[string]string)
		c.defaults[book] = langs
	}
	langs[language] = versionTitle
}

func validate(v *Version) error {
	if v == nil {
		return &MalformedPayloadError{Missing: []string{"version"}}
	}
	var missing []string
	if v.Ref == "" {
		missing = append(missing, "ref")
	}
	if v.Language == "" {
		missing = append(missing, "language")
	}
	if v.VersionTitle == "" {
		missing = append(missing, "versionTitle")
	}
	if len(missing) > 0 {
		return &MalformedPayloadError{Missing: missing}
	}
	return nil
}
