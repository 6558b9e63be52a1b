package gotext

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Manager resolves source and translation versions for references, serving
// hits from its VersionCache and fetching misses.
type Manager struct {
	fetcher         Fetcher
	cache           *VersionCache
	prefs           PreferenceSource
	translationLang string
	logger          zerolog.Logger
	metrics         *Metrics
	concurrency     int
	inflight        singleflight.Group
}

// Fetcher retrieves a single text version from the text API.
type Fetcher interface {
	FetchVersion(ctx context.Context, key VersionKey) (*Version, error)
}

// PreferenceSource returns the preferred version title per language for a book.
type PreferenceSource interface {
	VersionPref(ctx context.Context, book string) (map[string]string, error)
}

// ManagerOption is a functional option for configuring the Manager.
type ManagerOption func(*Manager)

// WithCache sets the version cache. Managers sharing a cache share its defaults.
func WithCache(cache *VersionCache) ManagerOption {
	return func(m *Manager) {
		m.cache = cache
	}
}

// WithPreferences sets the version preference lookup.
func WithPreferences(prefs PreferenceSource) ManagerOption {
	return func(m *Manager) {
		m.prefs = prefs
	}
}

// WithTranslationLanguage sets the language used for translation slots with no explicit choice.
func WithTranslationLanguage(lang string) ManagerOption {
	return func(m *Manager) {
		m.translationLang = lang
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithMetrics enables metrics collection.
func WithMetrics(metrics *Metrics) ManagerOption {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// WithConcurrency limits how many references ResolveMany resolves at once.
func WithConcurrency(n int) ManagerOption {
	return func(m *Manager) {
		m.concurrency = n
	}
}

// NewManager creates a new Manager backed by the given fetcher.
func NewManager(fetcher Fetcher, opts ...ManagerOption) *Manager {
	m := &Manager{
		fetcher:         fetcher,
		translationLang: DefaultTranslationLanguage,
		logger:          zerolog.Nop(),
		concurrency:     4,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.cache == nil {
		m.cache = NewVersionCache()
	}

	return m
}

// Cache returns the manager's version cache.
func (m *Manager) Cache() *VersionCache {
	return m.cache
}

// TranslationLanguage returns the fallback translation language.
func (m *Manager) TranslationLanguage() string {
	return m.translationLang
}

// Resolve returns the requested slots for ref. Cache hits are returned
// without fetching; misses are fetched concurrently and cached as each
// response lands. A failed fetch sets that slot's Err and leaves the other
// slot untouched. The returned error is only non-nil for an invalid request.
func (m *Manager) Resolve(ctx context.Context, ref string, req Request) (*Result, error) {
	if ref == "" {
		return nil, ErrEmptyReference
	}

	book := BookFromRef(ref)
	result := &Result{Ref: ref, Book: book}

	var wg sync.WaitGroup
	slot := func(s Slot, spec *SlotSpec, dst **SlotResult) {
		key, ok := m.resolveKey(ctx, s, ref, book, spec)
		if !ok {
			return
		}

		if v, hit := m.cache.GetKey(key); hit {
			m.metrics.hit(s)
			m.logger.Debug().Str("slot", string(s)).Str("ref", ref).
				Str("version", VersionParam(key.Language, key.VersionTitle)).Msg("cache hit")
			*dst = &SlotResult{Slot: s, Key: key, Version: v, Cached: true}
			return
		}

		m.metrics.miss(s)
		wg.Add(1)
		go func() {
			defer wg.Done()
			*dst = m.fetchSlot(ctx, s, key)
		}()
	}

	slot(SlotSource, req.Source, &result.Source)
	slot(SlotTranslation, req.Translation, &result.Translation)
	wg.Wait()

	return result, nil
}

// resolveKey works out the cache key for one slot. It reports false when the
// slot was not requested or no language can be derived for it.
func (m *Manager) resolveKey(ctx context.Context, s Slot, ref, book string, spec *SlotSpec) (VersionKey, bool) {
	if spec == nil {
		return VersionKey{}, false
	}

	key := VersionKey{Ref: ref, Language: spec.Language, VersionTitle: spec.VersionTitle}

	if s == SlotSource {
		if key.Language == "" {
			key.Language = LanguageSource
		}
		return key, true
	}

	if key.Language == "" {
		key.Language = m.translationLang
	}
	if key.Language == "" {
		m.logger.Debug().Str("ref", ref).Msg("translation slot has no language, omitting")
		return VersionKey{}, false
	}

	if key.VersionTitle == "" {
		key.VersionTitle = m.defaultTitle(ctx, book, key.Language)
	}
	return key, true
}

// defaultTitle returns the remembered default for (book, language), asking the
// preference source only when nothing is remembered yet.
func (m *Manager) defaultTitle(ctx context.Context, book, language string) string {
	if title, ok := m.cache.DefaultVersion(book, language); ok {
		return title
	}
	if m.prefs == nil {
		return ""
	}

	prefs, err := m.prefs.VersionPref(ctx, book)
	if err != nil {
		m.logger.Warn().Err(err).Str("book", book).Msg("version preference lookup failed")
		return ""
	}

	title := prefs[language]
	if title != "" {
		m.cache.SetDefaultVersion(book, language, title)
	}
	return title
}

// fetchSlot fetches key and caches the result. Concurrent fetches of the same
// key share one request, which runs detached from any single caller's
// cancellation; each caller stops waiting when its own ctx is done.
func (m *Manager) fetchSlot(ctx context.Context, s Slot, key VersionKey) *SlotResult {
	start := time.Now()

	fetchCtx := context.WithoutCancel(ctx)
	ch := m.inflight.DoChan(KeyString(key), func() (interface{}, error) {
		v, err := m.fetcher.FetchVersion(fetchCtx, key)
		if err != nil {
			return nil, err
		}
		if err := m.cache.SetRequested(key, v); err != nil {
			var cacheErr *CacheError
			if !errors.As(err, &cacheErr) {
				return nil, err
			}
			m.logger.Warn().Err(err).Str("ref", key.Ref).Msg("version cached in memory only")
		}
		return v, nil
	})

	var (
		res    interface{}
		err    error
		shared bool
	)
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case r := <-ch:
		res, err, shared = r.Val, r.Err, r.Shared
	}
	m.metrics.observeFetch(s, time.Since(start), err)

	if err != nil {
		m.logger.Warn().Err(err).Str("slot", string(s)).Str("ref", key.Ref).
			Str("version", VersionParam(key.Language, key.VersionTitle)).Msg("fetch failed")
		return &SlotResult{Slot: s, Key: key, Err: &FetchError{Slot: s, Key: key, Cause: err}}
	}

	v := res.(*Version)
	m.logger.Debug().Str("slot", string(s)).Str("ref", key.Ref).
		Str("versionTitle", v.VersionTitle).Bool("shared", shared).Msg("fetched version")
	return &SlotResult{Slot: s, Key: key, Version: v}
}
