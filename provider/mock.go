package provider

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ZaguanLabs/gotext"
)

// MockFetcher is an in-memory fetcher for testing and examples.
type MockFetcher struct {
	mu       sync.Mutex
	Versions map[VersionKey]*Version // Canned responses by requested key
	Errors   map[VersionKey]error    // Injected failures by requested key
	Calls    []VersionKey            // Keys requested, in order
}

// NewMockFetcher creates a new mock fetcher with a few Genesis versions.
func NewMockFetcher() *MockFetcher {
	m := &MockFetcher{
		Versions: make(map[VersionKey]*Version),
		Errors:   make(map[VersionKey]error),
	}

	source := &Version{
		Ref:          "Genesis 1:1",
		HeRef:        "בראשית א׳:א׳",
		Language:     "he",
		VersionTitle: "Miqra according to the Masorah",
		Direction:    "rtl",
		IsSource:     true,
		Text:         json.RawMessage(`"בְּרֵאשִׁ֖ית בָּרָ֣א אֱלֹהִ֑ים אֵ֥ת הַשָּׁמַ֖יִם וְאֵ֥ת הָאָֽרֶץ׃"`),
	}
	jps := &Version{
		Ref:          "Genesis 1:1",
		HeRef:        "בראשית א׳:א׳",
		Language:     "en",
		VersionTitle: "The Contemporary Torah, Jewish Publication Society, 2006",
		Direction:    "ltr",
		Text:         json.RawMessage(`"When God began to create heaven and earth—"`),
	}

	m.Versions[VersionKey{Ref: "Genesis 1:1", Language: gotext.LanguageSource}] = source
	m.Versions[source.Key()] = source
	m.Versions[VersionKey{Ref: "Genesis 1:1", Language: "en"}] = jps
	m.Versions[jps.Key()] = jps
	return m
}

// FetchVersion returns the canned version for key.
// Unknown keys fail with a non-retryable 404 ProviderError.
func (m *MockFetcher) FetchVersion(ctx context.Context, key VersionKey) (*Version, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, key)

	if err, ok := m.Errors[key]; ok {
		return nil, err
	}
	if v, ok := m.Versions[key]; ok {
		return v, nil
	}
	return nil, &gotext.ProviderError{
		Message:    "no version for " + gotext.VersionParam(key.Language, key.VersionTitle),
		StatusCode: 404,
	}
}

// CallCount returns the number of FetchVersion calls.
func (m *MockFetcher) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// Reset clears the recorded calls.
func (m *MockFetcher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = nil
}

// Verify MockFetcher implements Fetcher
var _ Fetcher = (*MockFetcher)(nil)
