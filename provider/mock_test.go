package provider

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZaguanLabs/gotext"
)

func TestMockFetcher_Known(t *testing.T) {
	m := NewMockFetcher()

	v, err := m.FetchVersion(context.Background(), VersionKey{Ref: "Genesis 1:1", Language: gotext.LanguageSource})
	if err != nil {
		t.Fatalf("FetchVersion failed: %v", err)
	}
	if v.Language != "he" || !v.IsSource {
		t.Errorf("Expected Hebrew source, got %+v", v)
	}
	if m.CallCount() != 1 {
		t.Errorf("Expected 1 call, got %d", m.CallCount())
	}

	m.Reset()
	if m.CallCount() != 0 {
		t.Error("Reset should clear calls")
	}
}

func TestMockFetcher_UnknownAndInjected(t *testing.T) {
	m := NewMockFetcher()

	_, err := m.FetchVersion(context.Background(), VersionKey{Ref: "Exodus 1:1", Language: "en"})
	var providerErr *gotext.ProviderError
	if !errors.As(err, &providerErr) || providerErr.StatusCode != 404 {
		t.Errorf("Expected 404 ProviderError, got %v", err)
	}

	key := VersionKey{Ref: "Genesis 1:1", Language: "en"}
	m.Errors[key] = errors.New("boom")
	if _, err := m.FetchVersion(context.Background(), key); err == nil {
		t.Error("Expected injected error")
	}
}

func TestStaticPreferences(t *testing.T) {
	p := StaticPreferences{"Genesis": {"en": "JPS 1985"}}

	prefs, err := p.VersionPref(context.Background(), "Genesis")
	if err != nil || prefs["en"] != "JPS 1985" {
		t.Errorf("Unexpected prefs %v, %v", prefs, err)
	}

	// Returned map is a copy
	prefs["en"] = "changed"
	again, _ := p.VersionPref(context.Background(), "Genesis")
	if again["en"] != "JPS 1985" {
		t.Error("VersionPref should return a copy")
	}

	empty, _ := p.VersionPref(context.Background(), "Exodus")
	if len(empty) != 0 {
		t.Errorf("Expected empty prefs, got %v", empty)
	}
}

func TestLoadPreferences(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	os.WriteFile(path, []byte(`{"Genesis": {"en": "The Koren Jerusalem Bible"}}`), 0644)

	prefs, err := LoadPreferences(path)
	if err != nil {
		t.Fatalf("LoadPreferences failed: %v", err)
	}
	if prefs["Genesis"]["en"] != "The Koren Jerusalem Bible" {
		t.Errorf("Unexpected prefs: %v", prefs)
	}

	if _, err := LoadPreferences(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}
}
