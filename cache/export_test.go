package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZaguanLabs/gotext"
	"github.com/rs/zerolog"
)

func populated() *gotext.VersionCache {
	c := gotext.NewVersionCache()
	c.SetRequested(gotext.VersionKey{Ref: "Genesis 1:1", Language: "en"}, genesisVersion())
	c.Set(&gotext.Version{Ref: "Genesis 1:1", Language: "he", VersionTitle: "Miqra according to the Masorah"})
	return c
}

func TestExporter_Export(t *testing.T) {
	exporter := NewExporter(populated())
	var buf bytes.Buffer

	err := exporter.Export(&buf, map[string]string{"lang": "en"})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	// Parse the output
	var export ExportFormat
	if err := json.Unmarshal(buf.Bytes(), &export); err != nil {
		t.Fatalf("Failed to parse export: %v", err)
	}

	if export.Version != "1.0" {
		t.Errorf("Expected version 1.0, got %s", export.Version)
	}

	// Resolved key, requested key, and the Hebrew version
	if len(export.Entries) != 3 {
		t.Errorf("Expected 3 entries, got %d", len(export.Entries))
	}

	if export.Defaults["1:1"]["en"] != "JPS 1985" {
		t.Errorf("Expected default JPS 1985, got %v", export.Defaults)
	}

	if export.Metadata["lang"] != "en" {
		t.Errorf("Expected metadata lang=en, got %v", export.Metadata)
	}
}

func TestImporter_Import(t *testing.T) {
	jsonData := `{
		"version": "1.0",
		"exported_at": "2024-01-01T00:00:00Z",
		"entries": [
			{"key": {"ref": "Genesis 1:1", "language": "en", "versionTitle": "JPS 1985"},
			 "version": {"ref": "Genesis 1:1", "language": "en", "versionTitle": "JPS 1985", "text": "In the beginning"}},
			{"key": {"ref": "", "language": "en"},
			 "version": {"ref": "Genesis 1:2", "language": "en", "versionTitle": "JPS 1985"}},
			{"key": {"ref": "Genesis 1:3", "language": "en"}}
		],
		"defaults": {"Genesis": {"en": "JPS 1985"}},
		"metadata": {"lang": "en"}
	}`

	c := gotext.NewVersionCache()
	importer := NewImporter(c)

	result, err := importer.Import(strings.NewReader(jsonData))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if result.Imported != 1 {
		t.Errorf("Expected 1 imported, got %d", result.Imported)
	}

	if result.Failed != 2 {
		t.Errorf("Expected 2 failed, got %d", result.Failed)
	}

	if result.Defaults != 1 {
		t.Errorf("Expected 1 default, got %d", result.Defaults)
	}

	if v, ok := c.Get("Genesis 1:1", "en", "JPS 1985"); !ok || string(v.Text) != `"In the beginning"` {
		t.Errorf("Genesis 1:1 not found or wrong value: %v", v)
	}

	if title, _ := c.DefaultVersion("Genesis", "en"); title != "JPS 1985" {
		t.Errorf("Expected default JPS 1985, got %q", title)
	}
}

func TestImporter_BadVersion(t *testing.T) {
	importer := NewImporter(gotext.NewVersionCache())

	_, err := importer.Import(strings.NewReader(`{"version": "2.0", "entries": []}`))
	if err == nil {
		t.Error("Expected error for unsupported version")
	}
}

func TestImporter_InvalidJSON(t *testing.T) {
	importer := NewImporter(gotext.NewVersionCache())

	_, err := importer.Import(strings.NewReader("not json"))
	if err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

func TestExportImport_RoundTrip(t *testing.T) {
	src := populated()
	path := filepath.Join(t.TempDir(), "session.json")

	if err := NewExporter(src).ExportToFile(path, nil); err != nil {
		t.Fatalf("ExportToFile failed: %v", err)
	}

	dst := gotext.NewVersionCache()
	result, err := NewImporter(dst).ImportFromFile(path)
	if err != nil {
		t.Fatalf("ImportFromFile failed: %v", err)
	}

	if result.Imported != src.Len() {
		t.Errorf("Expected %d imported, got %d", src.Len(), result.Imported)
	}
	if dst.Len() != src.Len() {
		t.Errorf("Expected %d entries, got %d", src.Len(), dst.Len())
	}

	for _, e := range src.Entries() {
		got, ok := dst.GetKey(e.Key)
		if !ok {
			t.Errorf("Missing %+v after import", e.Key)
			continue
		}
		if got.VersionTitle != e.Version.VersionTitle {
			t.Errorf("Entry %+v: got %q, want %q", e.Key, got.VersionTitle, e.Version.VersionTitle)
		}
	}

	// A warmed cache serves the remembered default without fetching
	m := gotext.NewManager(nil, gotext.WithCache(dst))
	res, err := m.Resolve(context.Background(), "Genesis 1:1", gotext.TranslationOnly())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !res.Translation.Cached {
		t.Error("Expected warmed cache hit")
	}
}

func TestImporter_MissingFile(t *testing.T) {
	_, err := NewImporter(gotext.NewVersionCache()).ImportFromFile(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Error("Expected error for missing file")
	}
}

type rejectingStore struct{}

func (rejectingStore) Get(gotext.VersionKey) (*gotext.Version, bool) { return nil, false }

func (rejectingStore) Set(gotext.VersionKey, *gotext.Version) error {
	return errors.New("connection refused")
}

func TestImporter_BackingStoreFailureStillImported(t *testing.T) {
	var snapshot bytes.Buffer
	if err := NewExporter(populated()).Export(&snapshot, nil); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var logs bytes.Buffer
	dst := gotext.NewVersionCache().WithBackingStore(rejectingStore{})
	result, err := NewImporter(dst).WithLogger(zerolog.New(&logs)).Import(&snapshot)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if result.Failed != 0 {
		t.Errorf("Entries held in memory should not count as failed, got %d", result.Failed)
	}
	if result.Imported != dst.Len() || dst.Len() != 3 {
		t.Errorf("Expected 3 imported and cached, got imported=%d len=%d", result.Imported, dst.Len())
	}
	if !strings.Contains(logs.String(), "cached in memory only") {
		t.Errorf("Expected a warning per rejected entry, got %q", logs.String())
	}
}
