package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ZaguanLabs/gotext"
	"github.com/rs/zerolog"
)

// FormatVersion is the snapshot format version written by Export.
const FormatVersion = "1.0"

// ExportFormat represents the JSON structure for cache export/import.
type ExportFormat struct {
	Version    string                       `json:"version"`
	ExportedAt string                       `json:"exported_at"`
	Entries    []gotext.Entry               `json:"entries"`
	Defaults   map[string]map[string]string `json:"defaults,omitempty"`
	Metadata   map[string]string            `json:"metadata,omitempty"`
}

// Exporter provides cache export functionality.
type Exporter struct {
	cache *gotext.VersionCache
}

// NewExporter creates a new cache exporter.
func NewExporter(cache *gotext.VersionCache) *Exporter {
	return &Exporter{cache: cache}
}

// Export writes the cache contents and default preferences to a writer in JSON format.
func (e *Exporter) Export(w io.Writer, metadata map[string]string) error {
	export := ExportFormat{
		Version:    FormatVersion,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Entries:    e.cache.Entries(),
		Defaults:   e.cache.Defaults(),
		Metadata:   metadata,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(export); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}

	return nil
}

// ExportToFile exports the cache to a file.
// The path is provided by the caller and is intentionally user-controlled.
func (e *Exporter) ExportToFile(path string, metadata map[string]string) error {
	f, err := os.Create(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}

	if err := e.Export(f, metadata); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Importer loads a snapshot into a cache.
type Importer struct {
	cache  *gotext.VersionCache
	logger zerolog.Logger
}

// NewImporter creates a new cache importer.
func NewImporter(cache *gotext.VersionCache) *Importer {
	return &Importer{cache: cache, logger: zerolog.Nop()}
}

// WithLogger sets the logger used for entries the backing store rejected.
func (i *Importer) WithLogger(logger zerolog.Logger) *Importer {
	i.logger = logger
	return i
}

// Import reads a snapshot and loads its entries and defaults into the cache.
// Entries that cannot be stored are counted as failed and skipped. An entry
// the backing store rejects is still held in memory, so it counts as imported.
func (i *Importer) Import(r io.Reader) (*ImportResult, error) {
	var export ExportFormat
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}

	if export.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported snapshot version %q", export.Version)
	}

	result := &ImportResult{
		Version:  export.Version,
		Metadata: export.Metadata,
	}

	for _, entry := range export.Entries {
		if err := i.cache.Put(entry.Key, entry.Version); err != nil {
			var cacheErr *gotext.CacheError
			if !errors.As(err, &cacheErr) {
				result.Failed++
				continue
			}
			i.logger.Warn().Err(err).Str("ref", entry.Key.Ref).Msg("snapshot entry cached in memory only")
		}
		result.Imported++
	}

	for book, langs := range export.Defaults {
		for lang, title := range langs {
			if _, ok := i.cache.DefaultVersion(book, lang); !ok {
				i.cache.SetDefaultVersion(book, lang, title)
				result.Defaults++
			}
		}
	}

	return result, nil
}

// ImportFromFile imports cache entries from a file.
// The path is provided by the caller and is intentionally user-controlled.
func (i *Importer) ImportFromFile(path string) (*ImportResult, error) {
	f, err := os.Open(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return i.Import(f)
}

// ImportResult contains statistics about the import operation.
type ImportResult struct {
	Version  string
	Metadata map[string]string
	Imported int
	Failed   int
	Defaults int // Default preferences added
}
