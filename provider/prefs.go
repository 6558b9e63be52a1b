package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// StaticPreferences is a map-backed PreferenceSource: book → language → version title.
type StaticPreferences map[string]map[string]string

// VersionPref returns the preferred titles for book. Unknown books return an empty map.
func (p StaticPreferences) VersionPref(ctx context.Context, book string) (map[string]string, error) {
	prefs, ok := p[book]
	if !ok {
		return map[string]string{}, nil
	}
	out := make(map[string]string, len(prefs))
	for lang, title := range prefs {
		out[lang] = title
	}
	return out, nil
}

// LoadPreferences reads a JSON object of book → language → version title.
// The path is provided by the caller and is intentionally user-controlled.
func LoadPreferences(path string) (StaticPreferences, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return nil, fmt.Errorf("reading preferences: %w", err)
	}

	var prefs StaticPreferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		return nil, fmt.Errorf("decoding preferences: %w", err)
	}
	return prefs, nil
}

// Verify StaticPreferences implements PreferenceSource
var _ PreferenceSource = StaticPreferences(nil)
