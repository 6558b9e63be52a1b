package gotext

import (
	"encoding/json"
	"errors"
	"strings"
)

// Slot names one of the two content slots a reader can request for a reference.
type Slot string

const (
	// SlotSource is the original-language content of a reference.
	SlotSource Slot = "source"
	// SlotTranslation is the translated content of a reference.
	SlotTranslation Slot = "translation"
)

const (
	// LanguageSource is the language token that asks the text API for the
	// original-language version.
	LanguageSource = "source"

	// DefaultTranslationLanguage is used when no translation language preference is configured.
	DefaultTranslationLanguage = "en"
)

// VersionKey identifies a cached version: reference → language → version title.
// Keys are exact, case-sensitive strings. An empty Language or VersionTitle is
// a valid key level meaning "unset".
type VersionKey struct {
	Ref          string `json:"ref"`
	Language     string `json:"language,omitempty"`
	VersionTitle string `json:"versionTitle,omitempty"`
}

// Version is a fetched text version. The cache stores it verbatim and only
// reads the identity fields.
type Version struct {
	Ref                string          `json:"ref"`
	HeRef              string          `json:"heRef,omitempty"`
	Language           string          `json:"language"`
	VersionTitle       string          `json:"versionTitle"`
	ShortVersionTitle  string          `json:"shortVersionTitle,omitempty"`
	LanguageFamilyName string          `json:"languageFamilyName,omitempty"`
	Direction          string          `json:"direction,omitempty"`
	IsSource           bool            `json:"isSource,omitempty"`
	Text               json.RawMessage `json:"text,omitempty"`
}

// Key returns the storage key derived from the version's resolved identity.
func (v *Version) Key() VersionKey {
	return VersionKey{Ref: v.Ref, Language: v.Language, VersionTitle: v.VersionTitle}
}

// SlotSpec is an optional explicit (language, version title) choice for a slot.
// Empty fields are resolved by the manager.
type SlotSpec struct {
	Language     string
	VersionTitle string
}

// ParseSlotSpec parses "lang|title" or "lang" into a SlotSpec.
func ParseSlotSpec(s string) SlotSpec {
	lang, title, _ := strings.Cut(s, "|")
	return SlotSpec{Language: lang, VersionTitle: title}
}

// Request selects which slots to resolve. A nil slot is not requested.
type Request struct {
	Source      *SlotSpec
	Translation *SlotSpec
}

// BothSlots requests source and translation with no explicit versions.
func BothSlots() Request {
	return Request{Source: &SlotSpec{}, Translation: &SlotSpec{}}
}

// SourceOnly requests only the source slot.
func SourceOnly() Request {
	return Request{Source: &SlotSpec{}}
}

// TranslationOnly requests only the translation slot.
func TranslationOnly() Request {
	return Request{Translation: &SlotSpec{}}
}

// SlotResult is the outcome of resolving a single slot.
type SlotResult struct {
	Slot    Slot
	Key     VersionKey // Key the slot resolved to before fetching
	Version *Version   // Nil when Err is set
	Cached  bool       // Served from the cache without a fetch
	Err     error
}

// Result holds the resolved slots for one reference. Slots that were not
// requested, or could not be resolved, are nil.
type Result struct {
	Ref         string
	Book        string
	Source      *SlotResult
	Translation *SlotResult
}

// Slots returns the present slot results in source-then-translation order.
func (r *Result) Slots() []*SlotResult {
	var slots []*SlotResult
	if r.Source != nil {
		slots = append(slots, r.Source)
	}
	if r.Translation != nil {
		slots = append(slots, r.Translation)
	}
	return slots
}

// Err joins the per-slot errors. It is nil when every present slot succeeded.
func (r *Result) Err() error {
	var errs []error
	for _, s := range r.Slots() {
		if s.Err != nil {
			errs = append(errs, s.Err)
		}
	}
	return errors.Join(errs...)
}

// CachedCount returns the number of slots served from the cache.
func (r *Result) CachedCount() int {
	n := 0
	for _, s := range r.Slots() {
		if s.Cached {
			n++
		}
	}
	return n
}
