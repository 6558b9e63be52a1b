package gotext

import (
	"strconv"
	"strings"
)

// BookFromRef derives the key that version preferences and remembered
// defaults are filed under: everything after the first space-delimited token.
// "Genesis 1:1" → "1:1", "Shabbat 21a" → "21a", "Song of Songs 1:1" →
// "of Songs 1:1". A single-token ref ("Genesis") yields "".
//
// This is a heuristic that assumes the ref is not a whole book. Preference
// sources must use the same keys.
func BookFromRef(ref string) string {
	_, rest, ok := strings.Cut(ref, " ")
	if !ok {
		return ""
	}
	return rest
}

// VersionParam builds the text API version selector: "lang|title", "lang",
// or "base" when both are unset.
func VersionParam(language, versionTitle string) string {
	switch {
	case language == "" && versionTitle == "":
		return "base"
	case versionTitle == "":
		return language
	default:
		return language + "|" + versionTitle
	}
}

// KeyString flattens a key for stores that use string keys. Ref and language
// are length-prefixed so a "|" inside any field cannot make two keys collide:
// {Genesis 1:1, en, JPS 1985} → "11:Genesis 1:1|2:en|JPS 1985".
func KeyString(k VersionKey) string {
	var b strings.Builder
	b.Grow(len(k.Ref) + len(k.Language) + len(k.VersionTitle) + 8)
	b.WriteString(strconv.Itoa(len(k.Ref)))
	b.WriteByte(':')
	b.WriteString(k.Ref)
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(len(k.Language)))
	b.WriteByte(':')
	b.WriteString(k.Language)
	b.WriteByte('|')
	b.WriteString(k.VersionTitle)
	return b.String()
}
