package gotext

import "strings"

// LanguageNames maps the text API's language codes to display names.
var LanguageNames = map[string]string{
	"he":  "Hebrew",
	"arc": "Aramaic",
	"en":  "English",
	"ar":  "Arabic",
	"de":  "German",
	"eo":  "Esperanto",
	"es":  "Spanish",
	"fa":  "Persian",
	"fi":  "Finnish",
	"fr":  "French",
	"it":  "Italian",
	"lad": "Ladino",
	"pl":  "Polish",
	"pt":  "Portuguese",
	"ru":  "Russian",
	"uk":  "Ukrainian",
	"yi":  "Yiddish",
	"zh":  "Chinese",
}

// RTLLanguages contains language codes that use right-to-left text direction.
var RTLLanguages = map[string]bool{
	"he":  true, // Hebrew
	"arc": true, // Aramaic
	"ar":  true, // Arabic
	"fa":  true, // Persian
	"yi":  true, // Yiddish
	"lad": true, // Ladino (Hebrew script editions)
	"ur":  true, // Urdu
}

// GetLanguageName returns the display name for a language code.
// Falls back to the code itself if not found.
func GetLanguageName(langCode string) string {
	if name, ok := LanguageNames[baseLang(langCode)]; ok {
		return name
	}
	return langCode
}

// GetDirection returns "rtl" for right-to-left languages, "ltr" otherwise.
func GetDirection(langCode string) string {
	if RTLLanguages[baseLang(langCode)] {
		return "rtl"
	}
	return "ltr"
}

// IsRTL returns true if the language uses right-to-left text direction.
func IsRTL(langCode string) bool {
	return GetDirection(langCode) == "rtl"
}

// Dir returns the version's text direction, preferring what the text API reported.
func (v *Version) Dir() string {
	if v.Direction != "" {
		return v.Direction
	}
	return GetDirection(v.Language)
}

// baseLang extracts the base language code for display lookups ("en" from "en-US").
// Cache keys are never normalized.
func baseLang(lang string) string {
	lang = strings.ReplaceAll(lang, "_", "-")
	base, _, _ := strings.Cut(lang, "-")
	return strings.ToLower(base)
}
