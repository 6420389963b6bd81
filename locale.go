package fakevalues

import (
	"strings"

	"golang.org/x/text/language"
)

// legacyLanguages maps superseded ISO 639 codes to their current form. Add
// new codes here; the legacy form never reaches resource lookup.
var legacyLanguages = map[string]string{
	"iw": "he",
	"in": "id",
	"ji": "yi",
	"jw": "jv",
	"mo": "ro",
}

// normalizeLocale turns "en_US" style input into BCP 47 form without
// remapping legacy codes.
func normalizeLocale(locale string) string {
	raw := strings.TrimSpace(strings.ReplaceAll(locale, "_", "-"))
	if raw == "" {
		return ""
	}
	tag, err := language.Raw.Parse(raw)
	if err != nil {
		return strings.ToLower(raw)
	}
	return tag.String()
}

// remapLegacy replaces a superseded language subtag with its modern code.
func remapLegacy(locale string) string {
	base, rest, _ := strings.Cut(locale, "-")
	modern, ok := legacyLanguages[strings.ToLower(base)]
	if !ok {
		return locale
	}
	if rest == "" {
		return modern
	}
	return modern + "-" + rest
}

// localeChain returns the lookup fragments for locale, most specific first:
// "zh-Hant-TW" yields [zh-Hant-TW zh-Hant zh]. The result is never empty for
// a non-empty locale and never contains a legacy code.
func localeChain(locale string) []string {
	normalized := normalizeLocale(remapLegacy(normalizeLocale(locale)))
	if normalized == "" {
		return nil
	}
	parts := strings.Split(normalized, "-")
	chain := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for i := len(parts); i > 0; i-- {
		fragment := strings.Join(parts[:i], "-")
		if _, ok := seen[fragment]; ok {
			continue
		}
		seen[fragment] = struct{}{}
		chain = append(chain, fragment)
	}
	return chain
}
