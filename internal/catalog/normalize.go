// Package catalog filters, groups and ranks marketplace listings.
//
// Every function here is pure: it reads a snapshot of listings plus a
// FilterState and returns freshly allocated results. Raw category and area
// values follow the "<ordinal>.<label>" convention used by the catalogue
// spreadsheet, e.g. "3.Restaurants". The raw value is the filter key; the
// label is only for display.
package catalog

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Fallback display names for blank raw values.
const (
	FallbackCategoryName = "Other"
	FallbackLocationName = "Unknown"
)

// CategoryDisplayName derives the display label of a raw category.
func CategoryDisplayName(raw string) string {
	return displayName(raw, FallbackCategoryName)
}

// LocationDisplayName derives the display label of a raw area.
func LocationDisplayName(raw string) string {
	return displayName(raw, FallbackLocationName)
}

func displayName(raw, fallback string) string {
	text := label(raw)
	if text == "" {
		return fallback
	}
	return titleWords(text)
}

// titleWords title-cases each space-separated word: the first letter is
// upper-cased and the rest lower-cased, so "bed-and-breakfast" becomes
// "Bed-and-breakfast". Spacing is preserved.
func titleWords(text string) string {
	// Casers keep state between calls and must not be shared.
	title := cases.Title(language.Und)
	lower := cases.Lower(language.Und)

	words := strings.Split(text, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		_, size := utf8.DecodeRuneInString(w)
		words[i] = title.String(w[:size]) + lower.String(w[size:])
	}
	return strings.Join(words, " ")
}

// label strips the ordinal prefix. Without a usable second segment the whole
// input is the label.
func label(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if _, after, ok := strings.Cut(raw, "."); ok {
		if after = strings.TrimSpace(after); after != "" {
			return after
		}
	}
	return raw
}

// Slug turns a raw category into a lower-case, hyphenated path segment.
func Slug(raw string) string {
	text := strings.ToLower(label(raw))
	if text == "" {
		return "other"
	}

	var b strings.Builder
	pendingHyphen := false
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	if b.Len() == 0 {
		return "other"
	}
	return b.String()
}

// FilterValue returns the value used as a filter key. The raw value,
// ordinal prefix included, is canonical.
func FilterValue(raw string) string {
	return raw
}

// RawFromDisplayName returns the first candidate category whose display name
// equals display, ignoring case. Distinct raw values that share a display name
// are indistinguishable; iteration order decides.
func RawFromDisplayName(display string, candidates []string) string {
	return rawFromDisplay(display, candidates, CategoryDisplayName)
}

// RawLocationFromDisplayName is RawFromDisplayName for areas.
func RawLocationFromDisplayName(display string, candidates []string) string {
	return rawFromDisplay(display, candidates, LocationDisplayName)
}

func rawFromDisplay(display string, candidates []string, name func(string) string) string {
	display = strings.TrimSpace(display)
	if display == "" {
		return ""
	}
	for _, candidate := range candidates {
		if strings.TrimSpace(candidate) == "" {
			continue
		}
		if strings.EqualFold(name(candidate), display) {
			return candidate
		}
	}
	return ""
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func hasPrefixFold(s, prefix string) bool {
	return strings.HasPrefix(strings.ToLower(s), strings.ToLower(prefix))
}
