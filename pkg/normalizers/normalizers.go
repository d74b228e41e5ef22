// Package normalizers provides named string normalizations that key
// builders chain before building a blocking key.
package normalizers

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalizer rewrites a value into a canonical form.
type Normalizer func(string) string

var ErrUnknownNormalizer = errors.New("unknown normalizer")

var (
	mu       sync.RWMutex
	registry = map[string]Normalizer{
		"lowercase":           strings.ToLower,
		"uppercase":           strings.ToUpper,
		"trim":                strings.TrimSpace,
		"nphone":              DigitsOnly,
		"nemail":              NormalizeEmail,
		"remove_whitespace":   RemoveWhitespace,
		"remove_punctuation":  RemovePunctuation,
		"nname":               NormalizeName,
		"naddress":            NormalizeAddress,
		"digits_only":         DigitsOnly,
		"alphanumeric":        Alphanumeric,
		"fold_diacritics":     FoldDiacritics,
		"transliterate":       unidecode.Unidecode,
		"collapse_whitespace": CollapseWhitespace,
	}
)

// Register adds or replaces a named normalizer.
func Register(name string, fn Normalizer) {
	mu.Lock()
	defer mu.Unlock()
	registry[name] = fn
}

func Get(name string) (Normalizer, bool) {
	mu.RLock()
	defer mu.RUnlock()
	fn, ok := registry[name]
	return fn, ok
}

// Names returns the registered names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply runs the named normalizer. Unknown names leave the value unchanged.
func Apply(value, name string) string {
	if fn, ok := Get(name); ok {
		return fn(value)
	}
	return value
}

// ApplyChain runs the named normalizers in order.
func ApplyChain(value string, names ...string) string {
	for _, name := range names {
		value = Apply(value, name)
	}
	return value
}

// Chain is a resolved sequence of normalizers.
type Chain []Normalizer

// NewChain resolves names once, so a chain used in a hot loop does not
// touch the registry.
func NewChain(names ...string) (Chain, error) {
	chain := make(Chain, 0, len(names))
	for _, name := range names {
		fn, ok := Get(name)
		if !ok {
			return nil, fmt.Errorf("%w '%s'", ErrUnknownNormalizer, name)
		}
		chain = append(chain, fn)
	}
	return chain, nil
}

func (c Chain) Apply(value string) string {
	for _, fn := range c {
		value = fn(value)
	}
	return value
}

func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func RemoveWhitespace(s string) string {
	return keep(s, func(r rune) bool { return !unicode.IsSpace(r) })
}

func RemovePunctuation(s string) string {
	return keep(s, func(r rune) bool { return !unicode.IsPunct(r) })
}

// CollapseWhitespace joins the words of s with single spaces.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func DigitsOnly(s string) string {
	return keep(s, unicode.IsDigit)
}

func Alphanumeric(s string) string {
	return keep(s, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) })
}

// FoldDiacritics strips combining marks, so "Müller" becomes "Muller".
func FoldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

var nameSuffixes = map[string]bool{
	"jr": true, "sr": true, "ii": true, "iii": true, "iv": true,
	"phd": true, "md": true, "dds": true,
}

// NormalizeName lowercases a person's name, drops punctuation and trailing
// generational or academic suffixes ("John Smith, Jr." becomes "john smith").
func NormalizeName(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i := range words {
		words[i] = keep(words[i], func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) })
	}
	for len(words) > 1 && (words[len(words)-1] == "" || nameSuffixes[words[len(words)-1]]) {
		words = words[:len(words)-1]
	}
	return CollapseWhitespace(strings.Join(words, " "))
}

var addressAbbreviations = map[string]string{
	"street":    "st",
	"avenue":    "ave",
	"boulevard": "blvd",
	"drive":     "dr",
	"road":      "rd",
	"lane":      "ln",
	"court":     "ct",
	"circle":    "cir",
	"place":     "pl",
	"apartment": "apt",
	"suite":     "ste",
}

// NormalizeAddress lowercases an address and abbreviates street types.
// German street names ending in "strasse" or "straße" end in "str".
func NormalizeAddress(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, word := range words {
		if abbr, ok := addressAbbreviations[word]; ok {
			words[i] = abbr
			continue
		}
		for _, suffix := range []string{"strasse", "straße"} {
			if strings.HasSuffix(word, suffix) {
				words[i] = strings.TrimSuffix(word, suffix) + "str"
			}
		}
	}
	return strings.Join(words, " ")
}

func keep(s string, pred func(rune) bool) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if pred(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
