// Package tokenize splits strings into tokens for set-based similarity measures.
package tokenize

import (
	"errors"
	"strings"
	"unicode"
)

// Sentinel pads n-grams so the first and last characters get a token of
// their own. It is a private-use rune so it never collides with text.
const Sentinel = '\uE000'

// DefaultNGramLength is the n-gram length used when none is configured.
const DefaultNGramLength = 2

var ErrInvalidLength = errors.New("n-gram length must be at least 1")

// Tokenizer splits a string into an ordered sequence of tokens.
type Tokenizer interface {
	Tokenize(value string) []string
}

// NGram produces fixed-length rune n-grams over the value padded with one
// Sentinel at each end. "ab" with length 2 yields "\uE000a", "ab", "b\uE000".
type NGram struct {
	length int
}

// NewNGram creates an n-gram tokenizer.
func NewNGram(length int) (*NGram, error) {
	if length < 1 {
		return nil, ErrInvalidLength
	}
	return &NGram{length: length}, nil
}

func (t *NGram) Tokenize(value string) []string {
	if value == "" {
		return nil
	}

	runes := []rune(value)
	if t.length == 1 {
		tokens := make([]string, len(runes))
		for i, r := range runes {
			tokens[i] = string(r)
		}
		return tokens
	}

	padded := make([]rune, 0, len(runes)+2)
	padded = append(padded, Sentinel)
	padded = append(padded, runes...)
	padded = append(padded, Sentinel)

	// shorter than a single window: only the boundary token remains
	if len(padded) <= t.length {
		return []string{string(padded)}
	}

	tokens := make([]string, 0, len(padded)-t.length+1)
	for i := 0; i+t.length <= len(padded); i++ {
		tokens = append(tokens, string(padded[i:i+t.length]))
	}
	return tokens
}

// Words splits on whitespace and punctuation. Set-based comparers use it
// for multi-word values where word order varies.
type Words struct{}

func (Words) Tokenize(value string) []string {
	return strings.FieldsFunc(value, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
}

// Set returns the distinct tokens.
func Set(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		set[token] = struct{}{}
	}
	return set
}

// Overlap returns the intersection and union sizes of two token sets.
func Overlap(a, b map[string]struct{}) (intersection, union int) {
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	for token := range small {
		if _, ok := large[token]; ok {
			intersection++
		}
	}
	return intersection, len(a) + len(b) - intersection
}
