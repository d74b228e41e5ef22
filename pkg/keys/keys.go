// Package keys builds blocking keys from single field values.
//
// A key builder never fails: malformed or empty input yields an empty key.
// Keys are deliberately coarse so records that might match land in the same
// bucket; the comparers decide whether they actually do.
package keys

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/normalizers"
	"github.com/Ramsey-B/fern/pkg/strategy"
)

// Builder turns a field value into a blocking key.
type Builder interface {
	BuildKey(value string) string
}

// Default is the generator used when a key field names none.
const Default = "simple_text"

var registry = strategy.NewRegistry[Builder]("key generator")

// Register adds a key builder factory under name.
func Register(name string, factory strategy.Factory[Builder]) {
	registry.Register(name, factory)
}

// New builds the named key builder from its options.
func New(name string, options map[string]any) (Builder, error) {
	if name == "" {
		name = Default
	}
	return registry.New(name, options)
}

// Names lists the registered key builders.
func Names() []string {
	return registry.Names()
}

type lengthOptions struct {
	MaxLength int `json:"max_length" validate:"gte=0"`
}

type prefixOptions struct {
	Length    int `json:"length" validate:"gte=1"`
	MaxLength int `json:"max_length" validate:"gte=0"`
}

type normalizedOptions struct {
	Normalizers []string `json:"normalizers" validate:"required,min=1,dive,required"`
	MaxLength   int      `json:"max_length" validate:"gte=0"`
}

func init() {
	Register("simple_text", func(options map[string]any) (Builder, error) {
		opts := lengthOptions{}
		if err := strategy.DecodeOptions(options, &opts); err != nil {
			return nil, err
		}
		return &SimpleText{MaxLength: opts.MaxLength}, nil
	})

	Register("prefix", func(options map[string]any) (Builder, error) {
		opts := prefixOptions{Length: 3}
		if err := strategy.DecodeOptions(options, &opts); err != nil {
			return nil, err
		}
		length := opts.Length
		if opts.MaxLength > 0 && opts.MaxLength < length {
			length = opts.MaxLength
		}
		return &SimpleText{MaxLength: length}, nil
	})

	Register("normalized", func(options map[string]any) (Builder, error) {
		opts := normalizedOptions{}
		if err := strategy.DecodeOptions(options, &opts); err != nil {
			return nil, err
		}
		chain, err := normalizers.NewChain(opts.Normalizers...)
		if err != nil {
			return nil, errors.WrapConfigError(err)
		}
		return &Normalized{Chain: chain, MaxLength: opts.MaxLength}, nil
	})

	for name, encode := range phoneticEncoders {
		Register(name, phoneticFactory(encode))
	}
}

// SimpleText transliterates to ASCII, lowercases and keeps letters and digits.
type SimpleText struct {
	MaxLength int
}

func (b *SimpleText) BuildKey(value string) string {
	return Truncate(SimpleKey(value), b.MaxLength)
}

// SimpleKey is the canonical text form shared by the text and phonetic builders.
func SimpleKey(value string) string {
	value = strings.ToLower(unidecode.Unidecode(value))

	var sb strings.Builder
	sb.Grow(len(value))
	for _, r := range value {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Normalized applies a normalizer chain.
type Normalized struct {
	Chain     normalizers.Chain
	MaxLength int
}

func (b *Normalized) BuildKey(value string) string {
	return Truncate(b.Chain.Apply(value), b.MaxLength)
}

// Truncate cuts key to at most maxLength runes. maxLength <= 0 means no limit.
func Truncate(key string, maxLength int) string {
	if maxLength <= 0 {
		return key
	}

	count := 0
	for i := range key {
		if count == maxLength {
			return key[:i]
		}
		count++
	}
	return key
}
