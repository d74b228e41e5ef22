package keys

import (
	"strings"

	"github.com/antzucaro/matchr"
	"github.com/mozillazg/go-unidecode"

	"github.com/Ramsey-B/fern/pkg/strategy"
)

// Encoder maps a name to its phonetic code.
type Encoder func(value string) string

var phoneticEncoders = map[string]Encoder{
	"soundex":   Soundex,
	"metaphone": Metaphone,
	"nysiis":    NYSIIS,
	"phonex":    Phonex,
	"cologne":   Cologne,
}

// PhoneticEncoder returns the encoder registered under name.
func PhoneticEncoder(name string) (Encoder, bool) {
	encode, ok := phoneticEncoders[strings.ToLower(name)]
	return encode, ok
}

// Phonetic builds keys from a phonetic code of the value.
type Phonetic struct {
	Encode    Encoder
	MaxLength int
}

func (b *Phonetic) BuildKey(value string) string {
	return Truncate(b.Encode(value), b.MaxLength)
}

func phoneticFactory(encode Encoder) strategy.Factory[Builder] {
	return func(options map[string]any) (Builder, error) {
		opts := lengthOptions{}
		if err := strategy.DecodeOptions(options, &opts); err != nil {
			return nil, err
		}
		return &Phonetic{Encode: encode, MaxLength: opts.MaxLength}, nil
	}
}

// letters returns the upper-cased ASCII letters of value after transliteration.
func letters(value string) string {
	value = strings.ToUpper(unidecode.Unidecode(value))

	var sb strings.Builder
	sb.Grow(len(value))
	for _, r := range value {
		if r >= 'A' && r <= 'Z' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func Soundex(value string) string {
	return matchr.Soundex(letters(value))
}

// Metaphone returns the primary Double Metaphone code.
func Metaphone(value string) string {
	primary, _ := matchr.DoubleMetaphone(letters(value))
	return primary
}

func NYSIIS(value string) string {
	return matchr.NYSIIS(letters(value))
}

func Phonex(value string) string {
	s := letters(value)
	if s == "" {
		return ""
	}
	return matchr.Phonex(s)
}

// Cologne implements the Kölner Phonetik, which suits German surnames
// better than Soundex: "Meier", "Mayer" and "Meyer" all encode to "67".
func Cologne(value string) string {
	s := letters(value)
	if s == "" {
		return ""
	}

	raw := make([]byte, 0, len(s)*2)
	for i := 0; i < len(s); i++ {
		var prev, next byte
		if i > 0 {
			prev = s[i-1]
		}
		if i+1 < len(s) {
			next = s[i+1]
		}
		raw = append(raw, cologneCode(s[i], prev, next, i == 0)...)
	}

	code := make([]byte, 0, len(raw))
	for i, c := range raw {
		if i > 0 && raw[i-1] == c {
			continue
		}
		if c == '0' && len(code) > 0 {
			continue
		}
		code = append(code, c)
	}
	return string(code)
}

func cologneCode(c, prev, next byte, first bool) string {
	switch c {
	case 'A', 'E', 'I', 'J', 'O', 'U', 'Y':
		return "0"
	case 'H':
		return ""
	case 'B':
		return "1"
	case 'P':
		if next == 'H' {
			return "3"
		}
		return "1"
	case 'D', 'T':
		if strings.IndexByte("CSZ", next) >= 0 {
			return "8"
		}
		return "2"
	case 'F', 'V', 'W':
		return "3"
	case 'G', 'K', 'Q':
		return "4"
	case 'C':
		if first {
			if strings.IndexByte("AHKLOQRUX", next) >= 0 {
				return "4"
			}
			return "8"
		}
		if strings.IndexByte("SZ", prev) >= 0 {
			return "8"
		}
		if strings.IndexByte("AHKOQUX", next) >= 0 {
			return "4"
		}
		return "8"
	case 'X':
		if strings.IndexByte("CKQ", prev) >= 0 {
			return "8"
		}
		return "48"
	case 'L':
		return "5"
	case 'M', 'N':
		return "6"
	case 'R':
		return "7"
	case 'S', 'Z':
		return "8"
	}
	return ""
}
