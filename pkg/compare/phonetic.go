package compare

import (
	"github.com/Ramsey-B/fern/pkg/keys"
)

// Phonetic scores 1 when both values share a non-empty phonetic code.
type Phonetic struct {
	Encode keys.Encoder
}

func (c *Phonetic) Compare(a, b string) float64 {
	if score, done := decided(a, b, false); done {
		return score
	}

	code := c.Encode(a)
	if code != "" && code == c.Encode(b) {
		return 1
	}
	return 0
}
