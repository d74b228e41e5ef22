package compare

import (
	"github.com/Ramsey-B/fern/pkg/keys"
	"github.com/Ramsey-B/fern/pkg/strategy"
	"github.com/Ramsey-B/fern/pkg/tokenize"
)

type textOptions struct {
	CaseSensitive bool `json:"case_sensitive"`
}

type ngramOptions struct {
	NGramLength   int  `json:"ngram_length" validate:"gte=1"`
	CaseSensitive bool `json:"case_sensitive"`
}

// setOptions configure the set-based comparers. tokenizer "words" compares
// word sets instead of n-gram sets.
type setOptions struct {
	ngramOptions
	Tokenizer string `json:"tokenizer" validate:"oneof=ngram words"`
}

func (o setOptions) tokenizer() (tokenize.Tokenizer, error) {
	if o.Tokenizer == "words" {
		return tokenize.Words{}, nil
	}
	return tokenize.NewNGram(o.NGramLength)
}

func defaultSetOptions() setOptions {
	return setOptions{
		ngramOptions: ngramOptions{NGramLength: tokenize.DefaultNGramLength},
		Tokenizer:    "ngram",
	}
}

type alignmentOptions struct {
	CaseSensitive bool    `json:"case_sensitive"`
	GapPenalty    float64 `json:"gap_penalty" validate:"lte=0"`
}

type phoneticOptions struct {
	Encoder string `json:"encoder" validate:"required"`
}

type numericOptions struct {
	MaxDiff float64 `json:"max_diff" validate:"gt=0"`
}

type dateOptions struct {
	MaxDays float64 `json:"max_days" validate:"gt=0"`
}

func init() {
	Register("jaccard", func(options map[string]any) (Comparer, error) {
		opts := defaultSetOptions()
		if err := strategy.DecodeOptions(options, &opts); err != nil {
			return nil, err
		}
		tokenizer, err := opts.tokenizer()
		if err != nil {
			return nil, err
		}
		return &Jaccard{CaseSensitive: opts.CaseSensitive, Tokenizer: tokenizer}, nil
	})

	Register("dice", func(options map[string]any) (Comparer, error) {
		opts := defaultSetOptions()
		if err := strategy.DecodeOptions(options, &opts); err != nil {
			return nil, err
		}
		tokenizer, err := opts.tokenizer()
		if err != nil {
			return nil, err
		}
		return &Dice{CaseSensitive: opts.CaseSensitive, Tokenizer: tokenizer}, nil
	})

	Register("overlap", func(options map[string]any) (Comparer, error) {
		opts := ngramOptions{NGramLength: tokenize.DefaultNGramLength}
		if err := strategy.DecodeOptions(options, &opts); err != nil {
			return nil, err
		}
		return NewOverlap(opts.NGramLength, opts.CaseSensitive), nil
	})

	registerText("levenshtein", func(opts textOptions) Comparer {
		return &Levenshtein{CaseSensitive: opts.CaseSensitive}
	})
	registerText("damerau_levenshtein", func(opts textOptions) Comparer {
		return &DamerauLevenshtein{CaseSensitive: opts.CaseSensitive}
	})
	registerText("hamming", func(opts textOptions) Comparer {
		return NewHamming(opts.CaseSensitive)
	})
	registerText("jaro", func(opts textOptions) Comparer {
		return NewJaro(opts.CaseSensitive)
	})
	registerText("jaro_winkler", func(opts textOptions) Comparer {
		return NewJaroWinkler(opts.CaseSensitive)
	})
	registerText("exact", func(opts textOptions) Comparer {
		return &Exact{CaseSensitive: opts.CaseSensitive}
	})

	Register("smith_waterman_gotoh", func(options map[string]any) (Comparer, error) {
		opts := alignmentOptions{GapPenalty: -0.5}
		if err := strategy.DecodeOptions(options, &opts); err != nil {
			return nil, err
		}
		return NewSmithWatermanGotoh(opts.CaseSensitive, opts.GapPenalty), nil
	})

	Register("phonetic", func(options map[string]any) (Comparer, error) {
		opts := phoneticOptions{Encoder: "soundex"}
		if err := strategy.DecodeOptions(options, &opts); err != nil {
			return nil, err
		}
		encode, ok := keys.PhoneticEncoder(opts.Encoder)
		if !ok {
			return nil, strategy.UnknownOption("encoder", opts.Encoder)
		}
		return &Phonetic{Encode: encode}, nil
	})

	Register("numeric", func(options map[string]any) (Comparer, error) {
		opts := numericOptions{MaxDiff: 1}
		if err := strategy.DecodeOptions(options, &opts); err != nil {
			return nil, err
		}
		return &NumericProximity{MaxDiff: opts.MaxDiff}, nil
	})

	Register("date", func(options map[string]any) (Comparer, error) {
		opts := dateOptions{MaxDays: 365}
		if err := strategy.DecodeOptions(options, &opts); err != nil {
			return nil, err
		}
		return &DateProximity{MaxDays: opts.MaxDays}, nil
	})
}

func registerText(name string, build func(opts textOptions) Comparer) {
	Register(name, func(options map[string]any) (Comparer, error) {
		opts := textOptions{}
		if err := strategy.DecodeOptions(options, &opts); err != nil {
			return nil, err
		}
		return build(opts), nil
	})
}
