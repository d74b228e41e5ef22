package models

// StrategySpec selects a registered comparer, key generator or aggregator
// by name together with its options.
type StrategySpec struct {
	Type    string         `json:"type" yaml:"type"`
	Options map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
}

func Strategy(name string) StrategySpec {
	return StrategySpec{Type: name}
}

// WithOption returns a copy of s with key set to value.
func (s StrategySpec) WithOption(key string, value any) StrategySpec {
	options := make(map[string]any, len(s.Options)+1)
	for k, v := range s.Options {
		options[k] = v
	}
	options[key] = value
	s.Options = options
	return s
}

func (s StrategySpec) orDefault(name string) StrategySpec {
	if s.Type == "" {
		s.Type = name
	}
	return s
}
