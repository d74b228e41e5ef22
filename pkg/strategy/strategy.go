// Package strategy holds the named-factory registries behind comparers, key
// builders and aggregators.
package strategy

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/Ramsey-B/fern/pkg/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Factory builds a strategy from its serialized options.
type Factory[T any] func(options map[string]any) (T, error)

// Registry maps strategy names to factories.
type Registry[T any] struct {
	kind      string
	mu        sync.RWMutex
	factories map[string]Factory[T]
}

// NewRegistry creates an empty registry; kind names the strategy family in errors.
func NewRegistry[T any](kind string) *Registry[T] {
	return &Registry[T]{
		kind:      kind,
		factories: make(map[string]Factory[T]),
	}
}

// Register adds or replaces a factory. Names are case-insensitive.
func (r *Registry[T]) Register(name string, factory Factory[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[strings.ToLower(name)] = factory
}

// Has reports whether a factory is registered under name.
func (r *Registry[T]) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[strings.ToLower(name)]
	return ok
}

// Names returns the registered names in sorted order.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the named strategy.
func (r *Registry[T]) New(name string, options map[string]any) (T, error) {
	var zero T

	r.mu.RLock()
	factory, ok := r.factories[strings.ToLower(name)]
	r.mu.RUnlock()
	if !ok {
		return zero, errors.NewConfigErrorf("unknown %s (available: %s)", r.kind, strings.Join(r.Names(), ", ")).AddStrategy(name)
	}

	result, err := factory(options)
	if err != nil {
		return zero, errors.WrapConfigError(err).AddStrategy(name)
	}
	return result, nil
}

// DecodeOptions copies options into target, which should already hold the
// defaults, and validates it with its `validate` struct tags.
func DecodeOptions(options map[string]any, target any) error {
	if len(options) > 0 {
		b, err := json.Marshal(options)
		if err != nil {
			return errors.NewConfigErrorf("options are not serializable: %v", err)
		}

		decoder := json.NewDecoder(strings.NewReader(string(b)))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(target); err != nil {
			return errors.NewConfigErrorf("invalid options: %v", err)
		}
	}

	if err := validate.Struct(target); err != nil {
		return errors.NewConfigError(validationErrorToString(err))
	}
	return nil
}

func validationErrorToString(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("option '%s' failed rule '%s' (expected '%s', got '%v')", fe.Field(), fe.Tag(), fe.Param(), fe.Value()))
	}
	return strings.Join(msgs, "; ")
}

// UnknownOption reports an option value that names nothing registered.
func UnknownOption(option string, value any) *errors.ConfigError {
	return errors.NewConfigErrorf("option '%s' has unknown value '%v'", option, value)
}
