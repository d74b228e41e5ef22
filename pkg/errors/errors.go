package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
)

// ErrInvalidConfig is the sentinel wrapped by every ConfigError.
var ErrInvalidConfig = errors.New("invalid matching configuration")

// ConfigError describes a matching profile that cannot be run.
type ConfigError struct {
	Definition string
	Field      string
	Strategy   string
	Message    string
}

func NewConfigError(msg string) *ConfigError {
	return &ConfigError{Message: msg}
}

// NewConfigErrorf creates a new ConfigError with a formatted message
func NewConfigErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{Message: fmt.Sprintf(format, args...)}
}

func WrapConfigError(e error) *ConfigError {
	if e == nil {
		return nil
	}

	var configError *ConfigError
	if errors.As(e, &configError) {
		return configError
	}

	return &ConfigError{Message: e.Error()}
}

func (e *ConfigError) Error() string {
	path := []string{}
	if e.Definition != "" {
		path = append(path, fmt.Sprintf("definition '%s'", e.Definition))
	}
	if e.Field != "" {
		path = append(path, fmt.Sprintf("field '%s'", e.Field))
	}
	if e.Strategy != "" {
		path = append(path, fmt.Sprintf("strategy '%s'", e.Strategy))
	}

	if len(path) == 0 {
		return e.Message
	}

	return strings.Join(path, " -> ") + ": " + e.Message
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

func (e *ConfigError) AddDefinition(name string) *ConfigError {
	e.Definition = name
	return e
}

func (e *ConfigError) AddField(field string) *ConfigError {
	e.Field = field
	return e
}

func (e *ConfigError) AddStrategy(strategy string) *ConfigError {
	e.Strategy = strategy
	return e
}

func (e *ConfigError) ToHTTPError() *httperror.HTTPError {
	return httperror.NewHTTPError(http.StatusBadRequest, e.Error()).AddMetaValue("definition", e.Definition).AddMetaValue("field", e.Field).AddMetaValue("strategy", e.Strategy)
}

// IsConfigError reports whether err is, or wraps, a configuration error.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}

// ConfigErrors collects every validation failure of a profile so callers
// see them all at once.
type ConfigErrors []*ConfigError

func (e ConfigErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return "invalid matching configuration:\n • " + strings.Join(msgs, "\n • ")
}

func (e ConfigErrors) Unwrap() []error {
	errs := make([]error, 0, len(e)+1)
	errs = append(errs, ErrInvalidConfig)
	for _, err := range e {
		errs = append(errs, err)
	}
	return errs
}

// ErrOrNil returns nil when no failures were collected.
func (e ConfigErrors) ErrOrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e ConfigErrors) ToHTTPError() *httperror.HTTPError {
	return httperror.NewHTTPError(http.StatusBadRequest, e.Error()).AddMetaValue("error_count", strconv.Itoa(len(e)))
}
