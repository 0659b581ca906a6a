package targets

import (
	"errors"
	"fmt"
)

// ErrNoResolver is returned by FromQuery when no resolver is configured.
var ErrNoResolver = errors.New("no query resolver configured")

// QueryError is returned when a query cannot be resolved.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("resolve targets query %q: %v", e.Query, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// ConfigError is returned when a structured targets config cannot be converted.
// Key is the offending engine key.
type ConfigError struct {
	Key   string
	Value any
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("invalid targets config: %v", e.Err)
	}
	return fmt.Sprintf("invalid targets config: %s: %v", e.Key, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }
