package refresh

import (
	"errors"
	"fmt"
)

var (
	ErrMultipleContent  = errors.New("can only wrap one content view")
	ErrInvalidThreshold = errors.New("final height must be positive")
	ErrInvalidDuration  = errors.New("duration must not be negative")
)

// ConfigError reports an Engine that cannot be constructed.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("refresh: invalid %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }
