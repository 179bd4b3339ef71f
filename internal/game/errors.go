package game

import (
	"errors"
	"fmt"
)

var (
	ErrGameNotRunning = errors.New("game not started")
	ErrGameFinished   = errors.New("game already finished")
	ErrCardNotHeld    = errors.New("card not in hand")
	ErrAllyNotHeld    = errors.New("allied card not held")
	ErrInvalidAction  = errors.New("invalid action")
	ErrTargetRequired = errors.New("action requires a target")
	ErrInvalidTarget  = errors.New("invalid target")
)

// ConfigurationError reports a round configured with out-of-range values.
type ConfigurationError struct {
	Field  string
	Value  int
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s=%d: %s", e.Field, e.Value, e.Reason)
}

// IsConfigurationError reports whether err is, or wraps, a ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}
