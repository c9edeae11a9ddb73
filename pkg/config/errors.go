package config

import "fmt"

// ErrInvalidConfig is returned when a configuration value is out of range
type ErrInvalidConfig struct {
	Field  string
	Reason string
}

func (e *ErrInvalidConfig) Error() string {
	return fmt.Sprintf("invalid config '%s': %s", e.Field, e.Reason)
}

// NewErrInvalidConfig creates a new ErrInvalidConfig
func NewErrInvalidConfig(field, reason string) *ErrInvalidConfig {
	return &ErrInvalidConfig{
		Field:  field,
		Reason: reason,
	}
}
