package nn

import (
	"errors"
	"fmt"
)

// Sentinel errors. Typed errors below unwrap to these so callers can test
// with errors.Is without caring about the details.
var (
	ErrConfig = errors.New("invalid configuration")
	ErrShape  = errors.New("shape mismatch")
)

// ConfigError reports an invalid construction or call parameter.
type ConfigError struct {
	Field   string // Offending option, e.g. "Heads" or "Dropout"
	Details string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrConfig, e.Field, e.Details)
}

// Unwrap returns ErrConfig.
func (e *ConfigError) Unwrap() error {
	return ErrConfig
}

// ShapeError reports tensors whose shapes cannot be combined by an operation.
type ShapeError struct {
	Op      string // Operation that rejected the input, e.g. "SplitHeads"
	Details string
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Op, ErrShape, e.Details)
}

// Unwrap returns ErrShape.
func (e *ShapeError) Unwrap() error {
	return ErrShape
}

func configErrorf(field, format string, args ...any) error {
	return &ConfigError{Field: field, Details: fmt.Sprintf(format, args...)}
}

func shapeErrorf(op, format string, args ...any) error {
	return &ShapeError{Op: op, Details: fmt.Sprintf(format, args...)}
}
