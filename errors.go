package fieldacc

import (
	"errors"
	"fmt"

	"github.com/hupe1980/fieldacc/internal/mem"
	"github.com/hupe1980/fieldacc/internal/partition"
	"github.com/hupe1980/fieldacc/internal/pipeline"
	"github.com/hupe1980/fieldacc/resource"
)

var (
	// ErrTooManyReplicas is returned when an array has more than MaxReplicas replicas.
	ErrTooManyReplicas = errors.New("replica count exceeds supported maximum")

	// ErrInvalidConfig is returned for malformed array geometry or options.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrMemoryLimitExceeded is returned when pipeline scratch buffers do not
	// fit the resource controller's memory budget.
	ErrMemoryLimitExceeded = resource.ErrMemoryLimitExceeded
)

// ConfigError describes a rejected configuration value.
//
// errors.Is reports ErrTooManyReplicas or ErrInvalidConfig depending on the
// violated constraint.
type ConfigError struct {
	Field string
	Value int
	// Limit is the bound Value violated, if any.
	Limit int
	kind  error
	cause error
}

func (e *ConfigError) Error() string {
	if e.kind == ErrTooManyReplicas {
		return fmt.Sprintf("%s: %s=%d exceeds %d", e.kind, e.Field, e.Value, e.Limit)
	}
	return fmt.Sprintf("%s: %s=%d", e.kind, e.Field, e.Value)
}

// Unwrap returns the sentinel and the underlying error, if any.
func (e *ConfigError) Unwrap() []error {
	if e.cause != nil {
		return []error{e.kind, e.cause}
	}
	return []error{e.kind}
}

func invalid(field string, value int) *ConfigError {
	return &ConfigError{Field: field, Value: value, kind: ErrInvalidConfig}
}

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var ce *ConfigError
	if errors.As(err, &ce) {
		return err
	}

	if errors.Is(err, pipeline.ErrTooManyReplicas) {
		return fmt.Errorf("%w: %w", ErrTooManyReplicas, err)
	}
	if errors.Is(err, pipeline.ErrInvalidConfig) || errors.Is(err, partition.ErrInvalidArgument) {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return err
}

func validateAlignment(align int) error {
	if err := mem.ValidateAlignment(align); err != nil {
		return &ConfigError{Field: "Alignment", Value: align, kind: ErrInvalidConfig, cause: err}
	}
	return nil
}
