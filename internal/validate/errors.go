package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gyeh/evalcheck/internal/dataset"
	"github.com/gyeh/evalcheck/internal/metric"
)

// ErrValidation matches every error returned by this package via errors.Is.
var ErrValidation = errors.New("dataset validation failed")

// SchemaTypeError reports a present column whose type has the wrong shape.
type SchemaTypeError struct {
	Column   string
	Expected dataset.TypeDescriptor
	Actual   dataset.TypeDescriptor
}

func (e *SchemaTypeError) Error() string {
	return fmt.Sprintf("dataset feature %q should be of type %s, got %s",
		e.Column, e.Expected, e.Actual)
}

func (e *SchemaTypeError) Is(target error) bool { return target == ErrValidation }

// MissingColumnsError reports the columns a metric needs that the dataset
// does not have.
type MissingColumnsError struct {
	Metric string
	Mode   metric.Mode
	// Missing lists every absent column in required-columns order.
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("metric [%s] requires the following additional columns [%s] to be present in the dataset",
		e.Metric, strings.Join(e.Missing, ", "))
}

func (e *MissingColumnsError) Is(target error) bool { return target == ErrValidation }

// ConfigurationError reports a metric whose evaluation mode has no entry in
// the required-columns table. It signals a broken metric definition rather
// than bad data.
type ConfigurationError struct {
	Metric string
	Mode   metric.Mode
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("metric [%s] has unknown evaluation mode %q", e.Metric, e.Mode)
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrValidation }
