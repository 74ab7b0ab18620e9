// Package validate checks a dataset schema against the column requirements of
// evaluation metrics. Both checks are pure and fail fast on the first problem.
package validate

import (
	"github.com/gyeh/evalcheck/internal/dataset"
	"github.com/gyeh/evalcheck/internal/metric"
)

type columnRule struct {
	column string
	want   dataset.TypeDescriptor
}

// columnRules is checked in order; the first mismatch wins.
var columnRules = []columnRule{
	{metric.ColumnQuestion, dataset.Scalar(dataset.DtypeString)},
	{metric.ColumnAnswer, dataset.Scalar(dataset.DtypeString)},
	{metric.ColumnContexts, dataset.Sequence(dataset.Scalar(dataset.DtypeString))},
	{metric.ColumnGroundTruths, dataset.Sequence(dataset.Scalar(dataset.DtypeString))},
}

// ColumnTypes checks that question and answer, when present, are strings and
// that contexts and ground_truths, when present, are sequences of strings.
// Missing columns are not an error here.
func ColumnTypes(schema dataset.Schema) error {
	for _, rule := range columnRules {
		got, ok := schema.ColumnType(rule.column)
		if !ok {
			continue
		}
		if !got.Equal(rule.want) {
			return &SchemaTypeError{Column: rule.column, Expected: rule.want, Actual: got}
		}
	}
	return nil
}

// EvaluationModes checks, metric by metric, that the schema has every column
// the metric's evaluation mode requires. It stops at the first metric that
// fails and reports all of that metric's missing columns.
func EvaluationModes(schema dataset.Schema, metrics []metric.Metric) error {
	available := make(map[string]struct{})
	for _, name := range schema.ColumnNames() {
		available[name] = struct{}{}
	}

	for _, m := range metrics {
		required, ok := metric.RequiredColumns(m.Mode)
		if !ok {
			return &ConfigurationError{Metric: m.Name, Mode: m.Mode}
		}

		var missing []string
		for _, col := range required {
			if _, ok := available[col]; !ok {
				missing = append(missing, col)
			}
		}
		if len(missing) > 0 {
			return &MissingColumnsError{Metric: m.Name, Mode: m.Mode, Missing: missing}
		}
	}
	return nil
}

// Dataset runs ColumnTypes and then EvaluationModes.
func Dataset(schema dataset.Schema, metrics []metric.Metric) error {
	if err := ColumnTypes(schema); err != nil {
		return err
	}
	return EvaluationModes(schema, metrics)
}
