// mkfixture writes a small evaluation dataset for exercising evalcheck.
// The column set follows an evaluation mode; optional flags inject type
// defects.
// Usage: go run ./cmd/mkfixture --out testdata/eval-qac.parquet --mode qac --rows 50
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	goparquet "github.com/parquet-go/parquet-go"

	"github.com/gyeh/evalcheck/internal/metric"
)

type sample struct {
	question     string
	answer       string
	contexts     []string
	groundTruths []string
}

var corpus = []sample{
	{
		question:     "What is the capital of France?",
		answer:       "Paris is the capital of France.",
		contexts:     []string{"Paris is the capital and most populous city of France."},
		groundTruths: []string{"Paris"},
	},
	{
		question:     "Who wrote On the Origin of Species?",
		answer:       "Charles Darwin wrote it.",
		contexts:     []string{"On the Origin of Species is a work by Charles Darwin.", "It was published in 1859."},
		groundTruths: []string{"Charles Darwin"},
	},
	{
		question:     "What is the boiling point of water at sea level?",
		answer:       "100 degrees Celsius.",
		contexts:     []string{"At standard atmospheric pressure water boils at 100 °C."},
		groundTruths: []string{"100 °C", "212 °F"},
	},
}

func main() {
	out := flag.String("out", "testdata/eval.parquet", "output file (.parquet or .jsonl)")
	mode := flag.String("mode", "all", "column layout: qac, qa, qc, gc or all")
	rows := flag.Int("rows", 20, "rows to write")
	intAnswer := flag.Bool("int-answer", false, "write answer as int64")
	flatContexts := flag.Bool("flat-contexts", false, "write contexts as a single string")
	flag.Parse()

	columns, err := layout(*mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	opts := defects{intAnswer: *intAnswer, flatContexts: *flatContexts}

	switch strings.ToLower(filepath.Ext(*out)) {
	case ".parquet":
		err = writeParquet(*out, columns, *rows, opts)
	case ".jsonl", ".ndjson":
		err = writeJSONL(*out, columns, *rows, opts)
	default:
		err = fmt.Errorf("unsupported output extension %q", filepath.Ext(*out))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d rows to %s\n", *rows, *out)
	fmt.Printf("Columns: %s\n", strings.Join(columns, ", "))
}

type defects struct {
	intAnswer    bool
	flatContexts bool
}

func layout(mode string) ([]string, error) {
	if mode == "all" {
		return []string{metric.ColumnQuestion, metric.ColumnAnswer, metric.ColumnContexts, metric.ColumnGroundTruths}, nil
	}
	m, err := metric.ParseMode(mode)
	if err != nil {
		return nil, err
	}
	cols, _ := metric.RequiredColumns(m)
	return cols, nil
}

// value returns the cell for column in row i.
func value(column string, i int, d defects) any {
	s := corpus[i%len(corpus)]
	switch column {
	case metric.ColumnQuestion:
		return s.question
	case metric.ColumnAnswer:
		if d.intAnswer {
			return int64(len(s.answer))
		}
		return s.answer
	case metric.ColumnContexts:
		if d.flatContexts {
			return strings.Join(s.contexts, "\n")
		}
		return s.contexts
	case metric.ColumnGroundTruths:
		return s.groundTruths
	}
	return nil
}

// rowType builds a struct type with one parquet-tagged field per column so
// the column set can vary at runtime.
func rowType(columns []string, d defects) reflect.Type {
	fields := make([]reflect.StructField, len(columns))
	for i, col := range columns {
		fields[i] = reflect.StructField{
			Name: fmt.Sprintf("F%d", i),
			Type: reflect.TypeOf(value(col, 0, d)),
			Tag:  reflect.StructTag(fmt.Sprintf(`parquet:"%s"`, col)),
		}
	}
	return reflect.StructOf(fields)
}

func writeParquet(path string, columns []string, n int, d defects) error {
	typ := rowType(columns, d)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	w := goparquet.NewWriter(f, goparquet.SchemaOf(reflect.New(typ).Interface()))
	for i := 0; i < n; i++ {
		row := reflect.New(typ).Elem()
		for j, col := range columns {
			row.Field(j).Set(reflect.ValueOf(value(col, i, d)))
		}
		if err := w.Write(row.Interface()); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close writer: %w", err)
	}
	return f.Close()
}

func writeJSONL(path string, columns []string, n int, d defects) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for i := 0; i < n; i++ {
		rec := make(map[string]any, len(columns))
		for _, col := range columns {
			rec[col] = value(col, i, d)
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode row %d: %w", i, err)
		}
	}
	return f.Close()
}
