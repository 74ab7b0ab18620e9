package dataset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ErrNoRecords is returned when a JSON Lines file holds no records to infer
// a schema from.
var ErrNoRecords = errors.New("no records")

// ErrNotObject is returned for a record that is not a JSON object.
var ErrNotObject = errors.New("record is not a JSON object")

const maxJSONLLine = 16 << 20

// ReadJSONL infers a schema from the records of a JSON Lines file and counts
// the non-blank lines. Records are decoded until every column seen so far
// has a non-null type; the remaining lines are only counted.
func ReadJSONL(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open jsonl file: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxJSONLLine)

	var (
		inf     = newInference()
		numRows int64
		lineNum int
	)
	for sc.Scan() {
		lineNum++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		numRows++
		if inf.done() {
			continue
		}
		rec, err := decodeRecord(line)
		if err != nil {
			return nil, fmt.Errorf("jsonl line %d: %w", lineNum, err)
		}
		inf.add(rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read jsonl: %w", err)
	}
	if numRows == 0 {
		return nil, fmt.Errorf("jsonl %s: %w", filepath.Base(path), ErrNoRecords)
	}

	sha, err := FileHash(path)
	if err != nil {
		return nil, err
	}

	return &Dataset{
		Name:    filepath.Base(path),
		Format:  FormatJSONL,
		Columns: inf.columns(),
		NumRows: numRows,
		SHA256:  sha,
	}, nil
}

func decodeRecord(line []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	rec, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %s", ErrNotObject, jsonKind(v))
	}
	return rec, nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "bool"
	case json.Number:
		return "number"
	}
	return fmt.Sprintf("%T", v)
}

// inference accumulates per-column types across records.
type inference struct {
	types map[string]TypeDescriptor
}

func newInference() *inference {
	return &inference{types: make(map[string]TypeDescriptor)}
}

func (in *inference) add(rec map[string]any) {
	for name, v := range rec {
		t := inferValue(v)
		if prev, ok := in.types[name]; ok {
			t = mergeType(prev, t)
		}
		in.types[name] = t
	}
}

// done reports whether every column seen so far has a fully known type.
func (in *inference) done() bool {
	if len(in.types) == 0 {
		return false
	}
	for _, t := range in.types {
		if !resolved(t) {
			return false
		}
	}
	return true
}

// columns returns the inferred schema. JSON objects are unordered once
// decoded, so columns are sorted by name for a stable order.
func (in *inference) columns() *Columns {
	names := make([]string, 0, len(in.types))
	for name := range in.types {
		names = append(names, name)
	}
	sort.Strings(names)

	cols := NewColumns()
	for _, name := range names {
		cols.Add(name, in.types[name])
	}
	return cols
}

func resolved(t TypeDescriptor) bool {
	if t.Kind == KindSequence {
		return t.Elem != nil && resolved(*t.Elem)
	}
	return t.Dtype != DtypeNull
}

// mergeType unifies two observations of one column. null yields to any type,
// int64 widens to float64, and otherwise the first observation wins.
func mergeType(a, b TypeDescriptor) TypeDescriptor {
	switch {
	case a.Kind == KindScalar && a.Dtype == DtypeNull:
		return b
	case b.Kind == KindScalar && b.Dtype == DtypeNull:
		return a
	case a.Kind == KindSequence && b.Kind == KindSequence:
		if a.Elem == nil || b.Elem == nil {
			if a.Elem == nil {
				return b
			}
			return a
		}
		return Sequence(mergeType(*a.Elem, *b.Elem))
	case a.Kind == KindScalar && b.Kind == KindScalar:
		if (a.Dtype == DtypeInt64 && b.Dtype == DtypeFloat64) || (a.Dtype == DtypeFloat64 && b.Dtype == DtypeInt64) {
			return Scalar(DtypeFloat64)
		}
	}
	return a
}

func inferValue(v any) TypeDescriptor {
	switch x := v.(type) {
	case nil:
		return Scalar(DtypeNull)
	case string:
		return Scalar(DtypeString)
	case bool:
		return Scalar(DtypeBool)
	case json.Number:
		if _, err := x.Int64(); err == nil {
			return Scalar(DtypeInt64)
		}
		return Scalar(DtypeFloat64)
	case []any:
		elem := Scalar(DtypeNull)
		for _, e := range x {
			elem = mergeType(elem, inferValue(e))
		}
		return Sequence(elem)
	case map[string]any:
		return Scalar("struct")
	default:
		return Scalar(fmt.Sprintf("%T", v))
	}
}
