package dataset

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies where a dataset's schema was read from.
type Format string

const (
	FormatParquet  Format = "parquet"
	FormatJSONL    Format = "jsonl"
	FormatPostgres Format = "postgres"
)

// ErrUnsupportedFormat is returned by Open for file extensions it does not
// know how to read.
var ErrUnsupportedFormat = errors.New("unsupported dataset format")

// Dataset is a schema snapshot plus the metadata a validation report needs.
type Dataset struct {
	// Name is the file base name or the qualified table name.
	Name    string
	Format  Format
	Columns *Columns
	// NumRows is the row count reported by the source; -1 when unknown.
	NumRows int64
	// SHA256 is the hex digest of the source file. Empty for tables.
	SHA256 string
}

// Open reads the schema of the dataset file at path, choosing a loader by
// extension.
func Open(path string) (*Dataset, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".parquet", ".pq":
		return ReadParquet(path)
	case ".jsonl", ".ndjson":
		return ReadJSONL(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}
