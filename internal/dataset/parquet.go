package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/deprecated"
)

// ReadParquet opens a Parquet file and returns its column schema and row
// count. Row data is not read.
func ReadParquet(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat parquet file: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	sha, err := FileHash(path)
	if err != nil {
		return nil, err
	}

	return &Dataset{
		Name:    filepath.Base(path),
		Format:  FormatParquet,
		Columns: FromParquet(pf.Schema()),
		NumRows: pf.NumRows(),
		SHA256:  sha,
	}, nil
}

// FromParquet converts the top-level fields of a Parquet schema to Columns.
// Repeated fields and LIST groups become sequences; nested groups that are
// not lists are reported as "struct".
func FromParquet(schema *parquet.Schema) *Columns {
	cols := NewColumns()
	for _, field := range schema.Fields() {
		cols.Add(field.Name(), describeNode(field))
	}
	return cols
}

func describeNode(n parquet.Node) TypeDescriptor {
	if n.Repeated() {
		return Sequence(describeValue(n))
	}
	return describeValue(n)
}

// describeValue ignores the repetition of n itself.
func describeValue(n parquet.Node) TypeDescriptor {
	if isList(n) {
		if fields := n.Fields(); len(fields) == 1 {
			list := fields[0]
			// Three-level form: LIST { repeated group list { element } }.
			if !list.Leaf() && len(list.Fields()) == 1 {
				return Sequence(describeNode(list.Fields()[0]))
			}
			// Two-level legacy form: LIST { repeated element }.
			return Sequence(describeValue(list))
		}
	}
	if n.Leaf() {
		return Scalar(leafDtype(n.Type()))
	}
	return Scalar("struct")
}

func isList(n parquet.Node) bool {
	if n.Leaf() {
		return false
	}
	if lt := n.Type().LogicalType(); lt != nil && lt.List != nil {
		return true
	}
	ct := n.Type().ConvertedType()
	return ct != nil && *ct == deprecated.List
}

func leafDtype(t parquet.Type) string {
	if lt := t.LogicalType(); lt != nil {
		switch {
		case lt.UTF8 != nil, lt.Enum != nil:
			return DtypeString
		case lt.Json != nil:
			return "json"
		case lt.UUID != nil:
			return "uuid"
		case lt.Date != nil:
			return "date32"
		case lt.Timestamp != nil:
			return "timestamp"
		case lt.Decimal != nil:
			return "decimal"
		case lt.Integer != nil:
			if lt.Integer.IsSigned {
				return fmt.Sprintf("int%d", lt.Integer.BitWidth)
			}
			return fmt.Sprintf("uint%d", lt.Integer.BitWidth)
		}
	}
	if ct := t.ConvertedType(); ct != nil && *ct == deprecated.UTF8 {
		return DtypeString
	}

	switch t.Kind() {
	case parquet.Boolean:
		return DtypeBool
	case parquet.Int32:
		return DtypeInt32
	case parquet.Int64:
		return DtypeInt64
	case parquet.Int96:
		return "int96"
	case parquet.Float:
		return DtypeFloat32
	case parquet.Double:
		return DtypeFloat64
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return DtypeBinary
	default:
		return t.String()
	}
}
