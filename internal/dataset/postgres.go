package dataset

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	embedsql "github.com/gyeh/evalcheck/internal/sql"
)

// ErrTableNotFound is returned when information_schema has no columns for
// the requested table.
var ErrTableNotFound = errors.New("table not found")

// Querier is the subset of pgxpool.Pool and pgx.Conn used for introspection.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// udtDtypes maps Postgres udt_name values to scalar dtype tags. Array
// columns use the element udt_name with its leading underscore removed.
var udtDtypes = map[string]string{
	"text":        DtypeString,
	"varchar":     DtypeString,
	"bpchar":      DtypeString,
	"name":        DtypeString,
	"bool":        DtypeBool,
	"int2":        DtypeInt16,
	"int4":        DtypeInt32,
	"int8":        DtypeInt64,
	"float4":      DtypeFloat32,
	"float8":      DtypeFloat64,
	"numeric":     "decimal",
	"bytea":       DtypeBinary,
	"json":        "json",
	"jsonb":       "json",
	"uuid":        "uuid",
	"date":        "date32",
	"timestamp":   "timestamp",
	"timestamptz": "timestamp",
}

// FromPostgres reads the column schema and row count of table, given as
// "schema.table" or a bare name in the public schema.
func FromPostgres(ctx context.Context, q Querier, table string) (*Dataset, error) {
	schemaName, tableName := splitTableName(table)

	rows, err := q.Query(ctx, embedsql.DescribeTable, schemaName, tableName)
	if err != nil {
		return nil, fmt.Errorf("describe table %s: %w", table, err)
	}
	defer rows.Close()

	cols := NewColumns()
	for rows.Next() {
		var name, dataType, udtName string
		if err := rows.Scan(&name, &dataType, &udtName); err != nil {
			return nil, fmt.Errorf("scan column of %s: %w", table, err)
		}
		cols.Add(name, describePostgres(dataType, udtName))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("describe table %s: %w", table, err)
	}
	if cols.Len() == 0 {
		return nil, fmt.Errorf("%w: %s.%s", ErrTableNotFound, schemaName, tableName)
	}

	var numRows int64
	countSQL := "SELECT count(*) FROM " + pgx.Identifier{schemaName, tableName}.Sanitize()
	if err := q.QueryRow(ctx, countSQL).Scan(&numRows); err != nil {
		return nil, fmt.Errorf("count rows of %s: %w", table, err)
	}

	return &Dataset{
		Name:    schemaName + "." + tableName,
		Format:  FormatPostgres,
		Columns: cols,
		NumRows: numRows,
	}, nil
}

func splitTableName(table string) (string, string) {
	if i := strings.IndexByte(table, '.'); i >= 0 {
		return table[:i], table[i+1:]
	}
	return "public", table
}

func describePostgres(dataType, udtName string) TypeDescriptor {
	if dataType == "ARRAY" {
		return Sequence(Scalar(udtDtype(strings.TrimPrefix(udtName, "_"))))
	}
	return Scalar(udtDtype(udtName))
}

func udtDtype(udt string) string {
	if d, ok := udtDtypes[udt]; ok {
		return d
	}
	return udt
}
