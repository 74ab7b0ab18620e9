package sql

import "embed"

// Migrations holds the schema DDL, applied in filename order.
//
//go:embed migrations/*.sql
var Migrations embed.FS

//go:embed queries/describe_table.sql
var DescribeTable string

//go:embed queries/insert_run.sql
var InsertRun string

//go:embed queries/recent_runs.sql
var RecentRuns string

//go:embed queries/run_findings.sql
var RunFindings string

// SchemaMigrations creates the migration version table. It runs before the
// numbered migrations.
//
//go:embed schema_migrations.sql
var SchemaMigrations string
