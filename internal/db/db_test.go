package db_test

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/evalcheck/internal/dataset"
	"github.com/gyeh/evalcheck/internal/db"
	"github.com/gyeh/evalcheck/internal/model"
)

const (
	testPort     = 15433
	testDB       = "evalchecktest"
	testUser     = "postgres"
	testPassword = "postgres"
)

var (
	testDSN string
	pg      *embeddedpostgres.EmbeddedPostgres
)

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	testDSN = fmt.Sprintf("postgresql://%s:%s@localhost:%d/%s?sslmode=disable",
		testUser, testPassword, testPort, testDB)

	pg = embeddedpostgres.NewDatabase(
		embeddedpostgres.DefaultConfig().
			Port(uint32(testPort)).
			Database(testDB).
			Username(testUser).
			Password(testPassword).
			Version(embeddedpostgres.V16).
			StartTimeout(30*time.Second),
	)

	if err := pg.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start embedded postgres: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	if err := pg.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to stop embedded postgres: %v\n", err)
	}

	os.Exit(code)
}

// setupDB connects, drops evalcheck-owned schemas, and reapplies migrations.
func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if pg == nil {
		t.Skip("embedded postgres disabled in -short mode")
	}
	ctx := context.Background()

	pool, err := db.NewPool(ctx, testDSN)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	for _, schema := range []string{"evalcheck", "eval"} {
		if _, err := pool.Exec(ctx, fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", schema)); err != nil {
			t.Fatalf("drop schema %s: %v", schema, err)
		}
	}

	if err := db.ApplyMigrations(ctx, pool, zerolog.Nop()); err != nil {
		pool.Close()
		t.Fatalf("migrations: %v", err)
	}

	t.Cleanup(func() { pool.Close() })
	return pool
}

func TestMigrations_Idempotent(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()

	if err := db.ApplyMigrations(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatalf("second migration run should be idempotent: %v", err)
	}

	applied, err := db.AppliedMigrations(ctx, pool)
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}
	want := []string{"001_validation_runs.sql", "002_validation_findings.sql"}
	if len(applied) != len(want) {
		t.Fatalf("applied=%v want=%v", applied, want)
	}
	for i := range want {
		if applied[i] != want[i] {
			t.Errorf("applied[%d]=%q want=%q", i, applied[i], want[i])
		}
	}

	for _, tbl := range []string{"evalcheck.validation_runs", "evalcheck.validation_findings"} {
		var exists bool
		err := pool.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema || '.' || table_name = $1)", tbl).
			Scan(&exists)
		if err != nil {
			t.Fatalf("check table %s: %v", tbl, err)
		}
		if !exists {
			t.Errorf("table %s should exist after migrations", tbl)
		}
	}
}

func TestMigrations_SkipsRecordedVersions(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()

	// A recorded migration is never re-executed, even if its objects are gone.
	if _, err := pool.Exec(ctx, "DROP TABLE evalcheck.validation_findings"); err != nil {
		t.Fatalf("drop findings: %v", err)
	}
	if err := db.ApplyMigrations(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatalf("ApplyMigrations: %v", err)
	}

	var exists bool
	err := pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = 'evalcheck' AND table_name = 'validation_findings')").
		Scan(&exists)
	if err != nil {
		t.Fatalf("check table: %v", err)
	}
	if exists {
		t.Error("recorded migration 002 should not have been re-applied")
	}
}

func TestRecordRun_FailedWithFindings(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()

	summary := &model.CheckSummary{
		RunID:         uuid.New(),
		Source:        "eval.parquet",
		Format:        "parquet",
		SourceSHA256:  "abc123",
		NumRows:       42,
		Columns:       []string{"question", "answer"},
		Metrics:       []string{"context_recall"},
		Status:        model.StatusFailed,
		FailedPhase:   "modes",
		Error:         "missing columns",
		DurationTotal: 1500 * time.Millisecond,
		Findings: []model.Finding{
			{Kind: model.FindingMissing, Metric: "context_recall", Column: "ground_truths", Expected: "gc"},
			{Kind: model.FindingMissing, Metric: "context_recall", Column: "contexts", Expected: "gc"},
		},
	}
	if err := db.RecordRun(ctx, pool, zerolog.Nop(), summary); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	runs, err := db.RecentRuns(ctx, pool, 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	r := runs[0]
	if r.RunID != summary.RunID || r.Status != model.StatusFailed || r.FailedPhase != "modes" {
		t.Errorf("unexpected run record: %+v", r)
	}
	if r.NumRows != 42 || r.Duration != 1500*time.Millisecond {
		t.Errorf("NumRows=%d Duration=%s", r.NumRows, r.Duration)
	}

	findings, err := db.RunFindings(ctx, pool, summary.RunID)
	if err != nil {
		t.Fatalf("RunFindings: %v", err)
	}
	if len(findings) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(findings))
	}
	for i := range findings {
		if findings[i] != summary.Findings[i] {
			t.Errorf("finding %d: got %+v, want %+v", i, findings[i], summary.Findings[i])
		}
	}
}

func TestRecordRun_PassedUnknownRowCount(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()

	summary := &model.CheckSummary{
		RunID:   uuid.New(),
		Source:  "public.samples",
		Format:  "postgres",
		NumRows: -1,
		Status:  model.StatusPassed,
	}
	if err := db.RecordRun(ctx, pool, zerolog.Nop(), summary); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	runs, err := db.RecentRuns(ctx, pool, 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].NumRows != -1 || runs[0].FailedPhase != "" {
		t.Errorf("unexpected runs: %+v", runs)
	}

	findings, err := db.RunFindings(ctx, pool, summary.RunID)
	if err != nil {
		t.Fatalf("RunFindings: %v", err)
	}
	if len(findings) != 0 {
		t.Errorf("expected no findings, got %v", findings)
	}
}

func TestRecentRuns_Limit(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		s := &model.CheckSummary{RunID: uuid.New(), Source: fmt.Sprintf("f%d.jsonl", i), Format: "jsonl", Status: model.StatusPassed}
		if err := db.RecordRun(ctx, pool, zerolog.Nop(), s); err != nil {
			t.Fatalf("RecordRun %d: %v", i, err)
		}
	}

	runs, err := db.RecentRuns(ctx, pool, 2)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestFromPostgres(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()

	ddl := []string{
		"CREATE SCHEMA eval",
		`CREATE TABLE eval.samples (
			id            bigint,
			question      text,
			answer        varchar(2000),
			contexts      text[],
			ground_truths text[],
			score         double precision,
			turns         integer[]
		)`,
		`INSERT INTO eval.samples (id, question, answer, contexts)
		 VALUES (1, 'q', 'a', ARRAY['c1', 'c2']), (2, 'q2', 'a2', ARRAY['c3'])`,
	}
	for _, stmt := range ddl {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}

	ds, err := dataset.FromPostgres(ctx, pool, "eval.samples")
	if err != nil {
		t.Fatalf("FromPostgres: %v", err)
	}
	if ds.Name != "eval.samples" || ds.Format != dataset.FormatPostgres || ds.NumRows != 2 {
		t.Errorf("unexpected dataset: name=%q format=%q rows=%d", ds.Name, ds.Format, ds.NumRows)
	}

	want := []struct {
		column string
		typ    string
	}{
		{"id", "int64"},
		{"question", "string"},
		{"answer", "string"},
		{"contexts", "sequence<string>"},
		{"ground_truths", "sequence<string>"},
		{"score", "float64"},
		{"turns", "sequence<int32>"},
	}
	names := ds.Columns.ColumnNames()
	if len(names) != len(want) {
		t.Fatalf("columns=%v", names)
	}
	for i, w := range want {
		if names[i] != w.column {
			t.Errorf("column %d: got %s, want %s", i, names[i], w.column)
		}
		got, _ := ds.Columns.ColumnType(w.column)
		if got.String() != w.typ {
			t.Errorf("column %s: got %s, want %s", w.column, got, w.typ)
		}
	}
}

func TestFromPostgres_TableNotFound(t *testing.T) {
	pool := setupDB(t)

	_, err := dataset.FromPostgres(context.Background(), pool, "does_not_exist")
	if !errors.Is(err, dataset.ErrTableNotFound) {
		t.Fatalf("expected ErrTableNotFound, got %v", err)
	}
}
