package db

import (
	"testing"

	"github.com/google/uuid"

	"github.com/gyeh/evalcheck/internal/model"
)

func TestFindingSource(t *testing.T) {
	runID := uuid.New()
	src := NewFindingSource(runID, []model.Finding{
		{Kind: model.FindingTypeMismatch, Column: "answer", Expected: "string", Actual: "int64"},
		{Kind: model.FindingUnknownMode, Metric: "m", Actual: "zz"},
	})

	var rows [][]any
	for src.Next() {
		vals, err := src.Values()
		if err != nil {
			t.Fatalf("Values: %v", err)
		}
		rows = append(rows, vals)
	}
	if err := src.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	first := rows[0]
	if len(first) != len(model.FindingColumns()) {
		t.Fatalf("row has %d values, want %d", len(first), len(model.FindingColumns()))
	}
	if first[0] != runID || first[1] != int32(1) || first[2] != model.FindingTypeMismatch {
		t.Errorf("unexpected leading values: %v", first[:3])
	}
	if metric, ok := first[3].(*string); !ok || metric != nil {
		t.Errorf("empty metric should be a nil *string, got %#v", first[3])
	}
	if col := first[4].(*string); col == nil || *col != "answer" {
		t.Errorf("column value: %#v", first[4])
	}
	if rows[1][1] != int32(2) {
		t.Errorf("second seq=%v want 2", rows[1][1])
	}
}

func TestFindingSource_Empty(t *testing.T) {
	if NewFindingSource(uuid.New(), nil).Next() {
		t.Fatal("empty source should not yield rows")
	}
}
