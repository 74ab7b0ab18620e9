package db

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gyeh/evalcheck/internal/model"
)

// FindingSource implements pgx.CopyFromSource over a run's findings,
// numbering them in order.
type FindingSource struct {
	runID    uuid.UUID
	findings []model.Finding
	idx      int
}

// NewFindingSource creates a CopyFromSource for findings belonging to runID.
func NewFindingSource(runID uuid.UUID, findings []model.Finding) *FindingSource {
	return &FindingSource{runID: runID, findings: findings, idx: -1}
}

// Next advances to the next finding. Returns false when all are consumed.
func (s *FindingSource) Next() bool {
	s.idx++
	return s.idx < len(s.findings)
}

// Values returns the current finding's values in model.FindingColumns order.
func (s *FindingSource) Values() ([]any, error) {
	return s.findings[s.idx].CopyValues(s.runID, int32(s.idx+1)), nil
}

// Err always returns nil; findings are already in memory.
func (s *FindingSource) Err() error {
	return nil
}

// Compile-time check that FindingSource satisfies the interface.
var _ pgx.CopyFromSource = (*FindingSource)(nil)
