package metric

import (
	"fmt"
	"strings"
)

// Mode classifies which combination of question, answer, contexts and
// ground truths a metric reads.
type Mode string

const (
	ModeQAC Mode = "qac" // question, answer, contexts
	ModeQA  Mode = "qa"  // question, answer
	ModeQC  Mode = "qc"  // question, contexts
	ModeGC  Mode = "gc"  // ground truths, contexts
)

// Well-known dataset column names.
const (
	ColumnQuestion     = "question"
	ColumnAnswer       = "answer"
	ColumnContexts     = "contexts"
	ColumnGroundTruths = "ground_truths"
)

// requiredColumns is never mutated after init; accessors hand out copies.
var requiredColumns = map[Mode][]string{
	ModeQAC: {ColumnQuestion, ColumnAnswer, ColumnContexts},
	ModeQA:  {ColumnQuestion, ColumnAnswer},
	ModeQC:  {ColumnQuestion, ColumnContexts},
	ModeGC:  {ColumnGroundTruths, ColumnContexts},
}

var allModes = []Mode{ModeQAC, ModeQA, ModeQC, ModeGC}

// RequiredColumns returns the columns a metric in mode m needs, in canonical
// order, or ok=false if m is not a known mode.
func RequiredColumns(m Mode) ([]string, bool) {
	cols, ok := requiredColumns[m]
	if !ok {
		return nil, false
	}
	out := make([]string, len(cols))
	copy(out, cols)
	return out, true
}

// Modes returns every known mode in canonical order.
func Modes() []Mode {
	out := make([]Mode, len(allModes))
	copy(out, allModes)
	return out
}

// Valid reports whether m has an entry in the required-columns table.
func (m Mode) Valid() bool {
	_, ok := requiredColumns[m]
	return ok
}

// ParseMode parses a mode tag case-insensitively.
func ParseMode(raw string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(raw)))
	if !m.Valid() {
		return "", fmt.Errorf("unknown evaluation mode %q", raw)
	}
	return m, nil
}
