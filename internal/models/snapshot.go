package models

import "time"

// TableSnapshot is a point-in-time, read-only capture of the rendered table rows.
// A new snapshot must be extracted after every UI mutation.
type TableSnapshot struct {
	Columns    []string
	Rows       []Record
	CapturedAt time.Time
}

// Len returns the number of captured rows
func (s TableSnapshot) Len() int {
	return len(s.Rows)
}

// MatchMode selects the comparison semantics of an Expectation
type MatchMode int

const (
	// MatchSet compares rows as a multiset; order is irrelevant
	MatchSet MatchMode = iota
	// MatchSequence compares rows position by position
	MatchSequence
)

func (m MatchMode) String() string {
	switch m {
	case MatchSet:
		return "set"
	case MatchSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// Expectation describes the rows a snapshot must hold
type Expectation struct {
	Mode MatchMode
	Rows []Record
}

// ExpectRows builds a set-mode expectation, typically the singleton result of a search filter
func ExpectRows(rows ...Record) Expectation {
	return Expectation{Mode: MatchSet, Rows: cloneRecords(rows)}
}

// ExpectSequence builds a sequence-mode expectation from rows already in display order
func ExpectSequence(rows []Record) Expectation {
	return Expectation{Mode: MatchSequence, Rows: cloneRecords(rows)}
}

// Fields returns the field set shared by the expected rows, or nil when there are none
func (e Expectation) Fields() []string {
	if len(e.Rows) == 0 {
		return nil
	}
	return e.Rows[0].Fields()
}

// PaginationInfo holds the counters of a "Showing {start} to {end} of {total} entries" caption
type PaginationInfo struct {
	Start int
	End   int
	Total int
}
