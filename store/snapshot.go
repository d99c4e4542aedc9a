package store

import "github.com/c360studio/govspec/artifact"

// RFCEntry pairs an RFC with its loaded clause set.
type RFCEntry struct {
	RFC     *artifact.RFC
	Clauses []*artifact.Clause
}

// FindClause returns the clause with the given id, or nil.
func (e *RFCEntry) FindClause(clauseID string) *artifact.Clause {
	for _, c := range e.Clauses {
		if c.ID == clauseID {
			return c
		}
	}
	return nil
}

// Snapshot is the full store state loaded into memory for one invocation.
// It is built fresh per operation and passed explicitly; there is no ambient
// process-wide state.
type Snapshot struct {
	RFCs     []*RFCEntry
	ADRs     []*artifact.ADR
	Work     []*artifact.WorkItem
	Releases artifact.Releases
}

// FindRFC returns the RFC entry with the given id, or nil.
func (s *Snapshot) FindRFC(id string) *RFCEntry {
	for _, e := range s.RFCs {
		if e.RFC.ID == id {
			return e
		}
	}
	return nil
}

// FindADR returns the ADR with the given id, or nil.
func (s *Snapshot) FindADR(id string) *artifact.ADR {
	for _, a := range s.ADRs {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// FindWork returns the work item with the given id, or nil.
func (s *Snapshot) FindWork(id string) *artifact.WorkItem {
	for _, w := range s.Work {
		if w.ID == id {
			return w
		}
	}
	return nil
}

// EachClause calls fn for every clause of every RFC.
func (s *Snapshot) EachClause(fn func(rfc *RFCEntry, clause *artifact.Clause)) {
	for _, e := range s.RFCs {
		for _, c := range e.Clauses {
			fn(e, c)
		}
	}
}
