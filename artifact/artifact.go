// Package artifact defines the typed records for governed documents: RFCs
// with their clauses, architecture decision records, and work items. The
// structured records here are the single source of truth; rendered markdown
// is always a derived projection.
package artifact

import (
	"fmt"
	"strings"
)

// RFC is a versioned specification composed of ordered sections of clauses.
// Clauses are stored as separate records; Sections reference them by clause
// id in declared render order.
type RFC struct {
	ID      string    `json:"rfc_id"`
	Title   string    `json:"title"`
	Version string    `json:"version"`
	Status  RFCStatus `json:"status"`
	Phase   RFCPhase  `json:"phase"`
	// Amendable marks a normative RFC at phase=stable as still accepting
	// content amendments (with a version bump and changelog entry). It is
	// an explicit flag, never inferred from phase.
	Amendable bool             `json:"amendable,omitempty"`
	Owners    []string         `json:"owners,omitempty"`
	Created   string           `json:"created"`
	Updated   string           `json:"updated,omitempty"`
	Sections  []Section        `json:"sections"`
	Changelog []ChangelogEntry `json:"changelog,omitempty"`
}

// Section is an ordered group of clause ids within an RFC.
type Section struct {
	Title   string   `json:"title"`
	Clauses []string `json:"clauses,omitempty"`
}

// ChangelogEntry records one released version of an RFC.
type ChangelogEntry struct {
	Version string   `json:"version"`
	Date    string   `json:"date"`
	Summary string   `json:"summary"`
	Changes []string `json:"changes,omitempty"`
}

// ClauseIDs returns the clause ids of all sections in declared order.
func (r *RFC) ClauseIDs() []string {
	var ids []string
	for _, s := range r.Sections {
		ids = append(ids, s.Clauses...)
	}
	return ids
}

// Clause is an atomic normative or informative statement within an RFC,
// independently status-tracked. Its id is unique within its RFC only.
type Clause struct {
	ID           string       `json:"clause_id"`
	Title        string       `json:"title"`
	Kind         ClauseKind   `json:"kind"`
	Status       ClauseStatus `json:"status"`
	Text         string       `json:"text"`
	Since        string       `json:"since,omitempty"`
	SupersededBy string       `json:"superseded_by,omitempty"`
}

// ADR records one architectural decision.
type ADR struct {
	ID           string        `json:"adr_id"`
	Title        string        `json:"title"`
	Status       ADRStatus     `json:"status"`
	Date         string        `json:"date"`
	Context      string        `json:"context"`
	Decision     string        `json:"decision"`
	Consequences string        `json:"consequences,omitempty"`
	Alternatives []Alternative `json:"alternatives,omitempty"`
	SupersededBy string        `json:"superseded_by,omitempty"`
	Refs         []string      `json:"refs,omitempty"`
}

// Alternative is a considered-and-rejected option within an ADR.
type Alternative struct {
	Text      string   `json:"text"`
	Pros      []string `json:"pros,omitempty"`
	Cons      []string `json:"cons,omitempty"`
	Rejection string   `json:"rejection,omitempty"`
}

// WorkItem is a tracked unit of work whose completion is gated by its
// acceptance criteria.
type WorkItem struct {
	ID          string      `json:"work_id"`
	Title       string      `json:"title"`
	Status      WorkStatus  `json:"status"`
	Description string      `json:"description,omitempty"`
	Notes       []string    `json:"notes,omitempty"`
	Criteria    []Criterion `json:"acceptance_criteria,omitempty"`
	Refs        []string    `json:"refs,omitempty"`
	StartDate   string      `json:"start_date,omitempty"`
	DoneDate    string      `json:"done_date,omitempty"`
}

// Criterion is one acceptance criterion with its checklist status and
// changelog category.
type Criterion struct {
	Text     string            `json:"text"`
	Status   CriterionStatus   `json:"status"`
	Category ChangelogCategory `json:"category"`
}

// Release groups the work item ids shipped in one released version, used
// when regenerating released changelog sections.
type Release struct {
	Version string   `json:"version"`
	Date    string   `json:"date"`
	Refs    []string `json:"refs,omitempty"`
}

// Releases is the persisted release history, newest first.
type Releases struct {
	Releases []Release `json:"releases,omitempty"`
}

// ClauseRef builds the fully-scoped id of a clause, e.g. "RFC-0001:C-NAME".
func ClauseRef(rfcID, clauseID string) string {
	return rfcID + ":" + clauseID
}

// SplitRef splits an artifact reference into its artifact id and optional
// clause scope.
func SplitRef(ref string) (id, clause string) {
	id, clause, _ = strings.Cut(ref, ":")
	return id, clause
}

// KindOfID infers the artifact kind from an id's prefix. Ids always carry
// their kind prefix regardless of the configured suffix strategy.
func KindOfID(id string) (Kind, error) {
	base, clause := SplitRef(id)
	if clause != "" {
		return KindClause, nil
	}
	switch {
	case strings.HasPrefix(base, "RFC-"):
		return KindRFC, nil
	case strings.HasPrefix(base, "ADR-"):
		return KindADR, nil
	case strings.HasPrefix(base, "WI-"):
		return KindWorkItem, nil
	}
	return "", fmt.Errorf("unknown artifact id format: %s", id)
}
