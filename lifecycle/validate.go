package lifecycle

import (
	"github.com/c360studio/govspec/artifact"
	"github.com/c360studio/govspec/diag"
	"github.com/c360studio/govspec/store"
)

// ValidateAll checks every artifact in the snapshot against the state
// machines and inter-field invariants, accumulating diagnostics rather than
// stopping at the first problem.
func ValidateAll(snap *store.Snapshot) diag.Report {
	var r diag.Report

	for _, e := range snap.RFCs {
		validateRFC(e, &r)
	}
	for _, a := range snap.ADRs {
		validateADR(a, &r)
	}
	for _, w := range snap.Work {
		validateWork(w, &r)
	}
	return r
}

func validateRFC(e *store.RFCEntry, r *diag.Report) {
	rfc := e.RFC

	if d := CheckCompat(rfc.ID, rfc.Status, rfc.Phase); d != nil {
		r.Add(*d)
	}
	if len(rfc.Changelog) == 0 {
		r.Addf(diag.CodeRFCNoChangelog, rfc.ID, "rfc has no changelog entries")
	}

	// Section lists must reference clauses that exist, exactly once each.
	seen := map[string]bool{}
	for _, id := range rfc.ClauseIDs() {
		if seen[id] {
			r.Addf(diag.CodeClauseDuplicate, artifact.ClauseRef(rfc.ID, id),
				"clause listed more than once in sections")
			continue
		}
		seen[id] = true
		if e.FindClause(id) == nil {
			r.Addf(diag.CodeClauseNotFound, artifact.ClauseRef(rfc.ID, id),
				"section references missing clause %s", id)
		}
	}

	for _, c := range e.Clauses {
		ref := artifact.ClauseRef(rfc.ID, c.ID)
		if c.Since == "" {
			r.Addf(diag.CodeClauseNoSince, ref, "clause has no 'since' version")
		}
		if c.SupersededBy != "" {
			validateSupersededBy(e, c, ref, r)
		} else if c.Status == artifact.ClauseSuperseded {
			r.Addf(diag.CodeClauseSupersededBy, ref,
				"clause is superseded but names no superseding clause")
		}
	}
}

// validateSupersededBy enforces that a superseding reference points at an
// active clause of the same RFC and that the superseded clause's status
// agrees with the field.
func validateSupersededBy(e *store.RFCEntry, c *artifact.Clause, ref string, r *diag.Report) {
	if c.Status != artifact.ClauseSuperseded {
		r.Addf(diag.CodeClauseSupersededBy, ref,
			"clause names a superseding clause but status is %s", c.Status)
	}
	target := e.FindClause(c.SupersededBy)
	if target == nil {
		r.Addf(diag.CodeClauseSupersededBy, ref,
			"superseding clause %s not found in %s", c.SupersededBy, e.RFC.ID)
		return
	}
	if target.Status != artifact.ClauseActive {
		r.Addf(diag.CodeClauseSupersededBy, ref,
			"superseding clause %s is %s, not active", c.SupersededBy, target.Status)
	}
}

func validateADR(a *artifact.ADR, r *diag.Report) {
	if len(a.Refs) == 0 {
		r.Addf(diag.CodeADRNoRefs, a.ID, "adr has no references")
	}
	if a.Status == artifact.ADRSuperseded && a.SupersededBy == "" {
		r.Addf(diag.CodeADRInvalidTransition, a.ID,
			"adr is superseded but names no superseding record")
	}
}

func validateWork(w *artifact.WorkItem, r *diag.Report) {
	if w.Status == artifact.WorkDone {
		if d := CheckWorkDoneGate(w); d != nil {
			r.Add(*d)
		}
	}
	for _, c := range w.Criteria {
		if c.Category != "" && !c.Category.IsValid() {
			r.Addf(diag.CodeWorkSchemaInvalid, w.ID,
				"unknown changelog category %q", c.Category)
		}
	}
}
