// Package lifecycle enforces the per-kind state machines and inter-field
// invariants of governed artifacts. Transition graphs and the RFC
// status/phase compatibility matrix are encoded as data and consulted by
// lookup; there are no scattered conditionals. Business-rule violations are
// reported as diagnostics, never as fatal errors.
package lifecycle

import (
	"github.com/c360studio/govspec/artifact"
	"github.com/c360studio/govspec/diag"
)

// Cell is one entry of the status/phase compatibility matrix.
type Cell int

const (
	Forbidden Cell = iota
	Allowed
	AllowedWarn
)

// Per-kind status graphs. Only forward edges exist; every omitted pair is an
// invalid transition.
var (
	rfcStatusEdges = map[artifact.RFCStatus][]artifact.RFCStatus{
		artifact.RFCDraft:     {artifact.RFCNormative},
		artifact.RFCNormative: {artifact.RFCDeprecated},
	}

	rfcPhaseEdges = map[artifact.RFCPhase][]artifact.RFCPhase{
		artifact.PhaseSpec: {artifact.PhaseImpl},
		artifact.PhaseImpl: {artifact.PhaseTest},
		artifact.PhaseTest: {artifact.PhaseStable},
	}

	clauseEdges = map[artifact.ClauseStatus][]artifact.ClauseStatus{
		artifact.ClauseActive: {artifact.ClauseSuperseded, artifact.ClauseDeprecated},
	}

	adrEdges = map[artifact.ADRStatus][]artifact.ADRStatus{
		artifact.ADRProposed: {artifact.ADRAccepted, artifact.ADRRejected},
		artifact.ADRAccepted: {artifact.ADRSuperseded},
	}

	workEdges = map[artifact.WorkStatus][]artifact.WorkStatus{
		artifact.WorkQueue:  {artifact.WorkActive, artifact.WorkCancelled},
		artifact.WorkActive: {artifact.WorkDone, artifact.WorkCancelled},
	}
)

// compat is the status × phase compatibility matrix. Every read and every
// proposed status or phase change is checked against it. draft/{impl,test}
// violate the phase gate, draft/stable the stability rule, and
// deprecated/{impl,test} the deprecation rule. deprecated/spec is legal but
// suspicious: the RFC was retired before it ever left specification.
var compat = map[artifact.RFCStatus]map[artifact.RFCPhase]Cell{
	artifact.RFCDraft: {
		artifact.PhaseSpec:   Allowed,
		artifact.PhaseImpl:   Forbidden,
		artifact.PhaseTest:   Forbidden,
		artifact.PhaseStable: Forbidden,
	},
	artifact.RFCNormative: {
		artifact.PhaseSpec:   Allowed,
		artifact.PhaseImpl:   Allowed,
		artifact.PhaseTest:   Allowed,
		artifact.PhaseStable: Allowed,
	},
	artifact.RFCDeprecated: {
		artifact.PhaseSpec:   AllowedWarn,
		artifact.PhaseImpl:   Forbidden,
		artifact.PhaseTest:   Forbidden,
		artifact.PhaseStable: Allowed,
	},
}

func edgeOK[T comparable](edges map[T][]T, from, to T) bool {
	for _, t := range edges[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Compat looks up the matrix cell for a status/phase pair.
func Compat(status artifact.RFCStatus, phase artifact.RFCPhase) Cell {
	return compat[status][phase]
}

// CheckCompat reports the matrix verdict for a status/phase pair as a
// diagnostic, or nil for a plain Allowed cell.
func CheckCompat(id string, status artifact.RFCStatus, phase artifact.RFCPhase) *diag.Diagnostic {
	switch Compat(status, phase) {
	case Forbidden:
		d := diag.New(diag.CodeRFCStatusPhaseForbidden, id,
			"status=%s with phase=%s is forbidden", status, phase)
		return &d
	case AllowedWarn:
		d := diag.New(diag.CodeStatusPhaseWarn, id,
			"status=%s with phase=%s is allowed but flagged", status, phase)
		return &d
	}
	return nil
}

// CheckRFCStatus validates a proposed RFC status transition. The new status
// must follow a graph edge and the resulting status/phase pair must not be
// forbidden; a warning cell reports but does not block.
func CheckRFCStatus(rfc *artifact.RFC, to artifact.RFCStatus) diag.Report {
	var r diag.Report
	if !edgeOK(rfcStatusEdges, rfc.Status, to) {
		r.Addf(diag.CodeRFCInvalidTransition, rfc.ID,
			"invalid rfc status transition: %s -> %s", rfc.Status, to)
		return r
	}
	if d := CheckCompat(rfc.ID, to, rfc.Phase); d != nil {
		r.Add(*d)
	}
	return r
}

// CheckRFCPhase validates a proposed RFC phase advancement. Phase may not
// advance past spec unless the RFC is normative, edges may not be skipped,
// and the resulting pair must not be forbidden.
func CheckRFCPhase(rfc *artifact.RFC, to artifact.RFCPhase) diag.Report {
	var r diag.Report
	if rfc.Status != artifact.RFCNormative && to != artifact.PhaseSpec {
		r.Addf(diag.CodeRFCInvalidTransition, rfc.ID,
			"phase may not advance to %s while status is %s", to, rfc.Status)
		return r
	}
	if !edgeOK(rfcPhaseEdges, rfc.Phase, to) {
		r.Addf(diag.CodeRFCInvalidTransition, rfc.ID,
			"invalid rfc phase transition: %s -> %s", rfc.Phase, to)
		return r
	}
	if d := CheckCompat(rfc.ID, rfc.Status, to); d != nil {
		r.Add(*d)
	}
	return r
}

// CheckClauseStatus validates a proposed clause status transition. Both
// superseded and deprecated are terminal.
func CheckClauseStatus(ref string, c *artifact.Clause, to artifact.ClauseStatus) diag.Report {
	var r diag.Report
	if !edgeOK(clauseEdges, c.Status, to) {
		r.Addf(diag.CodeClauseInvalidTransition, ref,
			"invalid clause transition: %s -> %s", c.Status, to)
	}
	return r
}

// CheckADRStatus validates a proposed ADR status transition.
func CheckADRStatus(a *artifact.ADR, to artifact.ADRStatus) diag.Report {
	var r diag.Report
	if !edgeOK(adrEdges, a.Status, to) {
		r.Addf(diag.CodeADRInvalidTransition, a.ID,
			"invalid adr transition: %s -> %s", a.Status, to)
	}
	return r
}

// CheckWorkStatus validates a proposed work item status transition,
// including the acceptance-criteria gate on moving to done.
func CheckWorkStatus(w *artifact.WorkItem, to artifact.WorkStatus) diag.Report {
	var r diag.Report
	if !edgeOK(workEdges, w.Status, to) {
		r.Addf(diag.CodeWorkInvalidTransition, w.ID,
			"invalid work item transition: %s -> %s", w.Status, to)
		return r
	}
	if to == artifact.WorkDone {
		if d := CheckWorkDoneGate(w); d != nil {
			r.Add(*d)
		}
	}
	return r
}

// CheckWorkDoneGate enforces that a work item may only be done when its
// acceptance criteria are non-empty and none remain pending.
func CheckWorkDoneGate(w *artifact.WorkItem) *diag.Diagnostic {
	if len(w.Criteria) == 0 {
		d := diag.New(diag.CodeWorkDoneGate, w.ID,
			"cannot move to done: no acceptance criteria recorded")
		return &d
	}
	for _, c := range w.Criteria {
		if c.Status == artifact.CriterionPending {
			d := diag.New(diag.CodeWorkDoneGate, w.ID,
				"cannot move to done: pending criterion %q", c.Text)
			return &d
		}
	}
	return nil
}

// CheckAmendment reports whether an RFC may accept a content edit. A
// normative RFC at phase stable is frozen unless its amendable flag is set;
// the flag is explicit and never inferred from phase.
func CheckAmendment(rfc *artifact.RFC) *diag.Diagnostic {
	if rfc.Status == artifact.RFCNormative && rfc.Phase == artifact.PhaseStable && !rfc.Amendable {
		d := diag.New(diag.CodeAmendmentRequired, rfc.ID,
			"rfc is stable and not marked amendable; content edits require amendable=true")
		return &d
	}
	return nil
}
