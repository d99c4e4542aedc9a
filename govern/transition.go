package govern

import (
	"fmt"

	"github.com/c360studio/govspec/artifact"
	"github.com/c360studio/govspec/diag"
	"github.com/c360studio/govspec/lifecycle"
	"github.com/c360studio/govspec/store"
)

// Transition moves an artifact to a target status (or, for RFCs, phase).
// The validator must approve the transition before anything is persisted:
// error diagnostics abort the change, warning diagnostics are reported but
// do not block it.
func (m *Manager) Transition(id, target string) (diag.Report, error) {
	snap, err := m.Snapshot()
	if err != nil {
		return diag.Report{}, err
	}

	kind, err := artifact.KindOfID(id)
	if err != nil {
		return diag.Report{}, err
	}

	switch kind {
	case artifact.KindRFC:
		return m.transitionRFC(snap, id, target)
	case artifact.KindClause:
		return m.transitionClause(snap, id, target)
	case artifact.KindADR:
		return m.transitionADR(snap, id, target)
	case artifact.KindWorkItem:
		return m.transitionWork(snap, id, target)
	}
	return diag.Report{}, fmt.Errorf("cannot transition artifact kind %q", kind)
}

// transitionRFC accepts either a status or a phase value as target.
func (m *Manager) transitionRFC(snap *store.Snapshot, id, target string) (diag.Report, error) {
	e := snap.FindRFC(id)
	if e == nil {
		return diag.Report{}, store.ErrNotFound
	}
	rfc := e.RFC

	if status := artifact.RFCStatus(target); status.IsValid() {
		report := lifecycle.CheckRFCStatus(rfc, status)
		if report.HasErrors() {
			return report, nil
		}
		rfc.Status = status
		rfc.Updated = today()
		if err := m.store.SaveRFC(rfc); err != nil {
			return report, err
		}
		m.logger.Info("rfc status changed", "artifact", id, "status", status)
		return report, nil
	}

	if phase := artifact.RFCPhase(target); phase.IsValid() {
		report := lifecycle.CheckRFCPhase(rfc, phase)
		if report.HasErrors() {
			return report, nil
		}
		rfc.Phase = phase
		rfc.Updated = today()
		if err := m.store.SaveRFC(rfc); err != nil {
			return report, err
		}
		m.logger.Info("rfc phase advanced", "artifact", id, "phase", phase)
		return report, nil
	}

	return diag.Report{}, fmt.Errorf("unknown rfc status or phase %q", target)
}

func (m *Manager) transitionClause(snap *store.Snapshot, id, target string) (diag.Report, error) {
	rfcID, clauseID := artifact.SplitRef(id)
	e := snap.FindRFC(rfcID)
	if e == nil {
		return diag.Report{}, store.ErrNotFound
	}
	clause := e.FindClause(clauseID)
	if clause == nil {
		return diag.Report{}, store.ErrNotFound
	}

	status := artifact.ClauseStatus(target)
	if !status.IsValid() {
		return diag.Report{}, fmt.Errorf("unknown clause status %q", target)
	}

	report := lifecycle.CheckClauseStatus(id, clause, status)
	if report.HasErrors() {
		return report, nil
	}
	clause.Status = status
	if err := m.store.SaveClause(rfcID, clause); err != nil {
		return report, err
	}
	m.logger.Info("clause status changed", "artifact", id, "status", status)
	return report, nil
}

// Supersede marks a clause superseded by another active clause of the same
// RFC, setting both status and the superseding reference together.
func (m *Manager) Supersede(id, byClauseID string) (diag.Report, error) {
	snap, err := m.Snapshot()
	if err != nil {
		return diag.Report{}, err
	}

	rfcID, clauseID := artifact.SplitRef(id)
	if clauseID == "" {
		return diag.Report{}, fmt.Errorf("supersede expects a clause-scoped id, got %q", id)
	}
	e := snap.FindRFC(rfcID)
	if e == nil {
		return diag.Report{}, store.ErrNotFound
	}
	clause := e.FindClause(clauseID)
	if clause == nil {
		return diag.Report{}, store.ErrNotFound
	}

	var report diag.Report
	target := e.FindClause(byClauseID)
	switch {
	case target == nil:
		report.Addf(diag.CodeClauseSupersededBy, id,
			"superseding clause %s not found in %s", byClauseID, rfcID)
	case target.Status != artifact.ClauseActive:
		report.Addf(diag.CodeClauseSupersededBy, id,
			"superseding clause %s is %s, not active", byClauseID, target.Status)
	}
	report.Merge(lifecycle.CheckClauseStatus(id, clause, artifact.ClauseSuperseded))
	if report.HasErrors() {
		return report, nil
	}

	clause.Status = artifact.ClauseSuperseded
	clause.SupersededBy = byClauseID
	if err := m.store.SaveClause(rfcID, clause); err != nil {
		return report, err
	}
	m.logger.Info("clause superseded", "artifact", id, "by", byClauseID)
	return report, nil
}

func (m *Manager) transitionADR(snap *store.Snapshot, id, target string) (diag.Report, error) {
	a := snap.FindADR(id)
	if a == nil {
		return diag.Report{}, store.ErrNotFound
	}

	status := artifact.ADRStatus(target)
	if !status.IsValid() {
		return diag.Report{}, fmt.Errorf("unknown adr status %q", target)
	}

	report := lifecycle.CheckADRStatus(a, status)
	if report.HasErrors() {
		return report, nil
	}
	a.Status = status
	if err := m.store.SaveADR(a); err != nil {
		return report, err
	}
	m.logger.Info("adr status changed", "artifact", id, "status", status)
	return report, nil
}

func (m *Manager) transitionWork(snap *store.Snapshot, id, target string) (diag.Report, error) {
	w := snap.FindWork(id)
	if w == nil {
		return diag.Report{}, store.ErrNotFound
	}

	status := artifact.WorkStatus(target)
	if !status.IsValid() {
		return diag.Report{}, fmt.Errorf("unknown work item status %q", target)
	}

	report := lifecycle.CheckWorkStatus(w, status)
	if report.HasErrors() {
		return report, nil
	}
	w.Status = status
	switch status {
	case artifact.WorkActive:
		if w.StartDate == "" {
			w.StartDate = today()
		}
	case artifact.WorkDone:
		w.DoneDate = today()
	}
	if err := m.store.SaveWorkItem(w); err != nil {
		return report, err
	}
	m.logger.Info("work item moved", "artifact", id, "status", status)
	return report, nil
}
