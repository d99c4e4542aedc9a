package govern

import (
	"fmt"

	"github.com/c360studio/govspec/artifact"
	"github.com/c360studio/govspec/diag"
	"github.com/c360studio/govspec/lifecycle"
	"github.com/c360studio/govspec/refs"
	"github.com/c360studio/govspec/store"
)

// NewRFC allocates and persists a draft RFC at phase=spec with an empty
// section list.
func (m *Manager) NewRFC(title string, owners []string) (*artifact.RFC, error) {
	snap, err := m.Snapshot()
	if err != nil {
		return nil, err
	}
	var existing []string
	for _, e := range snap.RFCs {
		existing = append(existing, e.RFC.ID)
	}
	id, err := store.NextID(m.cfg.IDs.Strategy, artifact.KindRFC, existing)
	if err != nil {
		return nil, err
	}

	rfc := &artifact.RFC{
		ID:      id,
		Title:   title,
		Version: "0.1.0",
		Status:  artifact.RFCDraft,
		Phase:   artifact.PhaseSpec,
		Owners:  owners,
		Created: today(),
	}
	if err := m.store.SaveRFC(rfc); err != nil {
		return nil, err
	}
	m.logger.Info("created rfc", "artifact", id, "title", title)
	return rfc, nil
}

// NewClause allocates a clause inside an RFC section from a slug. The clause
// record is written before the parent RFC's section index so an interrupted
// run never leaves the index referencing a missing clause. The section is
// created if it does not exist.
func (m *Manager) NewClause(rfcID, section, slug, title string, kind artifact.ClauseKind, text string) (*artifact.Clause, diag.Report, error) {
	var report diag.Report

	e, err := m.store.LoadRFC(rfcID)
	if err != nil {
		return nil, report, err
	}
	if !kind.IsValid() {
		return nil, report, fmt.Errorf("unknown clause kind %q", kind)
	}
	if d := lifecycle.CheckAmendment(e.RFC); d != nil {
		report.Add(*d)
		return nil, report, nil
	}

	var existing []string
	for _, c := range e.Clauses {
		existing = append(existing, c.ID)
	}
	id, err := store.NextClauseID(slug, existing)
	if err != nil {
		return nil, report, err
	}

	// Scaffolded clauses get placeholder text; text is a required field.
	if text == "" {
		text = "(to be written)"
	}
	clause := &artifact.Clause{
		ID:     id,
		Title:  title,
		Kind:   kind,
		Status: artifact.ClauseActive,
		Text:   text,
		Since:  e.RFC.Version,
	}
	if err := m.store.SaveClause(rfcID, clause); err != nil {
		return nil, report, err
	}

	placed := false
	for i := range e.RFC.Sections {
		if e.RFC.Sections[i].Title == section {
			e.RFC.Sections[i].Clauses = append(e.RFC.Sections[i].Clauses, id)
			placed = true
			break
		}
	}
	if !placed {
		e.RFC.Sections = append(e.RFC.Sections, artifact.Section{
			Title:   section,
			Clauses: []string{id},
		})
	}
	e.RFC.Updated = today()
	if err := m.store.SaveRFC(e.RFC); err != nil {
		return nil, report, err
	}
	m.logger.Info("created clause", "artifact", artifact.ClauseRef(rfcID, id), "section", section)
	return clause, report, nil
}

// NewADR allocates and persists a proposed ADR. Structured refs must resolve
// to known artifacts.
func (m *Manager) NewADR(title, context, decision string, refList []string) (*artifact.ADR, diag.Report, error) {
	snap, err := m.Snapshot()
	if err != nil {
		return nil, diag.Report{}, err
	}

	var existing []string
	for _, a := range snap.ADRs {
		existing = append(existing, a.ID)
	}
	id, err := store.NextID(m.cfg.IDs.Strategy, artifact.KindADR, existing)
	if err != nil {
		return nil, diag.Report{}, err
	}

	report := m.checkNewRefs(snap, id, refList)
	if report.HasErrors() {
		return nil, report, nil
	}

	a := &artifact.ADR{
		ID:       id,
		Title:    title,
		Status:   artifact.ADRProposed,
		Date:     today(),
		Context:  context,
		Decision: decision,
		Refs:     refList,
	}
	if err := m.store.SaveADR(a); err != nil {
		return nil, report, err
	}
	m.logger.Info("created adr", "artifact", id, "title", title)
	return a, report, nil
}

// NewWorkItem allocates and persists a queued work item. Each criterion text
// may carry a category prefix, resolved at changelog time. Structured refs
// must resolve to known artifacts.
func (m *Manager) NewWorkItem(title, description string, criteria, refList []string) (*artifact.WorkItem, diag.Report, error) {
	snap, err := m.Snapshot()
	if err != nil {
		return nil, diag.Report{}, err
	}

	var existing []string
	for _, w := range snap.Work {
		existing = append(existing, w.ID)
	}
	id, err := store.NextID(m.cfg.IDs.Strategy, artifact.KindWorkItem, existing)
	if err != nil {
		return nil, diag.Report{}, err
	}

	report := m.checkNewRefs(snap, id, refList)
	if report.HasErrors() {
		return nil, report, nil
	}

	w := &artifact.WorkItem{
		ID:          id,
		Title:       title,
		Status:      artifact.WorkQueue,
		Description: description,
	}
	for _, text := range criteria {
		w.Criteria = append(w.Criteria, artifact.Criterion{
			Text:   text,
			Status: artifact.CriterionPending,
		})
	}
	w.Refs = refList
	if err := m.store.SaveWorkItem(w); err != nil {
		return nil, report, err
	}
	m.logger.Info("created work item", "artifact", id, "title", title)
	return w, report, nil
}

// checkNewRefs validates the structured refs of an artifact being created
// against the current snapshot.
func (m *Manager) checkNewRefs(snap *store.Snapshot, id string, refList []string) diag.Report {
	var report diag.Report
	ix := refs.BuildIndex(snap)
	for _, ref := range refList {
		state, known := ix.Resolve(ref)
		switch {
		case !known:
			report.Addf(diag.CodeDanglingReference, id,
				"reference %s does not resolve to any artifact", ref)
		case state.Outdated:
			report.Addf(diag.CodeOutdatedReference, id,
				"reference %s points to an outdated artifact: %s", ref, state.Reason)
		}
	}
	return report
}
