package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/govspec/artifact"
	"github.com/c360studio/govspec/diag"
	"github.com/c360studio/govspec/store"
)

func rfc(status artifact.RFCStatus, phase artifact.RFCPhase) *artifact.RFC {
	return &artifact.RFC{
		ID:      "RFC-0001",
		Title:   "Retry policy",
		Version: "1.0.0",
		Status:  status,
		Phase:   phase,
		Created: "2026-08-26",
	}
}

func TestCompatMatrix(t *testing.T) {
	tests := []struct {
		status artifact.RFCStatus
		phase  artifact.RFCPhase
		cell   Cell
	}{
		{artifact.RFCDraft, artifact.PhaseSpec, Allowed},
		{artifact.RFCDraft, artifact.PhaseImpl, Forbidden},
		{artifact.RFCDraft, artifact.PhaseTest, Forbidden},
		{artifact.RFCDraft, artifact.PhaseStable, Forbidden},
		{artifact.RFCNormative, artifact.PhaseSpec, Allowed},
		{artifact.RFCNormative, artifact.PhaseStable, Allowed},
		{artifact.RFCDeprecated, artifact.PhaseSpec, AllowedWarn},
		{artifact.RFCDeprecated, artifact.PhaseImpl, Forbidden},
		{artifact.RFCDeprecated, artifact.PhaseTest, Forbidden},
		{artifact.RFCDeprecated, artifact.PhaseStable, Allowed},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.cell, Compat(tt.status, tt.phase),
			"%s/%s", tt.status, tt.phase)
	}
}

func TestCheckCompatDiagnostics(t *testing.T) {
	d := CheckCompat("RFC-0001", artifact.RFCDraft, artifact.PhaseStable)
	require.NotNil(t, d)
	assert.Equal(t, diag.CodeRFCStatusPhaseForbidden, d.Code)
	assert.Equal(t, diag.Error, d.Severity)

	d = CheckCompat("RFC-0001", artifact.RFCDeprecated, artifact.PhaseSpec)
	require.NotNil(t, d)
	assert.Equal(t, diag.CodeStatusPhaseWarn, d.Code)
	assert.Equal(t, diag.Warning, d.Severity)

	assert.Nil(t, CheckCompat("RFC-0001", artifact.RFCNormative, artifact.PhaseImpl))
}

func TestRFCStatusTransitions(t *testing.T) {
	// Forward edge.
	r := CheckRFCStatus(rfc(artifact.RFCDraft, artifact.PhaseSpec), artifact.RFCNormative)
	assert.False(t, r.HasErrors())

	// No backward edges.
	r = CheckRFCStatus(rfc(artifact.RFCNormative, artifact.PhaseSpec), artifact.RFCDraft)
	assert.True(t, r.HasErrors())

	// Deprecated is terminal.
	r = CheckRFCStatus(rfc(artifact.RFCDeprecated, artifact.PhaseStable), artifact.RFCNormative)
	assert.True(t, r.HasErrors())

	// Deprecating a spec-phase RFC is allowed with a warning.
	r = CheckRFCStatus(rfc(artifact.RFCNormative, artifact.PhaseSpec), artifact.RFCDeprecated)
	assert.False(t, r.HasErrors())
	require.Len(t, r.Diagnostics, 1)
	assert.Equal(t, diag.CodeStatusPhaseWarn, r.Diagnostics[0].Code)
}

func TestRFCPhaseTransitions(t *testing.T) {
	// A draft may not leave spec.
	r := CheckRFCPhase(rfc(artifact.RFCDraft, artifact.PhaseSpec), artifact.PhaseImpl)
	assert.True(t, r.HasErrors())

	// Normative advances one step at a time.
	r = CheckRFCPhase(rfc(artifact.RFCNormative, artifact.PhaseSpec), artifact.PhaseImpl)
	assert.False(t, r.HasErrors())

	// Skipping a phase is rejected.
	r = CheckRFCPhase(rfc(artifact.RFCNormative, artifact.PhaseSpec), artifact.PhaseTest)
	assert.True(t, r.HasErrors())

	// Stable is terminal.
	r = CheckRFCPhase(rfc(artifact.RFCNormative, artifact.PhaseStable), artifact.PhaseTest)
	assert.True(t, r.HasErrors())
}

func TestClauseTransitions(t *testing.T) {
	active := &artifact.Clause{ID: "C-A", Status: artifact.ClauseActive}
	assert.False(t, CheckClauseStatus("RFC-0001:C-A", active, artifact.ClauseSuperseded).HasErrors())
	assert.False(t, CheckClauseStatus("RFC-0001:C-A", active, artifact.ClauseDeprecated).HasErrors())

	superseded := &artifact.Clause{ID: "C-A", Status: artifact.ClauseSuperseded}
	assert.True(t, CheckClauseStatus("RFC-0001:C-A", superseded, artifact.ClauseActive).HasErrors())
	assert.True(t, CheckClauseStatus("RFC-0001:C-A", superseded, artifact.ClauseDeprecated).HasErrors())
}

func TestADRTransitions(t *testing.T) {
	proposed := &artifact.ADR{ID: "ADR-0001", Status: artifact.ADRProposed}
	assert.False(t, CheckADRStatus(proposed, artifact.ADRAccepted).HasErrors())
	assert.False(t, CheckADRStatus(proposed, artifact.ADRRejected).HasErrors())
	assert.True(t, CheckADRStatus(proposed, artifact.ADRSuperseded).HasErrors())

	rejected := &artifact.ADR{ID: "ADR-0001", Status: artifact.ADRRejected}
	assert.True(t, CheckADRStatus(rejected, artifact.ADRAccepted).HasErrors())
}

func TestWorkDoneGate(t *testing.T) {
	w := &artifact.WorkItem{ID: "WI-0001", Title: "w", Status: artifact.WorkActive}

	// No criteria at all blocks done.
	r := CheckWorkStatus(w, artifact.WorkDone)
	require.True(t, r.HasErrors())
	assert.Equal(t, diag.CodeWorkDoneGate, r.Diagnostics[0].Code)

	// A pending criterion blocks done.
	w.Criteria = []artifact.Criterion{
		{Text: "fix: Fix typo", Status: artifact.CriterionDone},
		{Text: "add docs", Status: artifact.CriterionPending},
	}
	assert.True(t, CheckWorkStatus(w, artifact.WorkDone).HasErrors())

	// Cancelled criteria do not block.
	w.Criteria[1].Status = artifact.CriterionCancelled
	assert.False(t, CheckWorkStatus(w, artifact.WorkDone).HasErrors())

	// Queue cannot jump straight to done.
	queued := &artifact.WorkItem{ID: "WI-0002", Status: artifact.WorkQueue,
		Criteria: []artifact.Criterion{{Text: "x", Status: artifact.CriterionDone}}}
	assert.True(t, CheckWorkStatus(queued, artifact.WorkDone).HasErrors())

	// Cancel is reachable from queue and active, done is terminal.
	assert.False(t, CheckWorkStatus(queued, artifact.WorkCancelled).HasErrors())
	done := &artifact.WorkItem{ID: "WI-0003", Status: artifact.WorkDone}
	assert.True(t, CheckWorkStatus(done, artifact.WorkActive).HasErrors())
}

func TestCheckAmendment(t *testing.T) {
	frozen := rfc(artifact.RFCNormative, artifact.PhaseStable)
	d := CheckAmendment(frozen)
	require.NotNil(t, d)
	assert.Equal(t, diag.CodeAmendmentRequired, d.Code)

	frozen.Amendable = true
	assert.Nil(t, CheckAmendment(frozen))

	// Phase alone never freezes a non-normative RFC.
	assert.Nil(t, CheckAmendment(rfc(artifact.RFCDraft, artifact.PhaseSpec)))
	assert.Nil(t, CheckAmendment(rfc(artifact.RFCNormative, artifact.PhaseTest)))
}

func TestValidateAll(t *testing.T) {
	entry := &store.RFCEntry{
		RFC: &artifact.RFC{
			ID: "RFC-0001", Title: "t", Version: "1.0.0",
			Status: artifact.RFCNormative, Phase: artifact.PhaseImpl,
			Sections: []artifact.Section{
				{Title: "Core", Clauses: []string{"C-A", "C-A", "C-MISSING"}},
			},
			Changelog: []artifact.ChangelogEntry{{Version: "1.0.0", Date: "2026-08-26", Summary: "initial"}},
		},
		Clauses: []*artifact.Clause{
			{ID: "C-A", Title: "a", Kind: artifact.ClauseNormative,
				Status: artifact.ClauseSuperseded, Text: "x", Since: "1.0.0"},
		},
	}
	snap := &store.Snapshot{
		RFCs: []*store.RFCEntry{entry},
		ADRs: []*artifact.ADR{
			{ID: "ADR-0001", Title: "d", Status: artifact.ADRSuperseded},
		},
		Work: []*artifact.WorkItem{
			{ID: "WI-0001", Title: "w", Status: artifact.WorkDone},
		},
	}

	r := ValidateAll(snap)
	codes := map[diag.Code]int{}
	for _, d := range r.Diagnostics {
		codes[d.Code]++
	}

	assert.Equal(t, 1, codes[diag.CodeClauseDuplicate], "C-A listed twice")
	assert.Equal(t, 1, codes[diag.CodeClauseNotFound], "C-MISSING")
	assert.Equal(t, 1, codes[diag.CodeClauseSupersededBy], "superseded without superseded_by")
	assert.Equal(t, 1, codes[diag.CodeADRNoRefs])
	assert.Equal(t, 1, codes[diag.CodeADRInvalidTransition], "superseded adr without superseded_by")
	assert.Equal(t, 1, codes[diag.CodeWorkDoneGate], "done with no criteria")
}
