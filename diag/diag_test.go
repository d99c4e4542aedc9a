package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeLevel(t *testing.T) {
	assert.Equal(t, Error, CodeRFCInvalidTransition.Level())
	assert.Equal(t, Error, CodeDanglingReference.Level())
	assert.Equal(t, Warning, CodeOutdatedReference.Level())
	assert.Equal(t, Warning, CodeRFCNoChangelog.Level())
}

func TestReportAccumulates(t *testing.T) {
	var r Report
	r.Addf(CodeRFCNoChangelog, "RFC-0002", "no changelog")
	r.Addf(CodeClauseDuplicate, "RFC-0001", "duplicate clause id %s", "C-A")
	r.Addf(CodeClauseNoSince, "RFC-0001", "no since")

	var other Report
	other.Addf(CodeWorkDoneGate, "WI-0001", "pending criteria")
	r.Merge(other)

	assert.Len(t, r.Diagnostics, 4)
	assert.True(t, r.HasErrors())

	errors, warnings := r.Counts()
	assert.Equal(t, 2, errors)
	assert.Equal(t, 2, warnings)
}

func TestReportReadMethodsOnReturnValue(t *testing.T) {
	build := func(codes ...Code) Report {
		var r Report
		for _, c := range codes {
			r.Addf(c, "RFC-0001", "finding")
		}
		return r
	}

	// The read-only methods must work directly on a function's return value,
	// the way validator results are consumed.
	assert.True(t, build(CodeClauseDuplicate).HasErrors())
	assert.False(t, build(CodeClauseNoSince).HasErrors())

	errors, warnings := build(CodeClauseDuplicate, CodeClauseNoSince).Counts()
	assert.Equal(t, 1, errors)
	assert.Equal(t, 1, warnings)

	assert.Equal(t, 1, build(CodeClauseDuplicate).ExitCode(false))
	assert.Equal(t, 0, build(CodeClauseNoSince).ExitCode(false))
}

func TestReportSortIsDeterministic(t *testing.T) {
	var r Report
	r.Addf(CodeClauseNoSince, "RFC-0002", "warn second")
	r.Addf(CodeRFCNoChangelog, "RFC-0001", "warn first")
	r.Addf(CodeClauseDuplicate, "RFC-0001", "error first")
	r.Sort()

	// Grouped by artifact id, errors before warnings within an artifact.
	assert.Equal(t, "RFC-0001", r.Diagnostics[0].Artifact)
	assert.Equal(t, CodeClauseDuplicate, r.Diagnostics[0].Code)
	assert.Equal(t, CodeRFCNoChangelog, r.Diagnostics[1].Code)
	assert.Equal(t, "RFC-0002", r.Diagnostics[2].Artifact)
}

func TestExitCode(t *testing.T) {
	var clean Report
	assert.Equal(t, 0, clean.ExitCode(false))
	assert.Equal(t, 0, clean.ExitCode(true))

	var warnOnly Report
	warnOnly.Addf(CodeClauseNoSince, "RFC-0001", "warn")
	assert.Equal(t, 0, warnOnly.ExitCode(false))
	assert.Equal(t, 1, warnOnly.ExitCode(true))

	var withError Report
	withError.Addf(CodeClauseDuplicate, "RFC-0001", "dup")
	assert.Equal(t, 1, withError.ExitCode(false))
}

func TestDiagnosticString(t *testing.T) {
	d := New(CodeWorkDoneGate, "WI-0001", "item has %d pending criteria", 2)
	assert.Equal(t, Error, d.Severity)
	assert.Contains(t, d.String(), "E0405")
	assert.Contains(t, d.String(), "WI-0001")
	assert.Contains(t, d.String(), "2 pending criteria")
}
