// Package diag defines the diagnostic codes and reports produced by
// validation. Business-rule violations are accumulated as diagnostics rather
// than raised as errors, so a single check pass reports every problem across
// the store. Only unreadable or corrupt storage is fatal, and that surfaces
// as a Go error instead.
package diag

import (
	"fmt"
	"sort"
)

// Severity of a diagnostic.
type Severity string

const (
	Error   Severity = "error"
	Warning Severity = "warning"
)

// Code is a stable diagnostic code. Codes starting with W are warnings,
// everything else is an error. The numbering groups codes by artifact kind:
// 01xx RFC, 02xx clause, 03xx ADR, 04xx work item, 05xx config, 06xx
// signature, 07xx references.
type Code string

const (
	CodeRFCSchemaInvalid        Code = "E0101"
	CodeRFCNotFound             Code = "E0102"
	CodeRFCInvalidTransition    Code = "E0104"
	CodeRFCStatusPhaseForbidden Code = "E0106"

	CodeClauseSchemaInvalid     Code = "E0201"
	CodeClauseNotFound          Code = "E0202"
	CodeClauseDuplicate         Code = "E0205"
	CodeClauseInvalidTransition Code = "E0206"
	CodeClauseSupersededBy      Code = "E0207"

	CodeADRSchemaInvalid     Code = "E0301"
	CodeADRNotFound          Code = "E0302"
	CodeADRInvalidTransition Code = "E0303"

	CodeWorkSchemaInvalid     Code = "E0401"
	CodeWorkNotFound          Code = "E0402"
	CodeWorkInvalidTransition Code = "E0403"
	CodeWorkDoneGate          Code = "E0405"

	CodeConfigInvalid Code = "E0501"

	CodeTamperOrStale    Code = "E0601"
	CodeSignatureMissing Code = "E0602"

	CodeDanglingReference Code = "E0701"
	CodeDeleteBlocked     Code = "E0702"
	CodeAmendmentRequired Code = "E0703"

	CodeRFCNoChangelog     Code = "W0101"
	CodeClauseNoSince      Code = "W0102"
	CodeADRNoRefs          Code = "W0103"
	CodeStatusPhaseWarn    Code = "W0106"
	CodeOutdatedReference  Code = "W0107"
	CodeStaleSourceMention Code = "W0108"
)

// Level returns the severity implied by the code.
func (c Code) Level() Severity {
	if len(c) > 0 && c[0] == 'W' {
		return Warning
	}
	return Error
}

// Diagnostic is one reported problem, carrying a stable code, a
// human-readable message, and the offending artifact id (or file path for
// source-tree findings).
type Diagnostic struct {
	Code     Code     `json:"code"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Artifact string   `json:"artifact"`
}

// New builds a diagnostic with its severity derived from the code.
func New(code Code, artifact, format string, args ...any) Diagnostic {
	return Diagnostic{
		Code:     code,
		Severity: code.Level(),
		Message:  fmt.Sprintf(format, args...),
		Artifact: artifact,
	}
}

// String renders the diagnostic in "severity[code]: message (artifact)" form.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s[%s]: %s (%s)", d.Severity, d.Code, d.Message, d.Artifact)
}

// Report accumulates diagnostics across a validation pass.
type Report struct {
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Add appends diagnostics to the report.
func (r *Report) Add(ds ...Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, ds...)
}

// Addf builds and appends a single diagnostic.
func (r *Report) Addf(code Code, artifact, format string, args ...any) {
	r.Add(New(code, artifact, format, args...))
}

// Merge appends every diagnostic from another report.
func (r *Report) Merge(other Report) {
	r.Diagnostics = append(r.Diagnostics, other.Diagnostics...)
}

// Sort orders diagnostics by artifact id, then severity (errors first), then
// code, giving diffable output across runs.
func (r *Report) Sort() {
	sort.SliceStable(r.Diagnostics, func(i, j int) bool {
		a, b := r.Diagnostics[i], r.Diagnostics[j]
		if a.Artifact != b.Artifact {
			return a.Artifact < b.Artifact
		}
		if a.Severity != b.Severity {
			return a.Severity == Error
		}
		return a.Code < b.Code
	})
}

// HasErrors reports whether any diagnostic is an error. The read-only
// methods take value receivers so they are callable on a returned Report
// without binding it to a variable first.
func (r Report) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Counts returns the number of errors and warnings.
func (r Report) Counts() (errors, warnings int) {
	for _, d := range r.Diagnostics {
		if d.Severity == Error {
			errors++
		} else {
			warnings++
		}
	}
	return errors, warnings
}

// ExitCode maps the report to a process exit code: any error fails; warnings
// fail only in strict mode.
func (r Report) ExitCode(strict bool) int {
	errs, warns := r.Counts()
	if errs > 0 || (strict && warns > 0) {
		return 1
	}
	return 0
}
