package artifact

import "strings"

// Kind identifies the type of a governed artifact.
type Kind string

const (
	KindRFC      Kind = "rfc"
	KindClause   Kind = "clause"
	KindADR      Kind = "adr"
	KindWorkItem Kind = "work"
)

// IsValid reports whether the kind is a known value.
func (k Kind) IsValid() bool {
	switch k {
	case KindRFC, KindClause, KindADR, KindWorkItem:
		return true
	}
	return false
}

// RFCStatus is the lifecycle status of an RFC.
type RFCStatus string

const (
	RFCDraft      RFCStatus = "draft"
	RFCNormative  RFCStatus = "normative"
	RFCDeprecated RFCStatus = "deprecated"
)

// IsValid reports whether the status is a known value.
func (s RFCStatus) IsValid() bool {
	switch s {
	case RFCDraft, RFCNormative, RFCDeprecated:
		return true
	}
	return false
}

// RFCPhase is the delivery phase of an RFC.
type RFCPhase string

const (
	PhaseSpec   RFCPhase = "spec"
	PhaseImpl   RFCPhase = "impl"
	PhaseTest   RFCPhase = "test"
	PhaseStable RFCPhase = "stable"
)

// IsValid reports whether the phase is a known value.
func (p RFCPhase) IsValid() bool {
	switch p {
	case PhaseSpec, PhaseImpl, PhaseTest, PhaseStable:
		return true
	}
	return false
}

// ClauseKind distinguishes normative from informative clauses.
type ClauseKind string

const (
	ClauseNormative   ClauseKind = "normative"
	ClauseInformative ClauseKind = "informative"
)

// IsValid reports whether the kind is a known value.
func (k ClauseKind) IsValid() bool {
	return k == ClauseNormative || k == ClauseInformative
}

// ClauseStatus is the lifecycle status of a clause.
type ClauseStatus string

const (
	ClauseActive     ClauseStatus = "active"
	ClauseSuperseded ClauseStatus = "superseded"
	ClauseDeprecated ClauseStatus = "deprecated"
)

// IsValid reports whether the status is a known value.
func (s ClauseStatus) IsValid() bool {
	switch s {
	case ClauseActive, ClauseSuperseded, ClauseDeprecated:
		return true
	}
	return false
}

// ADRStatus is the lifecycle status of a decision record.
type ADRStatus string

const (
	ADRProposed   ADRStatus = "proposed"
	ADRAccepted   ADRStatus = "accepted"
	ADRRejected   ADRStatus = "rejected"
	ADRSuperseded ADRStatus = "superseded"
)

// IsValid reports whether the status is a known value.
func (s ADRStatus) IsValid() bool {
	switch s {
	case ADRProposed, ADRAccepted, ADRRejected, ADRSuperseded:
		return true
	}
	return false
}

// WorkStatus is the lifecycle status of a work item.
type WorkStatus string

const (
	WorkQueue     WorkStatus = "queue"
	WorkActive    WorkStatus = "active"
	WorkDone      WorkStatus = "done"
	WorkCancelled WorkStatus = "cancelled"
)

// IsValid reports whether the status is a known value.
func (s WorkStatus) IsValid() bool {
	switch s {
	case WorkQueue, WorkActive, WorkDone, WorkCancelled:
		return true
	}
	return false
}

// CriterionStatus is the checklist state of one acceptance criterion.
type CriterionStatus string

const (
	CriterionPending   CriterionStatus = "pending"
	CriterionDone      CriterionStatus = "done"
	CriterionCancelled CriterionStatus = "cancelled"
)

// IsValid reports whether the status is a known value.
func (s CriterionStatus) IsValid() bool {
	switch s {
	case CriterionPending, CriterionDone, CriterionCancelled:
		return true
	}
	return false
}

// ChangelogCategory is a Keep-a-Changelog section for a criterion.
type ChangelogCategory string

const (
	CategoryAdded      ChangelogCategory = "added"
	CategoryChanged    ChangelogCategory = "changed"
	CategoryDeprecated ChangelogCategory = "deprecated"
	CategoryRemoved    ChangelogCategory = "removed"
	CategoryFixed      ChangelogCategory = "fixed"
	CategorySecurity   ChangelogCategory = "security"
	// CategoryChore is valid on a criterion but excluded from generated
	// changelogs.
	CategoryChore ChangelogCategory = "chore"
)

// IsValid reports whether the category is a known value.
func (c ChangelogCategory) IsValid() bool {
	switch c {
	case CategoryAdded, CategoryChanged, CategoryDeprecated,
		CategoryRemoved, CategoryFixed, CategorySecurity, CategoryChore:
		return true
	}
	return false
}

// categoryPrefixes maps criterion text prefixes to categories. A criterion
// with no recognized prefix deliberately defaults to Added rather than
// failing: unclassified work is still user-visible work.
var categoryPrefixes = map[string]ChangelogCategory{
	"add":        CategoryAdded,
	"added":      CategoryAdded,
	"changed":    CategoryChanged,
	"change":     CategoryChanged,
	"deprecated": CategoryDeprecated,
	"removed":    CategoryRemoved,
	"remove":     CategoryRemoved,
	"fix":        CategoryFixed,
	"fixed":      CategoryFixed,
	"security":   CategorySecurity,
	"chore":      CategoryChore,
}

// ParseCategory splits a criterion text of the form "prefix: rest" into its
// changelog category and remaining text. Text without a recognized prefix
// maps to CategoryAdded with the text unchanged.
func ParseCategory(text string) (ChangelogCategory, string) {
	if prefix, rest, ok := strings.Cut(text, ":"); ok {
		if cat, known := categoryPrefixes[strings.ToLower(strings.TrimSpace(prefix))]; known {
			return cat, strings.TrimSpace(rest)
		}
	}
	return CategoryAdded, strings.TrimSpace(text)
}
