// Package render projects validated, signed artifacts into markdown.
// Projections are derived output: each one opens with a generated-file
// banner and the signature of its canonical source, and rendering the same
// source twice produces byte-identical text.
package render

import (
	"fmt"
	"strings"

	"github.com/c360studio/govspec/artifact"
	"github.com/c360studio/govspec/refs"
	"github.com/c360studio/govspec/signature"
	"github.com/c360studio/govspec/store"
)

// linkTarget maps an artifact id to a markdown link target relative to the
// rendered file's directory. Projections live in sibling directories per
// kind (docs/rfc, docs/adr, docs/work).
func linkTarget(fromKind artifact.Kind, id string) string {
	base, clause := artifact.SplitRef(id)
	kind, err := artifact.KindOfID(base)
	if err != nil {
		return ""
	}
	target := base + ".md"
	if kind != fromKind {
		target = fmt.Sprintf("../%s/%s", kind, target)
	}
	if clause != "" {
		target += "#" + strings.ToLower(clause)
	}
	return target
}

// expand replaces every resolvable mention in text with a markdown link.
// Unknown ids are left untouched; the resolver reports those separately.
func expand(text string, fromKind artifact.Kind, ix *refs.Index, m refs.Replacer) string {
	return m.Replace(text, func(id string) (string, bool) {
		if _, known := ix.Resolve(id); !known {
			return "", false
		}
		target := linkTarget(fromKind, id)
		if target == "" {
			return "", false
		}
		return fmt.Sprintf("[%s](%s)", id, target), true
	})
}

// link renders one structured reference as a markdown link. Structured refs
// carry bare ids, so they are expanded directly rather than through the
// configurable mention syntax. Unknown ids fall back to plain text.
func link(fromKind artifact.Kind, id string, ix *refs.Index) string {
	if _, known := ix.Resolve(id); !known {
		return id
	}
	target := linkTarget(fromKind, id)
	if target == "" {
		return id
	}
	return fmt.Sprintf("[%s](%s)", id, target)
}

// RFC renders an RFC and its clauses to markdown: signature header, title,
// version line, sections in declared order, each clause with id, title,
// kind, status and text, inline mentions expanded into links.
func RFC(e *store.RFCEntry, sig string, ix *refs.Index, m refs.Replacer) string {
	var b strings.Builder
	rfc := e.RFC

	b.WriteString(signature.Header(rfc.ID, sig))
	b.WriteString("\n")
	fmt.Fprintf(&b, "# %s: %s\n\n", rfc.ID, rfc.Title)
	fmt.Fprintf(&b, "> **Version:** %s | **Status:** %s | **Phase:** %s\n\n",
		rfc.Version, rfc.Status, rfc.Phase)

	for i, section := range rfc.Sections {
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, section.Title)
		for _, clauseID := range section.Clauses {
			clause := e.FindClause(clauseID)
			if clause == nil {
				continue
			}
			writeClause(&b, rfc.ID, clause, ix, m)
		}
	}

	if len(rfc.Changelog) > 0 {
		b.WriteString("## Changelog\n\n")
		for _, entry := range rfc.Changelog {
			fmt.Fprintf(&b, "### v%s (%s)\n\n%s\n\n", entry.Version, entry.Date, entry.Summary)
			if len(entry.Changes) > 0 {
				for _, change := range entry.Changes {
					fmt.Fprintf(&b, "- %s\n", change)
				}
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

func writeClause(b *strings.Builder, rfcID string, c *artifact.Clause, ix *refs.Index, m refs.Replacer) {
	kindMarker := "(Normative)"
	if c.Kind == artifact.ClauseInformative {
		kindMarker = "(Informative)"
	}
	statusMarker := ""
	switch c.Status {
	case artifact.ClauseDeprecated:
		statusMarker = " ~~DEPRECATED~~"
	case artifact.ClauseSuperseded:
		statusMarker = " ~~SUPERSEDED~~"
	}

	fmt.Fprintf(b, "### [%s] %s %s%s\n\n",
		artifact.ClauseRef(rfcID, c.ID), c.Title, kindMarker, statusMarker)
	fmt.Fprintf(b, "%s\n\n", expand(c.Text, artifact.KindRFC, ix, m))

	if c.SupersededBy != "" {
		fmt.Fprintf(b, "> **Superseded by:** [%s](#%s)\n\n",
			c.SupersededBy, strings.ToLower(c.SupersededBy))
	}
	if c.Since != "" {
		fmt.Fprintf(b, "*Since: v%s*\n\n", c.Since)
	}
}

// ADR renders a decision record: context, decision, consequences, and the
// rejected alternatives.
func ADR(a *artifact.ADR, sig string, ix *refs.Index, m refs.Replacer) string {
	var b strings.Builder

	b.WriteString(signature.Header(a.ID, sig))
	b.WriteString("\n")
	fmt.Fprintf(&b, "# %s: %s\n\n", a.ID, a.Title)
	fmt.Fprintf(&b, "> **Status:** %s", a.Status)
	if a.Date != "" {
		fmt.Fprintf(&b, " | **Date:** %s", a.Date)
	}
	b.WriteString("\n\n")

	if a.SupersededBy != "" {
		fmt.Fprintf(&b, "> **Superseded by:** %s\n\n",
			link(artifact.KindADR, a.SupersededBy, ix))
	}

	fmt.Fprintf(&b, "## Context\n\n%s\n\n", expand(a.Context, artifact.KindADR, ix, m))
	fmt.Fprintf(&b, "## Decision\n\n%s\n\n", expand(a.Decision, artifact.KindADR, ix, m))
	if a.Consequences != "" {
		fmt.Fprintf(&b, "## Consequences\n\n%s\n\n", expand(a.Consequences, artifact.KindADR, ix, m))
	}

	if len(a.Alternatives) > 0 {
		b.WriteString("## Alternatives Considered\n\n")
		for _, alt := range a.Alternatives {
			fmt.Fprintf(&b, "- %s\n", alt.Text)
			for _, pro := range alt.Pros {
				fmt.Fprintf(&b, "  - pro: %s\n", pro)
			}
			for _, con := range alt.Cons {
				fmt.Fprintf(&b, "  - con: %s\n", con)
			}
			if alt.Rejection != "" {
				fmt.Fprintf(&b, "  - rejected: %s\n", alt.Rejection)
			}
		}
		b.WriteString("\n")
	}

	writeRefs(&b, artifact.KindADR, a.Refs, ix)
	return b.String()
}

// WorkItem renders a work item with its acceptance criteria as a checklist:
// pending unchecked, done checked, cancelled struck through.
func WorkItem(w *artifact.WorkItem, sig string, ix *refs.Index, m refs.Replacer) string {
	var b strings.Builder

	b.WriteString(signature.Header(w.ID, sig))
	b.WriteString("\n")
	fmt.Fprintf(&b, "# %s: %s\n\n", w.ID, w.Title)
	fmt.Fprintf(&b, "> **Status:** %s\n\n", w.Status)

	if w.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", expand(w.Description, artifact.KindWorkItem, ix, m))
	}

	if len(w.Criteria) > 0 {
		b.WriteString("## Acceptance Criteria\n\n")
		for _, c := range w.Criteria {
			b.WriteString(CriterionLine(c))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(w.Notes) > 0 {
		b.WriteString("## Notes\n\n")
		for _, n := range w.Notes {
			fmt.Fprintf(&b, "- %s\n", expand(n, artifact.KindWorkItem, ix, m))
		}
		b.WriteString("\n")
	}

	writeRefs(&b, artifact.KindWorkItem, w.Refs, ix)
	return b.String()
}

// CriterionLine formats one checklist line for a criterion.
func CriterionLine(c artifact.Criterion) string {
	switch c.Status {
	case artifact.CriterionDone:
		return fmt.Sprintf("- [x] %s", c.Text)
	case artifact.CriterionCancelled:
		return fmt.Sprintf("- [ ] ~~%s~~", c.Text)
	default:
		return fmt.Sprintf("- [ ] %s", c.Text)
	}
}

func writeRefs(b *strings.Builder, fromKind artifact.Kind, ids []string, ix *refs.Index) {
	if len(ids) == 0 {
		return
	}
	b.WriteString("## References\n\n")
	for _, id := range ids {
		fmt.Fprintf(b, "- %s\n", link(fromKind, id, ix))
	}
	b.WriteString("\n")
}
