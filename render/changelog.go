package render

import (
	"fmt"
	"strings"

	"github.com/c360studio/govspec/artifact"
)

const changelogHeader = `# Changelog

All notable changes to this project will be documented in this file.

The format is based on [Keep a Changelog](https://keepachangelog.com/en/1.1.0/),
and this project adheres to [Semantic Versioning](https://semver.org/spec/v2.0.0.html).

`

// Keep-a-Changelog section order.
var categoryOrder = []struct {
	cat   artifact.ChangelogCategory
	label string
}{
	{artifact.CategoryAdded, "Added"},
	{artifact.CategoryChanged, "Changed"},
	{artifact.CategoryDeprecated, "Deprecated"},
	{artifact.CategoryRemoved, "Removed"},
	{artifact.CategoryFixed, "Fixed"},
	{artifact.CategorySecurity, "Security"},
}

// Changelog generates the project changelog from completed work items. Done
// acceptance criteria are grouped by changelog category into Keep-a-Changelog
// sections. Items not named by any release land in [Unreleased]. By default
// only the header and [Unreleased] section are regenerated and the released
// sections of the existing file are preserved verbatim; force regenerates the
// released sections from the release history as well.
func Changelog(items []*artifact.WorkItem, releases artifact.Releases, existing string, force bool) string {
	byID := make(map[string]*artifact.WorkItem, len(items))
	for _, w := range items {
		byID[w.ID] = w
	}

	released := map[string]bool{}
	for _, rel := range releases.Releases {
		for _, id := range rel.Refs {
			released[id] = true
		}
	}

	var unreleased []*artifact.WorkItem
	for _, w := range items {
		if w.Status == artifact.WorkDone && !released[w.ID] {
			unreleased = append(unreleased, w)
		}
	}

	var b strings.Builder
	b.WriteString(changelogHeader)

	if len(unreleased) > 0 {
		b.WriteString("## [Unreleased]\n\n")
		writeChangelogSection(&b, unreleased)
	}

	if force || existing == "" {
		for _, rel := range releases.Releases {
			fmt.Fprintf(&b, "## [%s] - %s\n\n", rel.Version, rel.Date)
			var relItems []*artifact.WorkItem
			for _, id := range rel.Refs {
				if w, ok := byID[id]; ok {
					relItems = append(relItems, w)
				}
			}
			if len(relItems) == 0 {
				b.WriteString("*No changes recorded.*\n\n")
				continue
			}
			writeChangelogSection(&b, relItems)
		}
		return b.String()
	}

	if tail := releasedSections(existing); tail != "" {
		b.WriteString(tail)
	}
	return b.String()
}

// writeChangelogSection groups the done criteria of items by category and
// writes one Keep-a-Changelog block per non-empty category. Chore criteria
// are excluded entirely.
func writeChangelogSection(b *strings.Builder, items []*artifact.WorkItem) {
	grouped := map[artifact.ChangelogCategory][]string{}
	for _, w := range items {
		for _, c := range w.Criteria {
			if c.Status != artifact.CriterionDone {
				continue
			}
			cat, text := criterionCategory(c)
			if cat == artifact.CategoryChore {
				continue
			}
			grouped[cat] = append(grouped[cat], fmt.Sprintf("- %s (%s)", text, w.ID))
		}
	}

	for _, entry := range categoryOrder {
		lines := grouped[entry.cat]
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintf(b, "### %s\n\n", entry.label)
		for _, line := range lines {
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
}

// criterionCategory resolves a criterion's category: the explicit field
// wins, otherwise the text prefix decides, defaulting to Added.
func criterionCategory(c artifact.Criterion) (artifact.ChangelogCategory, string) {
	cat, text := artifact.ParseCategory(c.Text)
	if c.Category != "" && c.Category.IsValid() {
		return c.Category, text
	}
	return cat, text
}

// releasedSections returns the existing file from its first released version
// heading onward, skipping the header and any [Unreleased] block.
func releasedSections(existing string) string {
	lines := strings.Split(existing, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "## [") && !strings.HasPrefix(trimmed, "## [Unreleased]") {
			return strings.Join(lines[i:], "\n")
		}
	}
	return ""
}
