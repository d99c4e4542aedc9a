package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/c360studio/govspec/artifact"
)

func doneItem(id string, criteria ...artifact.Criterion) *artifact.WorkItem {
	return &artifact.WorkItem{ID: id, Title: id, Status: artifact.WorkDone, Criteria: criteria}
}

func TestChangelogGroupsByCategory(t *testing.T) {
	items := []*artifact.WorkItem{
		doneItem("WI-0001",
			artifact.Criterion{Text: "add: retry budget", Status: artifact.CriterionDone},
			artifact.Criterion{Text: "fix: Fix typo", Status: artifact.CriterionDone},
			artifact.Criterion{Text: "chore: refactor internals", Status: artifact.CriterionDone},
			artifact.Criterion{Text: "left undone", Status: artifact.CriterionPending},
		),
		doneItem("WI-0002",
			artifact.Criterion{Text: "documented the endpoint", Status: artifact.CriterionDone},
		),
	}

	out := Changelog(items, artifact.Releases{}, "", false)

	assert.True(t, strings.HasPrefix(out, "# Changelog"))
	assert.Contains(t, out, "Keep a Changelog")
	assert.Contains(t, out, "## [Unreleased]")
	assert.Contains(t, out, "### Added\n\n- retry budget (WI-0001)\n- documented the endpoint (WI-0002)")
	assert.Contains(t, out, "### Fixed\n\n- Fix typo (WI-0001)")

	// Chore and non-done criteria never surface.
	assert.NotContains(t, out, "refactor internals")
	assert.NotContains(t, out, "left undone")

	// Added comes before Fixed.
	assert.Less(t, strings.Index(out, "### Added"), strings.Index(out, "### Fixed"))
}

func TestChangelogExplicitCategoryWins(t *testing.T) {
	items := []*artifact.WorkItem{
		doneItem("WI-0001", artifact.Criterion{
			Text: "fix: hardened the parser", Status: artifact.CriterionDone,
			Category: artifact.CategorySecurity,
		}),
	}
	out := Changelog(items, artifact.Releases{}, "", false)
	assert.Contains(t, out, "### Security\n\n- hardened the parser (WI-0001)")
	assert.NotContains(t, out, "### Fixed")
}

func TestChangelogSkipsNonDoneItems(t *testing.T) {
	items := []*artifact.WorkItem{
		{ID: "WI-0001", Title: "w", Status: artifact.WorkActive,
			Criteria: []artifact.Criterion{{Text: "add: thing", Status: artifact.CriterionDone}}},
	}
	out := Changelog(items, artifact.Releases{}, "", false)
	assert.NotContains(t, out, "## [Unreleased]")
	assert.NotContains(t, out, "thing")
}

func TestChangelogReleasedItemsLeaveUnreleased(t *testing.T) {
	items := []*artifact.WorkItem{
		doneItem("WI-0001", artifact.Criterion{Text: "add: shipped", Status: artifact.CriterionDone}),
		doneItem("WI-0002", artifact.Criterion{Text: "add: pending ship", Status: artifact.CriterionDone}),
	}
	releases := artifact.Releases{Releases: []artifact.Release{
		{Version: "1.0.0", Date: "2026-08-01", Refs: []string{"WI-0001"}},
	}}

	out := Changelog(items, releases, "", false)

	unreleased := out[strings.Index(out, "## [Unreleased]"):strings.Index(out, "## [1.0.0]")]
	assert.Contains(t, unreleased, "pending ship (WI-0002)")
	assert.NotContains(t, unreleased, "shipped (WI-0001)")
	assert.Contains(t, out, "## [1.0.0] - 2026-08-01")
	assert.Contains(t, out, "- shipped (WI-0001)")
}

func TestChangelogMergePreservesReleasedSections(t *testing.T) {
	existing := strings.Join([]string{
		"# Changelog", "",
		"## [Unreleased]", "",
		"### Added", "",
		"- stale line (WI-0000)", "",
		"## [1.0.0] - 2026-08-01", "",
		"### Added", "",
		"- hand-tuned release note", "",
	}, "\n")

	items := []*artifact.WorkItem{
		doneItem("WI-0002", artifact.Criterion{Text: "add: fresh work", Status: artifact.CriterionDone}),
	}
	releases := artifact.Releases{Releases: []artifact.Release{
		{Version: "1.0.0", Date: "2026-08-01", Refs: []string{"WI-0001"}},
	}}

	out := Changelog(items, releases, existing, false)

	// Unreleased is regenerated, released text is kept verbatim.
	assert.Contains(t, out, "fresh work (WI-0002)")
	assert.NotContains(t, out, "stale line")
	assert.Contains(t, out, "- hand-tuned release note")
	assert.NotContains(t, out, "*No changes recorded.*")
}

func TestChangelogForceRegeneratesReleases(t *testing.T) {
	existing := "# Changelog\n\n## [1.0.0] - 2026-08-01\n\n### Added\n\n- hand-tuned release note\n"
	items := []*artifact.WorkItem{
		doneItem("WI-0001", artifact.Criterion{Text: "add: shipped", Status: artifact.CriterionDone}),
	}
	releases := artifact.Releases{Releases: []artifact.Release{
		{Version: "1.0.0", Date: "2026-08-01", Refs: []string{"WI-0001"}},
	}}

	out := Changelog(items, releases, existing, true)

	assert.NotContains(t, out, "hand-tuned release note")
	assert.Contains(t, out, "## [1.0.0] - 2026-08-01")
	assert.Contains(t, out, "- shipped (WI-0001)")
}

func TestChangelogIdempotent(t *testing.T) {
	items := []*artifact.WorkItem{
		doneItem("WI-0001", artifact.Criterion{Text: "add: thing", Status: artifact.CriterionDone}),
	}
	first := Changelog(items, artifact.Releases{}, "", false)
	second := Changelog(items, artifact.Releases{}, first, false)
	assert.Equal(t, first, second)
}
