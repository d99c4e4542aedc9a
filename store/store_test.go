package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/govspec/artifact"
	"github.com/c360studio/govspec/config"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	cfg := config.DefaultConfig()
	dir := t.TempDir()
	cfg.Paths.GovRoot = filepath.Join(dir, "gov")
	cfg.Paths.DocsOutput = filepath.Join(dir, "docs")
	return New(cfg)
}

func testRFC(id string) *artifact.RFC {
	return &artifact.RFC{
		ID:      id,
		Title:   "Retry policy",
		Version: "0.1.0",
		Status:  artifact.RFCDraft,
		Phase:   artifact.PhaseSpec,
		Created: "2026-08-26",
		Sections: []artifact.Section{
			{Title: "Core", Clauses: []string{"C-BUDGET"}},
		},
	}
}

func testClause(id string) *artifact.Clause {
	return &artifact.Clause{
		ID:     id,
		Title:  "Retry budget",
		Kind:   artifact.ClauseNormative,
		Status: artifact.ClauseActive,
		Text:   "Outbound calls MUST respect the retry budget.",
		Since:  "0.1.0",
	}
}

func TestRFCRoundTrip(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.SaveRFC(testRFC("RFC-0001")))
	require.NoError(t, s.SaveClause("RFC-0001", testClause("C-BUDGET")))

	entry, err := s.LoadRFC("RFC-0001")
	require.NoError(t, err)
	assert.Equal(t, "Retry policy", entry.RFC.Title)
	require.Len(t, entry.Clauses, 1)
	assert.Equal(t, "C-BUDGET", entry.Clauses[0].ID)
	assert.Equal(t, artifact.ClauseNormative, entry.Clauses[0].Kind)
}

func TestLoadRFCMissing(t *testing.T) {
	s := testStore(t)
	_, err := s.LoadRFC("RFC-9999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadRFCIDMismatch(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.SaveRFC(testRFC("RFC-0001")))

	// Copy the record under the wrong directory name.
	src := filepath.Join(s.cfg.RFCDir(), "RFC-0001", "rfc.json")
	dst := filepath.Join(s.cfg.RFCDir(), "RFC-0002", "rfc.json")
	data, err := os.ReadFile(src)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0o755))
	require.NoError(t, os.WriteFile(dst, data, 0o644))

	_, err = s.LoadRFC("RFC-0002")
	var schema *SchemaError
	require.ErrorAs(t, err, &schema)
	assert.Contains(t, schema.Reason, "does not match")
}

func TestSaveRejectsInvalidRecords(t *testing.T) {
	s := testStore(t)

	missing := testRFC("RFC-0001")
	missing.Title = ""
	var schema *SchemaError
	require.ErrorAs(t, s.SaveRFC(missing), &schema)

	badClause := testClause("C-X")
	badClause.Status = "retired"
	require.ErrorAs(t, s.SaveClause("RFC-0001", badClause), &schema)

	badWork := &artifact.WorkItem{ID: "WI-0001", Title: "x", Status: artifact.WorkQueue,
		Criteria: []artifact.Criterion{{Text: "y", Status: "maybe"}}}
	require.ErrorAs(t, s.SaveWorkItem(badWork), &schema)
}

func TestMalformedJSONIsSchemaError(t *testing.T) {
	s := testStore(t)
	path := filepath.Join(s.cfg.ADRDir(), "ADR-0001.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := s.GetADR("ADR-0001")
	var schema *SchemaError
	require.ErrorAs(t, err, &schema)
	assert.Equal(t, "malformed JSON", schema.Reason)
}

func TestSnapshotSortedByID(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.SaveRFC(testRFC("RFC-0002")))
	require.NoError(t, s.SaveRFC(testRFC("RFC-0001")))
	require.NoError(t, s.SaveADR(&artifact.ADR{ID: "ADR-0002", Title: "b", Status: artifact.ADRProposed}))
	require.NoError(t, s.SaveADR(&artifact.ADR{ID: "ADR-0001", Title: "a", Status: artifact.ADRAccepted}))
	require.NoError(t, s.SaveWorkItem(&artifact.WorkItem{ID: "WI-0002", Title: "w", Status: artifact.WorkQueue}))
	require.NoError(t, s.SaveWorkItem(&artifact.WorkItem{ID: "WI-0001", Title: "v", Status: artifact.WorkDone}))

	snap, err := s.LoadSnapshot()
	require.NoError(t, err)
	require.Len(t, snap.RFCs, 2)
	assert.Equal(t, "RFC-0001", snap.RFCs[0].RFC.ID)
	assert.Equal(t, "ADR-0001", snap.ADRs[0].ID)
	assert.Equal(t, "WI-0001", snap.Work[0].ID)
}

func TestEmptyStoreSnapshot(t *testing.T) {
	s := testStore(t)
	snap, err := s.LoadSnapshot()
	require.NoError(t, err)
	assert.Empty(t, snap.RFCs)
	assert.Empty(t, snap.ADRs)
	assert.Empty(t, snap.Work)
	assert.Empty(t, snap.Releases.Releases)
}

func TestDeleteClauseRewritesParentFirst(t *testing.T) {
	s := testStore(t)
	rfc := testRFC("RFC-0001")
	rfc.Sections[0].Clauses = []string{"C-BUDGET", "C-BACKOFF"}
	require.NoError(t, s.SaveRFC(rfc))
	require.NoError(t, s.SaveClause("RFC-0001", testClause("C-BUDGET")))
	require.NoError(t, s.SaveClause("RFC-0001", testClause("C-BACKOFF")))

	require.NoError(t, s.DeleteClause(rfc, "C-BUDGET"))

	entry, err := s.LoadRFC("RFC-0001")
	require.NoError(t, err)
	assert.Equal(t, []string{"C-BACKOFF"}, entry.RFC.Sections[0].Clauses)
	assert.Nil(t, entry.FindClause("C-BUDGET"))
	assert.NotNil(t, entry.FindClause("C-BACKOFF"))

	_, err = os.Stat(filepath.Join(s.cfg.RFCDir(), "RFC-0001", "C-BUDGET.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestDeleteWorkItem(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.SaveWorkItem(&artifact.WorkItem{ID: "WI-0001", Title: "w", Status: artifact.WorkQueue}))
	require.NoError(t, s.DeleteWorkItem("WI-0001"))
	assert.ErrorIs(t, s.DeleteWorkItem("WI-0001"), ErrNotFound)
}

func TestReleasesRoundTrip(t *testing.T) {
	s := testStore(t)
	rel := &artifact.Releases{Releases: []artifact.Release{
		{Version: "1.0.0", Date: "2026-08-26", Refs: []string{"WI-0001"}},
	}}
	require.NoError(t, s.SaveReleases(rel))

	loaded, err := s.LoadReleases()
	require.NoError(t, err)
	assert.Equal(t, rel, loaded)
}

func TestWriteFileAtomicLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "file.md")
	require.NoError(t, WriteFileAtomic(path, []byte("hello")))
	require.NoError(t, WriteFileAtomic(path, []byte("world")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "world", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	for _, de := range entries {
		assert.False(t, strings.Contains(de.Name(), ".tmp-"), "leftover temp file %s", de.Name())
	}
}

func TestNextIDSequential(t *testing.T) {
	id, err := NextID(config.StrategySequential, artifact.KindRFC, nil)
	require.NoError(t, err)
	assert.Equal(t, "RFC-0001", id)

	id, err = NextID(config.StrategySequential, artifact.KindWorkItem, []string{"WI-0001", "WI-0007", "WI-0003"})
	require.NoError(t, err)
	assert.Equal(t, "WI-0008", id)
}

func TestNextIDUUIDKeepsKindPrefix(t *testing.T) {
	id, err := NextID(config.StrategyUUID, artifact.KindADR, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "ADR-"))

	kind, err := artifact.KindOfID(id)
	require.NoError(t, err)
	assert.Equal(t, artifact.KindADR, kind)
}

func TestNextClauseID(t *testing.T) {
	id, err := NextClauseID("error handling", nil)
	require.NoError(t, err)
	assert.Equal(t, "C-ERROR-HANDLING", id)

	_, err = NextClauseID("error handling", []string{"C-ERROR-HANDLING"})
	assert.Error(t, err)
}
