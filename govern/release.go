package govern

import (
	"fmt"

	"github.com/c360studio/govspec/artifact"
)

// Release cuts a new release: every done work item not claimed by an earlier
// release is grouped under the given version and the changelog is
// regenerated, moving those items out of the Unreleased section.
func (m *Manager) Release(version string) (*artifact.Release, error) {
	if _, err := bumpVersion(version, BumpPatch); err != nil {
		return nil, fmt.Errorf("invalid release version: %w", err)
	}

	snap, err := m.Snapshot()
	if err != nil {
		return nil, err
	}

	claimed := map[string]bool{}
	for _, rel := range snap.Releases.Releases {
		if rel.Version == version {
			return nil, fmt.Errorf("release %s already exists", version)
		}
		for _, id := range rel.Refs {
			claimed[id] = true
		}
	}

	rel := artifact.Release{Version: version, Date: today()}
	for _, w := range snap.Work {
		if w.Status == artifact.WorkDone && !claimed[w.ID] {
			rel.Refs = append(rel.Refs, w.ID)
		}
	}
	if len(rel.Refs) == 0 {
		return nil, fmt.Errorf("no unreleased done work items to release")
	}

	snap.Releases.Releases = append([]artifact.Release{rel}, snap.Releases.Releases...)
	if err := m.store.SaveReleases(&snap.Releases); err != nil {
		return nil, err
	}
	if _, err := m.RenderChangelog(true); err != nil {
		return nil, err
	}
	m.logger.Info("cut release", "version", version, "items", len(rel.Refs))
	return &rel, nil
}
