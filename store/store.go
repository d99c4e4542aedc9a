// Package store persists governed artifacts as JSON records on disk. The
// store carries no business logic: lifecycle rules live in the lifecycle
// package and are applied before anything is saved. Saves are atomic
// (write-to-temporary-file then rename) so a reader never observes a
// partially written record. There is no internal locking; the caller
// serializes invocations.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/c360studio/govspec/artifact"
	"github.com/c360studio/govspec/config"
)

const rfcRecordFile = "rfc.json"

// Store is a file-backed artifact store rooted at the configured gov
// directory.
type Store struct {
	cfg *config.Config
}

// New creates a store for the given configuration.
func New(cfg *config.Config) *Store {
	return &Store{cfg: cfg}
}

// Config returns the store's configuration.
func (s *Store) Config() *config.Config { return s.cfg }

// LoadSnapshot loads the full store state, each kind sorted by id ascending.
func (s *Store) LoadSnapshot() (*Snapshot, error) {
	snap := &Snapshot{}

	rfcIDs, err := listDirs(s.cfg.RFCDir())
	if err != nil {
		return nil, err
	}
	for _, id := range rfcIDs {
		entry, err := s.LoadRFC(id)
		if err != nil {
			return nil, err
		}
		snap.RFCs = append(snap.RFCs, entry)
	}

	if err := loadRecords(s.cfg.ADRDir(), func(a *artifact.ADR, path string) error {
		if err := checkADR(a, path); err != nil {
			return err
		}
		snap.ADRs = append(snap.ADRs, a)
		return nil
	}); err != nil {
		return nil, err
	}
	sort.Slice(snap.ADRs, func(i, j int) bool { return snap.ADRs[i].ID < snap.ADRs[j].ID })

	if err := loadRecords(s.cfg.WorkDir(), func(w *artifact.WorkItem, path string) error {
		if err := checkWork(w, path); err != nil {
			return err
		}
		snap.Work = append(snap.Work, w)
		return nil
	}); err != nil {
		return nil, err
	}
	sort.Slice(snap.Work, func(i, j int) bool { return snap.Work[i].ID < snap.Work[j].ID })

	rel, err := s.LoadReleases()
	if err != nil {
		return nil, err
	}
	snap.Releases = *rel

	return snap, nil
}

// LoadRFC loads one RFC record and its clause files, clauses sorted by id.
func (s *Store) LoadRFC(id string) (*RFCEntry, error) {
	dir := filepath.Join(s.cfg.RFCDir(), id)
	recordPath := filepath.Join(dir, rfcRecordFile)

	var rfc artifact.RFC
	if err := readJSON(recordPath, &rfc); err != nil {
		return nil, err
	}
	if err := checkRFC(&rfc, recordPath); err != nil {
		return nil, err
	}
	if rfc.ID != id {
		return nil, schemaErr(recordPath, "rfc_id %q does not match directory %q", rfc.ID, id)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read rfc directory: %w", err)
	}

	entry := &RFCEntry{RFC: &rfc}
	for _, de := range entries {
		name := de.Name()
		if de.IsDir() || name == rfcRecordFile || !strings.HasSuffix(name, ".json") {
			continue
		}
		path := filepath.Join(dir, name)
		var clause artifact.Clause
		if err := readJSON(path, &clause); err != nil {
			return nil, err
		}
		if err := checkClause(&clause, path); err != nil {
			return nil, err
		}
		if stem := strings.TrimSuffix(name, ".json"); clause.ID != stem {
			return nil, schemaErr(path, "clause_id %q does not match filename %q", clause.ID, stem)
		}
		entry.Clauses = append(entry.Clauses, &clause)
	}
	sort.Slice(entry.Clauses, func(i, j int) bool { return entry.Clauses[i].ID < entry.Clauses[j].ID })
	return entry, nil
}

// GetADR loads one ADR record.
func (s *Store) GetADR(id string) (*artifact.ADR, error) {
	path := filepath.Join(s.cfg.ADRDir(), id+".json")
	var a artifact.ADR
	if err := readJSON(path, &a); err != nil {
		return nil, err
	}
	if err := checkADR(&a, path); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetWorkItem loads one work item record.
func (s *Store) GetWorkItem(id string) (*artifact.WorkItem, error) {
	path := filepath.Join(s.cfg.WorkDir(), id+".json")
	var w artifact.WorkItem
	if err := readJSON(path, &w); err != nil {
		return nil, err
	}
	if err := checkWork(&w, path); err != nil {
		return nil, err
	}
	return &w, nil
}

// LoadReleases loads the release history, or an empty history if none is
// recorded yet.
func (s *Store) LoadReleases() (*artifact.Releases, error) {
	var rel artifact.Releases
	err := readJSON(s.cfg.ReleasesFile(), &rel)
	if err != nil {
		if err == ErrNotFound {
			return &artifact.Releases{}, nil
		}
		return nil, err
	}
	return &rel, nil
}

// SaveRFC persists an RFC record atomically.
func (s *Store) SaveRFC(rfc *artifact.RFC) error {
	path := filepath.Join(s.cfg.RFCDir(), rfc.ID, rfcRecordFile)
	if err := checkRFC(rfc, path); err != nil {
		return err
	}
	return writeJSONAtomic(path, rfc)
}

// SaveClause persists a clause record atomically under its parent RFC.
func (s *Store) SaveClause(rfcID string, clause *artifact.Clause) error {
	path := filepath.Join(s.cfg.RFCDir(), rfcID, clause.ID+".json")
	if err := checkClause(clause, path); err != nil {
		return err
	}
	return writeJSONAtomic(path, clause)
}

// SaveADR persists an ADR record atomically.
func (s *Store) SaveADR(a *artifact.ADR) error {
	path := filepath.Join(s.cfg.ADRDir(), a.ID+".json")
	if err := checkADR(a, path); err != nil {
		return err
	}
	return writeJSONAtomic(path, a)
}

// SaveWorkItem persists a work item record atomically.
func (s *Store) SaveWorkItem(w *artifact.WorkItem) error {
	path := filepath.Join(s.cfg.WorkDir(), w.ID+".json")
	if err := checkWork(w, path); err != nil {
		return err
	}
	return writeJSONAtomic(path, w)
}

// SaveReleases persists the release history atomically.
func (s *Store) SaveReleases(rel *artifact.Releases) error {
	return writeJSONAtomic(s.cfg.ReleasesFile(), rel)
}

// DeleteClause removes a clause record and its entry in the parent RFC's
// section lists. The parent is rewritten first and the clause file removed
// last, so a crash mid-operation can leave an orphaned clause file but never
// a parent referencing a missing clause.
func (s *Store) DeleteClause(rfc *artifact.RFC, clauseID string) error {
	for i := range rfc.Sections {
		kept := rfc.Sections[i].Clauses[:0]
		for _, c := range rfc.Sections[i].Clauses {
			if c != clauseID {
				kept = append(kept, c)
			}
		}
		rfc.Sections[i].Clauses = kept
	}
	if err := s.SaveRFC(rfc); err != nil {
		return err
	}

	path := filepath.Join(s.cfg.RFCDir(), rfc.ID, clauseID+".json")
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove clause record: %w", err)
	}
	return nil
}

// DeleteWorkItem removes a work item record.
func (s *Store) DeleteWorkItem(id string) error {
	path := filepath.Join(s.cfg.WorkDir(), id+".json")
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("remove work item record: %w", err)
	}
	return nil
}

// listDirs returns the names of subdirectories, sorted ascending. A missing
// parent directory is treated as an empty store.
func listDirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}
	var names []string
	for _, de := range entries {
		if de.IsDir() {
			names = append(names, de.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// loadRecords decodes every *.json file in dir through fn.
func loadRecords[T any](dir string, fn func(*T, string) error) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read directory %s: %w", dir, err)
	}
	for _, de := range entries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, de.Name())
		rec := new(T)
		if err := readJSON(path, rec); err != nil {
			return err
		}
		if err := fn(rec, path); err != nil {
			return err
		}
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &SchemaError{Path: path, Reason: "malformed JSON", Err: err}
	}
	return nil
}

// writeJSONAtomic writes v as indented JSON to a temporary file in the
// target directory, then renames it into place.
func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	return WriteFileAtomic(path, append(data, '\n'))
}

// WriteFileAtomic writes data to a temporary file in the target directory
// and renames it into place, so no reader observes a partial write. Also
// used for rendered projections.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// Required-field and enum checks. These are schema concerns, not business
// rules: a record failing them is unreadable for every downstream component.

func checkRFC(r *artifact.RFC, path string) error {
	switch {
	case r.ID == "":
		return schemaErr(path, "missing required field rfc_id")
	case r.Title == "":
		return schemaErr(path, "missing required field title")
	case r.Version == "":
		return schemaErr(path, "missing required field version")
	case !r.Status.IsValid():
		return schemaErr(path, "invalid status %q", r.Status)
	case !r.Phase.IsValid():
		return schemaErr(path, "invalid phase %q", r.Phase)
	}
	return nil
}

func checkClause(c *artifact.Clause, path string) error {
	switch {
	case c.ID == "":
		return schemaErr(path, "missing required field clause_id")
	case c.Title == "":
		return schemaErr(path, "missing required field title")
	case c.Text == "":
		return schemaErr(path, "missing required field text")
	case !c.Kind.IsValid():
		return schemaErr(path, "invalid kind %q", c.Kind)
	case !c.Status.IsValid():
		return schemaErr(path, "invalid status %q", c.Status)
	}
	return nil
}

func checkADR(a *artifact.ADR, path string) error {
	switch {
	case a.ID == "":
		return schemaErr(path, "missing required field adr_id")
	case a.Title == "":
		return schemaErr(path, "missing required field title")
	case !a.Status.IsValid():
		return schemaErr(path, "invalid status %q", a.Status)
	}
	return nil
}

func checkWork(w *artifact.WorkItem, path string) error {
	switch {
	case w.ID == "":
		return schemaErr(path, "missing required field work_id")
	case w.Title == "":
		return schemaErr(path, "missing required field title")
	case !w.Status.IsValid():
		return schemaErr(path, "invalid status %q", w.Status)
	}
	for i, c := range w.Criteria {
		if !c.Status.IsValid() {
			return schemaErr(path, "invalid acceptance_criteria[%d].status %q", i, c.Status)
		}
	}
	return nil
}
