// Package govern composes the store, lifecycle validator, reference
// resolver, signer, and renderer into the operations exposed to the CLI
// layer. Every operation loads a fresh snapshot, runs one linear pass, and
// persists only what the validator approved; there is no ambient state and
// no internal locking.
package govern

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/c360studio/govspec/artifact"
	"github.com/c360studio/govspec/config"
	"github.com/c360studio/govspec/diag"
	"github.com/c360studio/govspec/lifecycle"
	"github.com/c360studio/govspec/refs"
	"github.com/c360studio/govspec/render"
	"github.com/c360studio/govspec/signature"
	"github.com/c360studio/govspec/store"
)

// Manager wires the core components together for one governance store.
type Manager struct {
	cfg     *config.Config
	store   *store.Store
	matcher *refs.PatternMatcher
	logger  *slog.Logger
}

// NewManager builds a manager for the given configuration.
func NewManager(cfg *config.Config, logger *slog.Logger) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	matcher, err := refs.NewPatternMatcher(cfg.Refs.Pattern)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		cfg:     cfg,
		store:   store.New(cfg),
		matcher: matcher,
		logger:  logger,
	}, nil
}

// Config returns the manager's configuration.
func (m *Manager) Config() *config.Config { return m.cfg }

// Store returns the underlying artifact store.
func (m *Manager) Store() *store.Store { return m.store }

// Snapshot loads the full store state.
func (m *Manager) Snapshot() (*store.Snapshot, error) {
	return m.store.LoadSnapshot()
}

// today returns the current date in ISO form for record timestamps.
// Rendered projections never embed it, keeping rendering idempotent.
func today() string {
	return time.Now().Format("2006-01-02")
}

// Check runs the validator, the resolver over all reference surfaces, and
// the signer in verification mode, returning every diagnostic across the
// store sorted for diffable output. kind optionally restricts the report to
// one artifact kind ("" reports everything).
func (m *Manager) Check(kind artifact.Kind) (diag.Report, error) {
	var report diag.Report

	snap, err := m.Snapshot()
	if err != nil {
		return report, err
	}
	ix := refs.BuildIndex(snap)

	report.Merge(lifecycle.ValidateAll(snap))
	report.Merge(ix.ValidateStructured(snap))
	report.Merge(ix.ValidateInline(snap, m.matcher))

	scan, err := refs.ScanSource(m.cfg, ix, m.matcher)
	if err != nil {
		return report, err
	}
	report.Merge(scan.Report)
	m.logger.Debug("source scan complete",
		"files", scan.FilesScanned, "refs", scan.RefsFound)

	report.Merge(m.verifySignatures(snap))

	if kind != "" {
		report = filterByKind(report, kind)
	}
	report.Sort()
	return report, nil
}

// verifySignatures recomputes each artifact's hash from current store state
// and compares it against the signature embedded in its rendered
// projection, if one exists. A mismatch means the source changed after the
// last render or the projection was edited directly.
func (m *Manager) verifySignatures(snap *store.Snapshot) diag.Report {
	var r diag.Report

	for _, e := range snap.RFCs {
		m.verifyOne(&r, e.RFC.ID, filepath.Join(m.cfg.RFCOutput(), e.RFC.ID+".md"), func() (string, error) {
			return signature.ComputeRFC(e)
		})
	}
	for _, a := range snap.ADRs {
		m.verifyOne(&r, a.ID, filepath.Join(m.cfg.ADROutput(), a.ID+".md"), func() (string, error) {
			return signature.ComputeADR(a)
		})
	}
	for _, w := range snap.Work {
		m.verifyOne(&r, w.ID, filepath.Join(m.cfg.WorkOutput(), w.ID+".md"), func() (string, error) {
			return signature.ComputeWorkItem(w)
		})
	}
	return r
}

func (m *Manager) verifyOne(r *diag.Report, id, path string, compute func() (string, error)) {
	content, err := os.ReadFile(path)
	if err != nil {
		// No projection rendered yet is not a finding.
		return
	}
	embedded := signature.Extract(string(content))
	if embedded == "" {
		r.Addf(diag.CodeSignatureMissing, id,
			"rendered projection has no signature; re-render %s", id)
		return
	}
	expected, err := compute()
	if err != nil {
		r.Addf(diag.CodeTamperOrStale, id, "compute signature: %v", err)
		return
	}
	if embedded != expected {
		r.Addf(diag.CodeTamperOrStale, id,
			"projection signature does not match source; source changed or projection was edited, re-render %s", id)
	}
}

func filterByKind(report diag.Report, kind artifact.Kind) diag.Report {
	var out diag.Report
	for _, d := range report.Diagnostics {
		k, err := artifact.KindOfID(strings.SplitN(d.Artifact, ":", 2)[0])
		if err == nil && (k == kind || (kind == artifact.KindRFC && k == artifact.KindClause)) {
			out.Add(d)
		}
	}
	return out
}

// Sign computes the canonical hash of one artifact.
func (m *Manager) Sign(id string) (string, error) {
	snap, err := m.Snapshot()
	if err != nil {
		return "", err
	}
	kind, err := artifact.KindOfID(id)
	if err != nil {
		return "", err
	}
	switch kind {
	case artifact.KindRFC:
		e := snap.FindRFC(id)
		if e == nil {
			return "", store.ErrNotFound
		}
		return signature.ComputeRFC(e)
	case artifact.KindADR:
		a := snap.FindADR(id)
		if a == nil {
			return "", store.ErrNotFound
		}
		return signature.ComputeADR(a)
	case artifact.KindWorkItem:
		w := snap.FindWork(id)
		if w == nil {
			return "", store.ErrNotFound
		}
		return signature.ComputeWorkItem(w)
	}
	return "", fmt.Errorf("cannot sign artifact kind %q", kind)
}

// Render re-signs one artifact and writes its markdown projection,
// returning the rendered text.
func (m *Manager) Render(id string) (string, error) {
	snap, err := m.Snapshot()
	if err != nil {
		return "", err
	}
	ix := refs.BuildIndex(snap)

	kind, err := artifact.KindOfID(id)
	if err != nil {
		return "", err
	}

	var text, outPath string
	switch kind {
	case artifact.KindRFC:
		e := snap.FindRFC(id)
		if e == nil {
			return "", store.ErrNotFound
		}
		sig, err := signature.ComputeRFC(e)
		if err != nil {
			return "", err
		}
		text = render.RFC(e, sig, ix, m.matcher)
		outPath = filepath.Join(m.cfg.RFCOutput(), id+".md")
	case artifact.KindADR:
		a := snap.FindADR(id)
		if a == nil {
			return "", store.ErrNotFound
		}
		sig, err := signature.ComputeADR(a)
		if err != nil {
			return "", err
		}
		text = render.ADR(a, sig, ix, m.matcher)
		outPath = filepath.Join(m.cfg.ADROutput(), id+".md")
	case artifact.KindWorkItem:
		w := snap.FindWork(id)
		if w == nil {
			return "", store.ErrNotFound
		}
		sig, err := signature.ComputeWorkItem(w)
		if err != nil {
			return "", err
		}
		text = render.WorkItem(w, sig, ix, m.matcher)
		outPath = filepath.Join(m.cfg.WorkOutput(), id+".md")
	default:
		return "", fmt.Errorf("cannot render artifact kind %q", kind)
	}

	if err := store.WriteFileAtomic(outPath, []byte(text)); err != nil {
		return "", err
	}
	m.logger.Info("rendered projection", "artifact", id, "path", outPath)
	return text, nil
}

// RenderAll renders every artifact's projection and returns the rendered
// ids.
func (m *Manager) RenderAll() ([]string, error) {
	snap, err := m.Snapshot()
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, e := range snap.RFCs {
		ids = append(ids, e.RFC.ID)
	}
	for _, a := range snap.ADRs {
		ids = append(ids, a.ID)
	}
	for _, w := range snap.Work {
		ids = append(ids, w.ID)
	}
	for _, id := range ids {
		if _, err := m.Render(id); err != nil {
			return nil, fmt.Errorf("render %s: %w", id, err)
		}
	}
	return ids, nil
}

// RenderChangelog generates the changelog from completed work items,
// merging into the existing Unreleased section by default and regenerating
// released sections only when forced. Returns the changelog text.
func (m *Manager) RenderChangelog(force bool) (string, error) {
	snap, err := m.Snapshot()
	if err != nil {
		return "", err
	}

	existing := ""
	if data, err := os.ReadFile(m.cfg.ChangelogFile()); err == nil {
		existing = string(data)
	}

	text := render.Changelog(snap.Work, snap.Releases, existing, force)
	if err := store.WriteFileAtomic(m.cfg.ChangelogFile(), []byte(text)); err != nil {
		return "", err
	}
	m.logger.Info("rendered changelog", "path", m.cfg.ChangelogFile(), "force", force)
	return text, nil
}

// ResolveRefs resolves one artifact's structured references and its
// incoming referrer set.
func (m *Manager) ResolveRefs(id string) (refs.ResolvedRefs, error) {
	snap, err := m.Snapshot()
	if err != nil {
		return refs.ResolvedRefs{}, err
	}
	ix := refs.BuildIndex(snap)

	if _, known := ix.Resolve(id); !known {
		return refs.ResolvedRefs{}, store.ErrNotFound
	}

	var outgoing []string
	kind, err := artifact.KindOfID(id)
	if err != nil {
		return refs.ResolvedRefs{}, err
	}
	switch kind {
	case artifact.KindADR:
		if a := snap.FindADR(id); a != nil {
			outgoing = a.Refs
		}
	case artifact.KindWorkItem:
		if w := snap.FindWork(id); w != nil {
			outgoing = w.Refs
		}
	case artifact.KindClause:
		rfcID, clauseID := artifact.SplitRef(id)
		if e := snap.FindRFC(rfcID); e != nil {
			if c := e.FindClause(clauseID); c != nil && c.SupersededBy != "" {
				outgoing = []string{artifact.ClauseRef(rfcID, c.SupersededBy)}
			}
		}
	}
	return ix.ResolveRefs(id, outgoing), nil
}
