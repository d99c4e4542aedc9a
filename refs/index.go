package refs

import (
	"sort"

	"github.com/c360studio/govspec/artifact"
	"github.com/c360studio/govspec/diag"
	"github.com/c360studio/govspec/store"
)

// State is the resolution state of a known artifact id.
type State struct {
	// Outdated is set for deprecated, superseded, or rejected targets.
	// Referencing them is permitted but flagged.
	Outdated bool
	// Reason names why the target is outdated.
	Reason string
}

// Ref is one resolved outgoing reference.
type Ref struct {
	ID       string `json:"id"`
	Outdated bool   `json:"outdated,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// ResolvedRefs is the result of resolving one artifact's references.
type ResolvedRefs struct {
	Outgoing []Ref    `json:"outgoing,omitempty"`
	Incoming []string `json:"incoming,omitempty"`
}

// Index is the bidirectional reference index: id to artifact state, and id
// to the set of artifacts whose structured refs point at it.
type Index struct {
	states    map[string]State
	referrers map[string]map[string]struct{}
}

// BuildIndex indexes every whole-artifact and clause-scoped id in the
// snapshot, together with the structural referrer sets.
func BuildIndex(snap *store.Snapshot) *Index {
	ix := &Index{
		states:    make(map[string]State),
		referrers: make(map[string]map[string]struct{}),
	}

	for _, e := range snap.RFCs {
		rfcOutdated := e.RFC.Status == artifact.RFCDeprecated
		ix.states[e.RFC.ID] = stateFor(rfcOutdated, "deprecated")

		for _, c := range e.Clauses {
			ref := artifact.ClauseRef(e.RFC.ID, c.ID)
			// A superseded_by link is structural: it protects the
			// superseding clause from deletion.
			if c.SupersededBy != "" {
				ix.addReferrer(artifact.ClauseRef(e.RFC.ID, c.SupersededBy), ref)
			}
			switch {
			case c.Status == artifact.ClauseSuperseded:
				ix.states[ref] = State{Outdated: true, Reason: "superseded"}
			case c.Status == artifact.ClauseDeprecated:
				ix.states[ref] = State{Outdated: true, Reason: "deprecated"}
			case rfcOutdated:
				ix.states[ref] = State{Outdated: true, Reason: "rfc deprecated"}
			default:
				ix.states[ref] = State{}
			}
		}
	}

	for _, a := range snap.ADRs {
		switch a.Status {
		case artifact.ADRSuperseded:
			ix.states[a.ID] = State{Outdated: true, Reason: "superseded"}
		case artifact.ADRRejected:
			ix.states[a.ID] = State{Outdated: true, Reason: "rejected"}
		default:
			ix.states[a.ID] = State{}
		}
		if a.SupersededBy != "" {
			ix.addReferrer(a.SupersededBy, a.ID)
		}
		for _, ref := range a.Refs {
			ix.addReferrer(ref, a.ID)
		}
	}

	for _, w := range snap.Work {
		ix.states[w.ID] = stateFor(w.Status == artifact.WorkCancelled, "cancelled")
		for _, ref := range w.Refs {
			ix.addReferrer(ref, w.ID)
		}
	}

	return ix
}

func stateFor(outdated bool, reason string) State {
	if outdated {
		return State{Outdated: true, Reason: reason}
	}
	return State{}
}

func (ix *Index) addReferrer(target, referrer string) {
	set, ok := ix.referrers[target]
	if !ok {
		set = make(map[string]struct{})
		ix.referrers[target] = set
	}
	set[referrer] = struct{}{}
}

// Resolve looks up an id, reporting whether it is known and its state.
func (ix *Index) Resolve(id string) (State, bool) {
	st, ok := ix.states[id]
	return st, ok
}

// IncomingRefs returns the sorted ids of artifacts whose structured refs or
// superseded_by links point at the given id. Only structural refs count;
// inline mentions in external source files never block anything.
func (ix *Index) IncomingRefs(id string) []string {
	set := ix.referrers[id]
	ids := make([]string, 0, len(set))
	for ref := range set {
		ids = append(ids, ref)
	}
	sort.Strings(ids)
	return ids
}

// ResolveRefs resolves one artifact's structured refs plus its incoming
// referrer set.
func (ix *Index) ResolveRefs(id string, outgoing []string) ResolvedRefs {
	res := ResolvedRefs{Incoming: ix.IncomingRefs(id)}
	for _, ref := range outgoing {
		st, known := ix.Resolve(ref)
		if !known {
			res.Outgoing = append(res.Outgoing, Ref{ID: ref, Outdated: false, Reason: "unknown"})
			continue
		}
		res.Outgoing = append(res.Outgoing, Ref{ID: ref, Outdated: st.Outdated, Reason: st.Reason})
	}
	return res
}

// check validates one reference: unknown targets are errors, outdated
// targets warnings.
func (ix *Index) check(referrer, target string, r *diag.Report) {
	st, known := ix.Resolve(target)
	if !known {
		r.Addf(diag.CodeDanglingReference, referrer,
			"reference to unknown artifact %s", target)
		return
	}
	if st.Outdated {
		r.Addf(diag.CodeOutdatedReference, referrer,
			"reference to %s artifact %s", st.Reason, target)
	}
}

// ValidateStructured checks every refs array in the snapshot.
func (ix *Index) ValidateStructured(snap *store.Snapshot) diag.Report {
	var r diag.Report
	for _, a := range snap.ADRs {
		for _, ref := range a.Refs {
			ix.check(a.ID, ref, &r)
		}
	}
	for _, w := range snap.Work {
		for _, ref := range w.Refs {
			ix.check(w.ID, ref, &r)
		}
	}
	return r
}

// ValidateInline checks every inline mention inside document content fields.
func (ix *Index) ValidateInline(snap *store.Snapshot, m Matcher) diag.Report {
	var r diag.Report

	snap.EachClause(func(e *store.RFCEntry, c *artifact.Clause) {
		ref := artifact.ClauseRef(e.RFC.ID, c.ID)
		for _, mention := range m.Find(c.Text) {
			ix.check(ref, mention.ID, &r)
		}
	})

	for _, a := range snap.ADRs {
		fields := []string{a.Context, a.Decision, a.Consequences}
		for _, alt := range a.Alternatives {
			fields = append(fields, alt.Text, alt.Rejection)
			fields = append(fields, alt.Pros...)
			fields = append(fields, alt.Cons...)
		}
		for _, text := range fields {
			for _, mention := range m.Find(text) {
				ix.check(a.ID, mention.ID, &r)
			}
		}
	}

	for _, w := range snap.Work {
		fields := append([]string{w.Description}, w.Notes...)
		for _, c := range w.Criteria {
			fields = append(fields, c.Text)
		}
		for _, text := range fields {
			for _, mention := range m.Find(text) {
				ix.check(w.ID, mention.ID, &r)
			}
		}
	}
	return r
}
