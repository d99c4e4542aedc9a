package govern

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/c360studio/govspec/artifact"
	"github.com/c360studio/govspec/diag"
	"github.com/c360studio/govspec/lifecycle"
	"github.com/c360studio/govspec/refs"
	"github.com/c360studio/govspec/store"
)

// Selector picks one element of an array field. Exactly one of its fields is
// set: a 0-based index, an exact match, a substring match, or a regular
// expression.
type Selector struct {
	Index     int
	Exact     string
	Substring string
	Pattern   string
}

// ParseSelector interprets a CLI selector argument: a bare integer selects
// by index, "re:..." by pattern, "sub:..." by substring, anything else by
// exact match.
func ParseSelector(arg string) Selector {
	if n, err := strconv.Atoi(arg); err == nil {
		return Selector{Index: n}
	}
	if rest, ok := strings.CutPrefix(arg, "re:"); ok {
		return Selector{Index: -1, Pattern: rest}
	}
	if rest, ok := strings.CutPrefix(arg, "sub:"); ok {
		return Selector{Index: -1, Substring: rest}
	}
	return Selector{Index: -1, Exact: arg}
}

// pick returns the index of the single element the selector matches.
// Matching zero or more than one element is an error.
func (s Selector) pick(items []string) (int, error) {
	if s.Exact == "" && s.Substring == "" && s.Pattern == "" {
		if s.Index < 0 || s.Index >= len(items) {
			return 0, fmt.Errorf("index %d out of range (%d elements)", s.Index, len(items))
		}
		return s.Index, nil
	}

	match := func(item string) bool { return item == s.Exact }
	switch {
	case s.Substring != "":
		match = func(item string) bool { return strings.Contains(item, s.Substring) }
	case s.Pattern != "":
		re, err := regexp.Compile(s.Pattern)
		if err != nil {
			return 0, fmt.Errorf("compile selector pattern: %w", err)
		}
		match = re.MatchString
	}

	found := -1
	for i, item := range items {
		if !match(item) {
			continue
		}
		if found >= 0 {
			return 0, fmt.Errorf("selector matches more than one element")
		}
		found = i
	}
	if found < 0 {
		return 0, fmt.Errorf("selector matches no element")
	}
	return found, nil
}

// FieldOp is one field-level mutation.
type FieldOp string

const (
	OpSet    FieldOp = "set"
	OpAdd    FieldOp = "add"
	OpRemove FieldOp = "remove"
)

// Edit applies a field-level edit to an artifact. Scalar fields accept set;
// array fields accept add and remove (remove via selector). Status and phase
// are never editable here, transitions own them. Content edits to a locked
// stable RFC are rejected unless the RFC is marked amendable.
func (m *Manager) Edit(id, field string, op FieldOp, value string, sel Selector) (diag.Report, error) {
	kind, err := artifact.KindOfID(id)
	if err != nil {
		return diag.Report{}, err
	}
	switch kind {
	case artifact.KindRFC:
		return m.editRFC(id, field, op, value, sel)
	case artifact.KindClause:
		return m.editClause(id, field, op, value)
	case artifact.KindADR:
		return m.editADR(id, field, op, value, sel)
	case artifact.KindWorkItem:
		return m.editWork(id, field, op, value, sel)
	}
	return diag.Report{}, fmt.Errorf("cannot edit artifact kind %q", kind)
}

var errFieldLocked = fmt.Errorf("field is owned by transitions, not edits")

func (m *Manager) editRFC(id, field string, op FieldOp, value string, sel Selector) (diag.Report, error) {
	var report diag.Report

	e, err := m.store.LoadRFC(id)
	if err != nil {
		return report, err
	}
	rfc := e.RFC

	switch field {
	case "title":
		if op != OpSet {
			return report, fmt.Errorf("title is a scalar field, use set")
		}
		if d := lifecycle.CheckAmendment(rfc); d != nil {
			report.Add(*d)
			return report, nil
		}
		rfc.Title = value
	case "owners":
		switch op {
		case OpAdd:
			rfc.Owners = append(rfc.Owners, value)
		case OpRemove:
			i, err := sel.pick(rfc.Owners)
			if err != nil {
				return report, fmt.Errorf("owners: %w", err)
			}
			rfc.Owners = append(rfc.Owners[:i], rfc.Owners[i+1:]...)
		default:
			return report, fmt.Errorf("owners is an array field, use add or remove")
		}
	case "amendable":
		if op != OpSet {
			return report, fmt.Errorf("amendable is a scalar field, use set")
		}
		b, err := strconv.ParseBool(value)
		if err != nil {
			return report, fmt.Errorf("amendable: %w", err)
		}
		rfc.Amendable = b
	case "status", "phase", "version":
		return report, fmt.Errorf("%s: %w", field, errFieldLocked)
	default:
		return report, fmt.Errorf("unknown rfc field %q", field)
	}

	rfc.Updated = today()
	if err := m.store.SaveRFC(rfc); err != nil {
		return report, err
	}
	m.logger.Info("edited rfc", "artifact", id, "field", field, "op", op)
	return report, nil
}

func (m *Manager) editClause(id, field string, op FieldOp, value string) (diag.Report, error) {
	var report diag.Report

	rfcID, clauseID := artifact.SplitRef(id)
	e, err := m.store.LoadRFC(rfcID)
	if err != nil {
		return report, err
	}
	clause := e.FindClause(clauseID)
	if clause == nil {
		return report, store.ErrNotFound
	}
	if op != OpSet {
		return report, fmt.Errorf("clause fields are scalar, use set")
	}
	if d := lifecycle.CheckAmendment(e.RFC); d != nil {
		report.Add(*d)
		return report, nil
	}

	switch field {
	case "title":
		clause.Title = value
	case "text":
		clause.Text = value
	case "kind":
		kind := artifact.ClauseKind(value)
		if !kind.IsValid() {
			return report, fmt.Errorf("unknown clause kind %q", value)
		}
		clause.Kind = kind
	case "since":
		clause.Since = value
	case "status", "superseded_by":
		return report, fmt.Errorf("%s: %w", field, errFieldLocked)
	default:
		return report, fmt.Errorf("unknown clause field %q", field)
	}

	if err := m.store.SaveClause(rfcID, clause); err != nil {
		return report, err
	}
	m.logger.Info("edited clause", "artifact", id, "field", field)
	return report, nil
}

func (m *Manager) editADR(id, field string, op FieldOp, value string, sel Selector) (diag.Report, error) {
	var report diag.Report

	a, err := m.store.GetADR(id)
	if err != nil {
		return report, err
	}

	switch field {
	case "title", "context", "decision", "consequences":
		if op != OpSet {
			return report, fmt.Errorf("%s is a scalar field, use set", field)
		}
		switch field {
		case "title":
			a.Title = value
		case "context":
			a.Context = value
		case "decision":
			a.Decision = value
		case "consequences":
			a.Consequences = value
		}
	case "refs":
		list, r, err := m.editRefList(id, a.Refs, op, value, sel)
		report.Merge(r)
		if err != nil || report.HasErrors() {
			return report, err
		}
		a.Refs = list
	case "status", "superseded_by":
		return report, fmt.Errorf("%s: %w", field, errFieldLocked)
	default:
		return report, fmt.Errorf("unknown adr field %q", field)
	}

	if err := m.store.SaveADR(a); err != nil {
		return report, err
	}
	m.logger.Info("edited adr", "artifact", id, "field", field, "op", op)
	return report, nil
}

func (m *Manager) editWork(id, field string, op FieldOp, value string, sel Selector) (diag.Report, error) {
	var report diag.Report

	w, err := m.store.GetWorkItem(id)
	if err != nil {
		return report, err
	}

	switch field {
	case "title", "description":
		if op != OpSet {
			return report, fmt.Errorf("%s is a scalar field, use set", field)
		}
		if field == "title" {
			w.Title = value
		} else {
			w.Description = value
		}
	case "notes":
		switch op {
		case OpAdd:
			w.Notes = append(w.Notes, value)
		case OpRemove:
			i, err := sel.pick(w.Notes)
			if err != nil {
				return report, fmt.Errorf("notes: %w", err)
			}
			w.Notes = append(w.Notes[:i], w.Notes[i+1:]...)
		default:
			return report, fmt.Errorf("notes is an array field, use add or remove")
		}
	case "criteria":
		switch op {
		case OpAdd:
			w.Criteria = append(w.Criteria, artifact.Criterion{
				Text:   value,
				Status: artifact.CriterionPending,
			})
		case OpRemove:
			i, err := sel.pick(criterionTexts(w.Criteria))
			if err != nil {
				return report, fmt.Errorf("criteria: %w", err)
			}
			w.Criteria = append(w.Criteria[:i], w.Criteria[i+1:]...)
		default:
			return report, fmt.Errorf("criteria is an array field, use add or remove")
		}
	case "refs":
		list, r, err := m.editRefList(id, w.Refs, op, value, sel)
		report.Merge(r)
		if err != nil || report.HasErrors() {
			return report, err
		}
		w.Refs = list
	case "status":
		return report, fmt.Errorf("status: %w", errFieldLocked)
	default:
		return report, fmt.Errorf("unknown work item field %q", field)
	}

	if err := m.store.SaveWorkItem(w); err != nil {
		return report, err
	}
	m.logger.Info("edited work item", "artifact", id, "field", field, "op", op)
	return report, nil
}

// editRefList applies add or remove to a structured refs array. Added refs
// must resolve to a known artifact.
func (m *Manager) editRefList(id string, list []string, op FieldOp, value string, sel Selector) ([]string, diag.Report, error) {
	var report diag.Report
	switch op {
	case OpAdd:
		snap, err := m.Snapshot()
		if err != nil {
			return nil, report, err
		}
		report.Merge(m.checkNewRefs(snap, id, []string{value}))
		if report.HasErrors() {
			return nil, report, nil
		}
		return append(list, value), report, nil
	case OpRemove:
		i, err := sel.pick(list)
		if err != nil {
			return nil, report, fmt.Errorf("refs: %w", err)
		}
		return append(list[:i], list[i+1:]...), report, nil
	}
	return nil, report, fmt.Errorf("refs is an array field, use add or remove")
}

func criterionTexts(criteria []artifact.Criterion) []string {
	texts := make([]string, len(criteria))
	for i, c := range criteria {
		texts[i] = c.Text
	}
	return texts
}

// MoveCriterion ticks one acceptance criterion of a work item to a new
// checklist status.
func (m *Manager) MoveCriterion(id string, sel Selector, status artifact.CriterionStatus) error {
	w, err := m.store.GetWorkItem(id)
	if err != nil {
		return err
	}
	if !status.IsValid() {
		return fmt.Errorf("unknown criterion status %q", status)
	}
	i, err := sel.pick(criterionTexts(w.Criteria))
	if err != nil {
		return fmt.Errorf("criteria: %w", err)
	}
	w.Criteria[i].Status = status
	if err := m.store.SaveWorkItem(w); err != nil {
		return err
	}
	m.logger.Info("moved criterion", "artifact", id, "criterion", i, "status", status)
	return nil
}

// Delete removes a clause or a queued work item. Anything with incoming
// structured references is protected. For clauses the parent RFC's section
// index is rewritten before the clause record is removed, so an interrupted
// delete never leaves the index referencing a missing clause.
func (m *Manager) Delete(id string) (diag.Report, error) {
	var report diag.Report

	snap, err := m.Snapshot()
	if err != nil {
		return report, err
	}
	ix := refs.BuildIndex(snap)

	if incoming := ix.IncomingRefs(id); len(incoming) > 0 {
		report.Addf(diag.CodeDeleteBlocked, id,
			"cannot delete %s: referenced by %s", id, strings.Join(incoming, ", "))
		return report, nil
	}

	kind, err := artifact.KindOfID(id)
	if err != nil {
		return report, err
	}
	switch kind {
	case artifact.KindClause:
		rfcID, clauseID := artifact.SplitRef(id)
		e := snap.FindRFC(rfcID)
		if e == nil {
			return report, store.ErrNotFound
		}
		if e.FindClause(clauseID) == nil {
			return report, store.ErrNotFound
		}
		if d := lifecycle.CheckAmendment(e.RFC); d != nil {
			report.Add(*d)
			return report, nil
		}
		e.RFC.Updated = today()
		if err := m.store.DeleteClause(e.RFC, clauseID); err != nil {
			return report, err
		}
	case artifact.KindWorkItem:
		w := snap.FindWork(id)
		if w == nil {
			return report, store.ErrNotFound
		}
		if w.Status != artifact.WorkQueue {
			report.Addf(diag.CodeDeleteBlocked, id,
				"cannot delete %s: status is %s, only queued work items may be deleted", id, w.Status)
			return report, nil
		}
		if err := m.store.DeleteWorkItem(id); err != nil {
			return report, err
		}
	default:
		return report, fmt.Errorf("cannot delete artifact kind %q", kind)
	}

	m.logger.Info("deleted artifact", "artifact", id)
	return report, nil
}

// BumpLevel is a semantic version component.
type BumpLevel string

const (
	BumpMajor BumpLevel = "major"
	BumpMinor BumpLevel = "minor"
	BumpPatch BumpLevel = "patch"
)

// Bump increments an RFC's semantic version and prepends a changelog entry
// recording the change. Bumping a locked stable RFC requires the amendable
// flag.
func (m *Manager) Bump(id string, level BumpLevel, summary string, changes []string) (diag.Report, error) {
	var report diag.Report

	e, err := m.store.LoadRFC(id)
	if err != nil {
		return report, err
	}
	rfc := e.RFC
	if d := lifecycle.CheckAmendment(rfc); d != nil {
		report.Add(*d)
		return report, nil
	}

	next, err := bumpVersion(rfc.Version, level)
	if err != nil {
		return report, err
	}

	rfc.Version = next
	rfc.Updated = today()
	rfc.Changelog = append([]artifact.ChangelogEntry{{
		Version: next,
		Date:    today(),
		Summary: summary,
		Changes: changes,
	}}, rfc.Changelog...)

	if err := m.store.SaveRFC(rfc); err != nil {
		return report, err
	}
	m.logger.Info("bumped rfc version", "artifact", id, "version", next, "level", level)
	return report, nil
}

// bumpVersion parses an x.y.z version string and increments one component,
// zeroing the components below it.
func bumpVersion(version string, level BumpLevel) (string, error) {
	parts := strings.Split(version, ".")
	if len(parts) != 3 {
		return "", fmt.Errorf("version %q is not of the form x.y.z", version)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return "", fmt.Errorf("version %q is not of the form x.y.z", version)
		}
		nums[i] = n
	}
	switch level {
	case BumpMajor:
		nums[0], nums[1], nums[2] = nums[0]+1, 0, 0
	case BumpMinor:
		nums[1], nums[2] = nums[1]+1, 0
	case BumpPatch:
		nums[2]++
	default:
		return "", fmt.Errorf("unknown bump level %q", level)
	}
	return fmt.Sprintf("%d.%d.%d", nums[0], nums[1], nums[2]), nil
}
