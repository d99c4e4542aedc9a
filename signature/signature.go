// Package signature computes reproducible hashes over an artifact's logical
// content. Rendered markdown files embed the hash so that any later edit to
// either the source or the projection is detectable: the signature is
// recomputed from current store state and compared on every check.
//
// The canonical form sorts object keys recursively, preserves array order,
// and serializes compactly, so two logically identical records constructed
// in different field orders hash identically.
package signature

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/c360studio/govspec/artifact"
	"github.com/c360studio/govspec/store"
)

// versionPrefix keys the hash to the signature scheme so a future scheme
// change invalidates every old signature at once.
const versionPrefix = "govspec-signature-v1\n"

// Canonicalize returns the canonical compact byte form of any
// JSON-serializable value: object keys sorted lexicographically at every
// nesting level, array order preserved, no incidental whitespace.
func Canonicalize(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal for canonicalization: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, fmt.Errorf("rebuild value tree: %w", err)
	}
	var b strings.Builder
	writeCanonical(&b, tree)
	return []byte(b.String()), nil
}

func writeCanonical(b *strings.Builder, v any) {
	switch t := v.(type) {
	case map[string]any:
		b.WriteByte('{')
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			writeJSONString(b, k)
			b.WriteByte(':')
			writeCanonical(b, t[k])
		}
		b.WriteByte('}')
	case []any:
		b.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				b.WriteByte(',')
			}
			writeCanonical(b, item)
		}
		b.WriteByte(']')
	case json.Number:
		b.WriteString(t.String())
	default:
		// Scalars round-trip through encoding/json for escaping and
		// number formatting.
		raw, _ := json.Marshal(t)
		b.Write(raw)
	}
}

func writeJSONString(b *strings.Builder, s string) {
	raw, _ := json.Marshal(s)
	b.Write(raw)
}

// ComputeRFC hashes an RFC together with its full clause set, clauses sorted
// by clause id so the signature is independent of on-disk order.
func ComputeRFC(e *store.RFCEntry) (string, error) {
	h := sha256.New()
	h.Write([]byte(versionPrefix))
	h.Write([]byte("type:rfc\n"))

	canonical, err := Canonicalize(e.RFC)
	if err != nil {
		return "", err
	}
	h.Write(canonical)
	h.Write([]byte("\n"))

	clauses := make([]*artifact.Clause, len(e.Clauses))
	copy(clauses, e.Clauses)
	sort.Slice(clauses, func(i, j int) bool { return clauses[i].ID < clauses[j].ID })

	for _, c := range clauses {
		canonical, err := Canonicalize(c)
		if err != nil {
			return "", err
		}
		h.Write(canonical)
		h.Write([]byte("\n"))
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ComputeADR hashes one decision record.
func ComputeADR(a *artifact.ADR) (string, error) {
	return computeOne("adr", a)
}

// ComputeWorkItem hashes one work item.
func ComputeWorkItem(w *artifact.WorkItem) (string, error) {
	return computeOne("work", w)
}

func computeOne(kind string, v any) (string, error) {
	h := sha256.New()
	h.Write([]byte(versionPrefix))
	fmt.Fprintf(h, "type:%s\n", kind)
	canonical, err := Canonicalize(v)
	if err != nil {
		return "", err
	}
	h.Write(canonical)
	h.Write([]byte("\n"))
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Header formats the two marker comment lines embedded at the top of every
// rendered projection.
func Header(sourceID, sig string) string {
	return fmt.Sprintf("<!-- GENERATED: do not edit. Source: %s -->\n<!-- SIGNATURE: sha256:%s -->\n", sourceID, sig)
}

// Extract recovers the embedded signature from rendered markdown, or "" if
// none is present.
func Extract(markdown string) string {
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(trimmed, "<!-- SIGNATURE: sha256:"); ok {
			if sig, ok := strings.CutSuffix(rest, "-->"); ok {
				return strings.TrimSpace(sig)
			}
		}
	}
	return ""
}
