package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an artifact is not found.
var ErrNotFound = errors.New("artifact not found")

// SchemaError reports a record that could be read but not understood: a
// missing required field, an unknown enum value, or malformed JSON. Schema
// errors are fatal to the whole command, since an unreadable store cannot be
// reasoned about.
type SchemaError struct {
	Path   string
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("schema error in %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("schema error in %s: %s", e.Path, e.Reason)
}

func (e *SchemaError) Unwrap() error { return e.Err }

func schemaErr(path, reason string, args ...any) *SchemaError {
	return &SchemaError{Path: path, Reason: fmt.Sprintf(reason, args...)}
}
