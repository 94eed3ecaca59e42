// Package dberr holds the error taxonomy shared by every storage and
// execution package. Detection sites wrap one of the kind sentinels with
// fmt.Errorf("%w: ...") so callers can branch with errors.Is.
package dberr

import (
	"errors"
	"fmt"
)

var (
	// ErrSchema: table missing or already present, malformed schema line,
	// unsupported column type, unknown column.
	ErrSchema = errors.New("schema error")
	// ErrConstraint: primary key count != 1, disallowed key type, duplicate key.
	ErrConstraint = errors.New("constraint error")
	// ErrFormat: a value does not parse against its declared type.
	ErrFormat = errors.New("format error")
	// ErrStorage: invalid page access, page overflow, corrupt files.
	ErrStorage = errors.New("storage error")
	// ErrExecution: unrecognized or refused command.
	ErrExecution = errors.New("execution error")
)

// Kind names the taxonomy bucket of err.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSchema):
		return "SchemaError"
	case errors.Is(err, ErrConstraint):
		return "ConstraintError"
	case errors.Is(err, ErrFormat):
		return "FormatError"
	case errors.Is(err, ErrStorage):
		return "StorageError"
	case errors.Is(err, ErrExecution):
		return "ExecutionError"
	default:
		return "Error"
	}
}

// Message renders err for the outermost command boundary.
func Message(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("[%s] %v", Kind(err), err)
}
