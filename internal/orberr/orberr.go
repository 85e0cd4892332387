// Package orberr defines Orbit's error taxonomy: a small set of error kinds
// that every user-facing failure maps into, plus the exit code each kind
// corresponds to. Internal packages raise their own sentinel/typed errors
// (plan.CyclicDesignError, cache.ErrNoVersionMatch, ...); only the command
// layer wraps them into an orberr.Error on the way out.
package orberr

import (
	"errors"
	"fmt"
	"time"
)

// Kind is one of Orbit's error categories (spec.md §7). It is a category,
// not a concrete error type: many distinct Go error values can map to the
// same Kind.
type Kind string

const (
	// UserInput covers bad flags or a missing required selection, e.g.
	// neither --ip, --git, nor --path given to install.
	UserInput Kind = "user_input"
	// ManifestError covers malformed TOML, a missing required key, or a
	// constraint that fails to parse.
	ManifestError Kind = "manifest"
	// ResolutionError covers an unknown IP, no version matching a
	// constraint, a requested Dev install, or conflicting direct
	// dependencies.
	ResolutionError Kind = "resolution"
	// HdlParseError covers an unrecoverable token encountered in strict
	// (non-lazy) parse mode.
	HdlParseError Kind = "hdl_parse"
	// GraphError covers DuplicateUnit, AmbiguousBench, AmbiguousTop,
	// NoTop, and CyclicDesign.
	GraphError Kind = "graph"
	// CacheError covers a checksum mismatch after install, a slot already
	// occupied without --force, or store corruption.
	CacheError Kind = "cache"
	// IoError covers an underlying filesystem or subprocess failure that
	// doesn't fit a more specific kind.
	IoError Kind = "io"
	// Internal marks an invariant violation that should never happen in
	// well-formed input; it maps to exit code 101, not 1.
	Internal Kind = "internal"
)

// Error wraps an underlying error with the taxonomy Kind and the operation
// during which it occurred (Kind + Operation + Underlying + Timestamp) —
// enough for the command layer to pick an exit code and print a message.
type Error struct {
	Kind       Kind
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// New wraps err under the given kind and operation name. Returns nil if err
// is nil, so call sites can write `return orberr.New(...)` unconditionally.
func New(kind Kind, op string, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Operation: op, Underlying: err, Timestamp: time.Now()}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Operation, e.Underlying)
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

// ExitCode maps the error's Kind to the process exit code from spec.md §6:
// 0 success, 1 recoverable user error, 101 internal invariant violation.
func (e *Error) ExitCode() int {
	if e.Kind == Internal {
		return 101
	}
	return 1
}

// ExitCode inspects err (unwrapping orberr.Error if present) and returns the
// process exit code it corresponds to. A nil error exits 0; any error that
// isn't an *Error is treated as a recoverable user error (exit 1).
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var oe *Error
	if errors.As(err, &oe) {
		return oe.ExitCode()
	}
	return 1
}
