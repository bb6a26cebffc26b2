// Package errs defines the error-kind taxonomy shared across the code-graph engine.
//
// Kinds are sentinel values, not types: callers wrap a sentinel with context via
// fmt.Errorf("...: %w", ErrNotFound) and inspect with errors.Is. This keeps the
// taxonomy closed (per the "no open inheritance" design note) while staying
// idiomatic Go.
package errs

import "errors"

var (
	// ErrIO covers filesystem read/write failures: cache load/save, file reads.
	ErrIO = errors.New("io error")
	// ErrParse covers a tree-sitter parse failure on a single file.
	ErrParse = errors.New("parse error")
	// ErrResolve covers a single import/use that could not be resolved.
	ErrResolve = errors.New("resolve error")
	// ErrVersionMismatch covers a cache envelope whose version differs from the
	// current build's cache.Version.
	ErrVersionMismatch = errors.New("cache version mismatch")
	// ErrUserInput covers invalid regex, invalid snapshot name, unknown tool,
	// missing parameter, or unknown language filter.
	ErrUserInput = errors.New("invalid input")
	// ErrNotFound covers a file path, symbol, or snapshot that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrBuildTimeout covers a build that exceeded its budget.
	ErrBuildTimeout = errors.New("build timeout")
	// ErrTaskJoinFailure covers a worker-pool task that failed to rejoin cleanly.
	ErrTaskJoinFailure = errors.New("task join failure")
)
