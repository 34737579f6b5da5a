// Package errdefs defines the error kinds eggshell's built-ins and executor
// classify OS and argument failures into, so callers can branch on kind
// instead of matching on message text. The taxonomy and wrapper shape mirror
// the error-kind package used elsewhere in this codebase's dependency
// lineage: a marker interface per kind, a concrete causal wrapper, and
// Is<Kind> predicates that unwrap both standard error chains and Cause()
// chains.
package errdefs

// ErrNotFound indicates that a referenced file, directory, or command could
// not be located.
type ErrNotFound interface {
	error
	NotFound()
}

// ErrInvalidArgument indicates a built-in was invoked with an argument count
// or shape its contract rejects.
type ErrInvalidArgument interface {
	error
	InvalidArgument()
}

// ErrPermission indicates an operation failed because of OS-level access
// control.
type ErrPermission interface {
	error
	Permission()
}

// ErrConflict indicates an operation failed because of existing state that
// the operation refused to clobber (e.g. noclobber on an existing file).
type ErrConflict interface {
	error
	Conflict()
}

// ErrUnavailable indicates an operation failed because a required resource
// (a pipe, a process slot, a directory-stack entry) was not available.
type ErrUnavailable interface {
	error
	Unavailable()
}
