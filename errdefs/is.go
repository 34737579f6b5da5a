package errdefs

// causal is satisfied by errors that know their underlying cause, following
// the github.com/pkg/errors convention rather than the stdlib Unwrap one.
type causal interface {
	Cause() error
}

// multiUnwrap is satisfied by errors.Join's result type.
type multiUnwrap interface {
	Unwrap() []error
}

// getImplementer walks err's wrap chain (stdlib Unwrap, errors.Join, and
// Cause()) looking for the first error that implements T. The search is
// depth-first and stops at the first match, consistent with errors.As.
func getImplementer[T any](err error) (t T) {
	for err != nil {
		if v, ok := err.(T); ok {
			return v
		}
		switch x := err.(type) {
		case multiUnwrap:
			for _, sub := range x.Unwrap() {
				if v := getImplementer[T](sub); any(v) != any(t) {
					return v
				}
			}
			return t
		case interface{ Unwrap() error }:
			err = x.Unwrap()
		case causal:
			err = x.Cause()
		default:
			return t
		}
	}
	return t
}

// IsNotFound reports whether err, or any error in its wrap chain, is an
// ErrNotFound.
func IsNotFound(err error) bool {
	_, ok := getImplementer[ErrNotFound](err).(ErrNotFound)
	return ok
}

// IsInvalidArgument reports whether err, or any error in its wrap chain, is
// an ErrInvalidArgument.
func IsInvalidArgument(err error) bool {
	_, ok := getImplementer[ErrInvalidArgument](err).(ErrInvalidArgument)
	return ok
}

// IsPermission reports whether err, or any error in its wrap chain, is an
// ErrPermission.
func IsPermission(err error) bool {
	_, ok := getImplementer[ErrPermission](err).(ErrPermission)
	return ok
}

// IsConflict reports whether err, or any error in its wrap chain, is an
// ErrConflict.
func IsConflict(err error) bool {
	_, ok := getImplementer[ErrConflict](err).(ErrConflict)
	return ok
}

// IsUnavailable reports whether err, or any error in its wrap chain, is an
// ErrUnavailable.
func IsUnavailable(err error) bool {
	_, ok := getImplementer[ErrUnavailable](err).(ErrUnavailable)
	return ok
}
