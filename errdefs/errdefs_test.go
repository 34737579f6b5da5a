package errdefs

import (
	"errors"
	"fmt"
	"testing"

	"gotest.tools/v3/assert"
)

var errTest = errors.New("this is a test")

type causalWrap struct{ err error }

func (e causalWrap) Error() string { return e.err.Error() }
func (e causalWrap) Cause() error  { return e.err }

func TestNotFound(t *testing.T) {
	if IsNotFound(errTest) {
		t.Fatalf("did not expect not found error, got %T", errTest)
	}
	e := NotFound(errTest)
	if !IsNotFound(e) {
		t.Fatalf("expected not found error, got: %T", e)
	}
	if cause := e.(causal).Cause(); cause != errTest {
		t.Fatalf("cause should be errTest, got: %v", cause)
	}
	if !errors.Is(e, errTest) {
		t.Fatalf("expected not found error to match errTest")
	}

	wrapped := fmt.Errorf("foo: %w", e)
	if !IsNotFound(wrapped) {
		t.Fatalf("expected not found error, got: %T", wrapped)
	}
}

func TestInvalidArgument(t *testing.T) {
	if IsInvalidArgument(errTest) {
		t.Fatalf("did not expect invalid argument error, got %T", errTest)
	}
	e := InvalidArgument(errTest)
	if !IsInvalidArgument(e) {
		t.Fatalf("expected invalid argument error, got %T", e)
	}
	if !errors.Is(e, errTest) {
		t.Fatalf("expected invalid argument error to match errTest")
	}
}

func TestPermission(t *testing.T) {
	e := Permission(errTest)
	if !IsPermission(e) {
		t.Fatalf("expected permission error, got %T", e)
	}
}

func TestConflict(t *testing.T) {
	e := Conflict(errTest)
	if !IsConflict(e) {
		t.Fatalf("expected conflict error, got %T", e)
	}
}

func TestUnavailable(t *testing.T) {
	e := Unavailable(errTest)
	if !IsUnavailable(e) {
		t.Fatalf("expected unavailable error, got %T", e)
	}
}

func TestImplements(t *testing.T) {
	var errorNotFound errNotFound
	var errorInvalidArgument errInvalidArgument
	errOther := errors.New("other")

	tests := map[string]struct {
		err      error
		expected bool
	}{
		"nil": {
			err: nil,
		},
		"direct-not-found": {
			err:      errorNotFound,
			expected: true,
		},
		"direct-other": {
			err: errOther,
		},
		"wrapped-not-found": {
			err:      fmt.Errorf("wrap: %w", errorNotFound),
			expected: true,
		},
		"multi-wrapped-not-found": {
			err:      fmt.Errorf("wrap: %w", fmt.Errorf("wrap: %w", errorNotFound)),
			expected: true,
		},
		"join-not-found": {
			err:      errors.Join(errOther, errorNotFound),
			expected: true,
		},
		"join-other": {
			err: errors.Join(errOther, errOther),
		},
		"join-invalid-argument": {
			err: errors.Join(errOther, errorInvalidArgument),
		},
		"cause-not-found": {
			err:      causalWrap{errorNotFound},
			expected: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, IsNotFound(tc.err), tc.expected)
		})
	}
}
