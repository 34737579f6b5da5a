// Package builtin implements the shell's closed set of built-in commands —
// cd, pushd, and popd — grounded on the original implementation's
// builtinCommands.c. This set is intentionally closed: IsBuiltin never
// widens to cover pwd/echo/export/etc. the way a general-purpose shell
// might, since doing so would change which commands fork a child process.
package builtin

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"eggshell/errdefs"
	"eggshell/internal/strbuf"
)

// Builtins holds the process-wide state the built-ins share: the pushd/popd
// directory stack, initialized lazily on first use (mirroring the
// original's lazily-malloc'd, atexit-freed dirStack global).
type Builtins struct {
	dirStack *strbuf.Stack
}

// New returns a Builtins with an empty, not-yet-initialized directory stack.
func New() *Builtins {
	return &Builtins{}
}

// IsBuiltin reports whether name is one of the three built-ins this shell
// recognizes.
func IsBuiltin(name string) bool {
	switch name {
	case "cd", "pushd", "popd":
		return true
	default:
		return false
	}
}

// Run dispatches argv[0] (which must satisfy IsBuiltin) to the matching
// built-in and returns its exit status. The returned error is a classified
// errdefs error for internal/debug logging only — the user-facing message
// and the returned status are exactly what SPEC_FULL.md §4.5 specifies and
// do not depend on it.
func (b *Builtins) Run(argv []string) (int, error) {
	switch argv[0] {
	case "cd":
		return b.cd(argv)
	case "pushd":
		return b.pushd(argv)
	default:
		return b.popd(argv)
	}
}

func (b *Builtins) cd(argv []string) (int, error) {
	if len(argv) > 2 {
		fmt.Fprintln(os.Stderr, "cd: Too many arguments")
		return 1, errdefs.InvalidArgument(errors.New("cd: too many arguments"))
	}

	dir := os.Getenv("HOME")
	if len(argv) == 2 {
		dir = argv[1]
	}

	if err := os.Chdir(dir); err != nil {
		fmt.Fprintf(os.Stderr, "cd: %s\n", errnoText(err))
		return exitCode(err), classify(err)
	}
	return 0, nil
}

func (b *Builtins) ensureStack() {
	if b.dirStack == nil {
		b.dirStack = strbuf.NewStack()
	}
}

func (b *Builtins) pushd(argv []string) (int, error) {
	b.ensureStack()

	if len(argv) > 2 {
		fmt.Fprintln(os.Stderr, "pushd: Too many arguments")
		return 1, errdefs.InvalidArgument(errors.New("pushd: too many arguments"))
	}
	if len(argv) == 1 {
		fmt.Fprintln(os.Stderr, "pushd: No directory arg given")
		return 1, errdefs.InvalidArgument(errors.New("pushd: no directory arg given"))
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, "pushd: getcwd failed")
		return exitCode(err), classify(err)
	}

	if err := os.Chdir(argv[1]); err != nil {
		fmt.Fprintln(os.Stderr, "pushd: chdir failed")
		return exitCode(err), classify(err)
	}

	b.dirStack.Push(cwd)
	return 0, nil
}

func (b *Builtins) popd(argv []string) (int, error) {
	b.ensureStack()

	if len(argv) > 1 {
		fmt.Fprintln(os.Stderr, "popd: Too many arguments")
		return 1, errdefs.InvalidArgument(errors.New("popd: too many arguments"))
	}

	dir, ok := b.dirStack.Pop()
	if !ok {
		fmt.Fprintln(os.Stderr, "popd: Empty directory stack")
		return 1, errdefs.Unavailable(errors.New("popd: empty directory stack"))
	}

	if err := os.Chdir(dir); err != nil {
		fmt.Fprintln(os.Stderr, "popd: chdir failed")
		return exitCode(err), classify(err)
	}
	return 0, nil
}

// classify turns a raw *os.PathError into an errdefs-classified error
// without altering the message already printed to the user.
func classify(err error) error {
	switch {
	case os.IsNotExist(err):
		return errdefs.NotFound(err)
	case os.IsPermission(err):
		return errdefs.Permission(err)
	default:
		return err
	}
}

// errnoText renders the OS-level error text the way perror(3) would: just
// the strerror text, with no leading path.
func errnoText(err error) string {
	var perr *os.PathError
	if errors.As(err, &perr) {
		return perr.Err.Error()
	}
	return err.Error()
}

// exitCode extracts the raw errno value from err, matching the original's
// "return errno" convention for built-in failures.
func exitCode(err error) int {
	var perr *os.PathError
	if errors.As(err, &perr) {
		if errno, ok := perr.Err.(syscall.Errno); ok {
			return int(errno)
		}
	}
	return 1
}
