package executor

import (
	"bytes"
	"encoding/base64"
	"encoding/gob"
	"fmt"
	"os"
	"os/exec"

	"eggshell/internal/ast"
)

// subshellEnvVar carries a gob-and-base64-encoded ast.Node between this
// process and a re-exec'd copy of itself. It is read only by
// IsSubshellChild at the very start of main(), before any REPL or
// flag-parsing logic runs, so it never surfaces as a user-facing flag.
const subshellEnvVar = "EGGSHELL_SUBSHELL_NODE"

func init() {
	gob.Register(&ast.Node{})
}

func encodeNode(n *ast.Node) (string, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(n); err != nil {
		return "", fmt.Errorf("encoding subshell tree: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func decodeNode(s string) (*ast.Node, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decoding subshell tree: %w", err)
	}
	var n ast.Node
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&n); err != nil {
		return nil, fmt.Errorf("decoding subshell tree: %w", err)
	}
	return &n, nil
}

// spawnSubshell re-execs the running binary with wrapper (a Subcmd node, or
// a lone builtin Simple node standing in for a non-terminal pipeline
// builtin) encoded into its environment, and starts it. The Go runtime
// cannot safely keep running arbitrary Go code in a bare forked child (only
// the calling OS thread is duplicated, leaving every other goroutine's
// runtime state invisible to it), so re-exec is the idiomatic substitute
// for the original's fork()-then-continue-running-C-code approach — the
// child is a fresh, fully-initialized process, same as a real fork would
// give the original.
func spawnSubshell(wrapper *ast.Node) (*exec.Cmd, error) {
	cmd, err := buildReexecCmd(wrapper)
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return cmd, nil
}

// buildReexecCmd constructs (without starting) the *exec.Cmd that re-execs
// this binary to run wrapper as its whole job, with Stdin/Stdout/Stderr
// defaulted to the shell's own streams. A pipeline stage overrides those
// fields before starting it, the same way it would for any other stage's
// *exec.Cmd.
func buildReexecCmd(wrapper *ast.Node) (*exec.Cmd, error) {
	self, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("eggshell: %w", err)
	}

	encoded, err := encodeNode(wrapper)
	if err != nil {
		return nil, fmt.Errorf("eggshell: %w", err)
	}

	cmd := exec.Command(self)
	cmd.Env = append(os.Environ(), subshellEnvVar+"="+encoded)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd, nil
}

// IsSubshellChild reports whether this process was itself re-exec'd by
// spawnSubshell, and returns the decoded tree to run if so.
func IsSubshellChild() (*ast.Node, bool) {
	encoded, ok := os.LookupEnv(subshellEnvVar)
	if !ok || encoded == "" {
		return nil, false
	}
	os.Unsetenv(subshellEnvVar)
	node, err := decodeNode(encoded)
	if err != nil {
		fmt.Fprintf(os.Stderr, "eggshell: %s\n", err)
		os.Exit(1)
	}
	return node, true
}

// RunChild executes a decoded subshell wrapper node as this (re-exec'd)
// process's entire job and returns the status main() should exit with,
// mirroring the child branch of processSubcommand: apply the wrapper's own
// redirection, if any, then run its body. A lone builtin Simple wrapper (no
// redirection fields meaningfully set beyond what execBuiltin itself
// honors) runs through the same built-in dispatch as any other builtin.
func (e *Executor) RunChild(wrapper *ast.Node) int {
	if wrapper.Kind == ast.Simple {
		return e.runBuiltinRedirected(wrapper)
	}

	restore, err := applySubshellRedirect(wrapper)
	if err != nil {
		fmt.Fprintf(os.Stderr, "eggshell: %s\n", err)
		return 1
	}
	defer restore()

	return e.Process(wrapper.Left)
}

// applySubshellRedirect applies a Subcmd node's own From/To redirection to
// the current (child) process's real stdin/stdout/stderr, mirroring
// redirect(subcmdNode) in process.c. Unlike applyExternalRedirect (which
// only needs to set fields on an *exec.Cmd before it is started), this
// process IS the command, so the fds of the running process itself must
// move.
func applySubshellRedirect(n *ast.Node) (restore func(), err error) {
	noop := func() {}
	if !n.HasFrom && !n.HasTo {
		return noop, nil
	}

	var restores []func()
	restoreAll := func() {
		for i := len(restores) - 1; i >= 0; i-- {
			restores[i]()
		}
	}

	if n.HasFrom {
		f, ferr := openFrom(n)
		if ferr != nil {
			return noop, ferr
		}
		r, rerr := dup2File(f, int(os.Stdin.Fd()))
		f.Close()
		if rerr != nil {
			return noop, rerr
		}
		restores = append(restores, r)
	}

	if n.HasTo {
		f, ferr := os.OpenFile(n.ToFile, openOptions(n.ToKind), 0666)
		if ferr != nil {
			restoreAll()
			return noop, fmt.Errorf("eggshell: %w", ferr)
		}
		r, rerr := dup2File(f, int(os.Stdout.Fd()))
		if rerr != nil {
			f.Close()
			restoreAll()
			return noop, rerr
		}
		restores = append(restores, r)

		if n.ToKind.IsErr() {
			r2, rerr := dup2File(f, int(os.Stderr.Fd()))
			if rerr != nil {
				f.Close()
				restoreAll()
				return noop, rerr
			}
			restores = append(restores, r2)
		}
		f.Close()
	}

	return restoreAll, nil
}
