package executor

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"eggshell/internal/ast"
	"eggshell/internal/token"
)

// openOptions computes the open(2) flags for an output redirection the
// way redirect() in process.c does, honoring the shell's "noclobber"
// environment variable and the "!"-suffixed clobber-override operators.
func openOptions(kind token.Kind) int {
	flags := os.O_WRONLY
	_, noclobber := os.LookupEnv("noclobber")
	if kind.IsAppend() {
		flags |= os.O_APPEND
		if !noclobber || kind.IsClobber() {
			flags |= os.O_CREATE
		}
		return flags
	}
	flags |= os.O_CREATE | os.O_TRUNC
	if noclobber && !kind.IsClobber() {
		flags |= os.O_EXCL
	}
	return flags
}

// buildExternalCmd constructs (but does not start) an *exec.Cmd for an
// external simple command, inheriting the shell's environment and current
// directory.
func (e *Executor) buildExternalCmd(n *ast.Node) (*exec.Cmd, error) {
	cmd := exec.Command(n.Argv[0], n.Argv[1:]...)
	cmd.Env = os.Environ()
	return cmd, nil
}

// applyExternalRedirect opens n's From/To files (if any) and wires them
// onto cmd's Stdin/Stdout/Stderr, defaulting to the shell's own streams
// otherwise. It mirrors redirect() in process.c, minus the here-document
// pipe-writer fork, which heredocPipe below reproduces with an in-process
// pipe instead of a forked child. The returned closeOpened must be called
// once cmd has been started, mirroring execPipe's own close-after-Start
// discipline: the child inherits its own copy of each opened fd, so the
// shell's copy should not be held open past that point.
func applyExternalRedirect(cmd *exec.Cmd, n *ast.Node) (closeOpened func(), err error) {
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	var opened []*os.File
	closeOpened = func() {
		for _, f := range opened {
			f.Close()
		}
	}

	if n.HasFrom {
		f, ferr := openFrom(n)
		if ferr != nil {
			return closeOpened, ferr
		}
		cmd.Stdin = f
		opened = append(opened, f)
	}

	if n.HasTo {
		f, ferr := os.OpenFile(n.ToFile, openOptions(n.ToKind), 0666)
		if ferr != nil {
			return closeOpened, fmt.Errorf("eggshell: %w", ferr)
		}
		cmd.Stdout = f
		if n.ToKind.IsErr() {
			cmd.Stderr = f
		}
		opened = append(opened, f)
	}

	return closeOpened, nil
}

// openFrom returns the *os.File to use as stdin for n's input redirection,
// handling both a plain file (RED_IN) and a here-document body (RED_HERE),
// whose text was already fully expanded at parse time and is stashed in
// n.FromData.
func openFrom(n *ast.Node) (*os.File, error) {
	if n.FromKind == token.RedHere {
		return heredocPipe(n.FromData)
	}
	f, err := os.Open(n.FromData)
	if err != nil {
		return nil, fmt.Errorf("eggshell: %w", err)
	}
	return f, nil
}

// heredocPipe writes body into an os.Pipe's write end from a goroutine and
// returns the read end, the Go equivalent of redirect()'s fork-a-writer
// trick for RED_HERE (a real child process there, a goroutine here — both
// exist solely to keep the writer from blocking once the pipe buffer
// fills).
func heredocPipe(body string) (*os.File, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("eggshell: %w", err)
	}
	go func() {
		defer w.Close()
		w.WriteString(body)
	}()
	return r, nil
}

// swapStderr redirects the process's real fd 2 onto n's target file for the
// duration of a built-in call, mirroring execBuiltin's dup/dup2 dance, and
// returns a function that restores the original fd 2. It is a no-op
// (restore does nothing) unless n carries an ERR-variant redirection —
// execBuiltin only ever honors ISERROR(cmd->toType).
func swapStderr(n *ast.Node) (restore func(), err error) {
	noop := func() {}
	if !n.HasTo || !n.ToKind.IsErr() {
		return noop, nil
	}

	newFd, err := syscall.Open(n.ToFile, openOptions(n.ToKind)|syscall.O_CLOEXEC, 0666)
	if err != nil {
		return noop, fmt.Errorf("eggshell: %w", err)
	}

	// os.Stderr writes are unbuffered (each Write is its own syscall), so
	// unlike the original's fflush(stderr) there is nothing to flush here
	// before swapping the fd.
	oldFd, err := syscall.Dup(2)
	if err != nil {
		syscall.Close(newFd)
		return noop, fmt.Errorf("eggshell: %w", err)
	}

	if err := syscall.Dup2(newFd, 2); err != nil {
		syscall.Close(newFd)
		syscall.Close(oldFd)
		return noop, fmt.Errorf("eggshell: %w", err)
	}
	syscall.Close(newFd)

	return func() {
		syscall.Dup2(oldFd, 2)
		syscall.Close(oldFd)
	}, nil
}

// dup2File duplicates f's fd onto targetFd (one of 0/1/2) and returns a
// function that restores whatever targetFd pointed to beforehand.
func dup2File(f *os.File, targetFd int) (restore func(), err error) {
	oldFd, err := syscall.Dup(targetFd)
	if err != nil {
		return nil, fmt.Errorf("eggshell: %w", err)
	}
	if err := syscall.Dup2(int(f.Fd()), targetFd); err != nil {
		syscall.Close(oldFd)
		return nil, fmt.Errorf("eggshell: %w", err)
	}
	return func() {
		syscall.Dup2(oldFd, targetFd)
		syscall.Close(oldFd)
	}, nil
}
