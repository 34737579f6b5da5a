package main

import (
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/creack/pty"
	"gotest.tools/v3/assert"
)

// TestHelperProcess is not a real test: it's the entry point this test file
// re-execs itself through (via os.Args[0]) to get an actual eggshell REPL
// running under a pty, the idiomatic way to integration-test a CLI that
// talks to a terminal rather than a pipe.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("EGGSHELL_TEST_HELPER") != "1" {
		t.Skip("helper process entry point; not a real test")
	}
	main()
}

// TestPromptSequence drives a real eggshell REPL under a pty and checks
// that the "(N)$ " prompt counter advances exactly the way main.c's nCmd
// does: it only increments after a command is successfully parsed and run.
func TestPromptSequence(t *testing.T) {
	cmd := exec.Command(os.Args[0], "-test.run=TestHelperProcess")
	cmd.Env = append(os.Environ(), "EGGSHELL_TEST_HELPER=1")

	ptmx, err := pty.Start(cmd)
	if err != nil {
		t.Skipf("pty not available in this environment: %s", err)
	}
	defer ptmx.Close()
	defer cmd.Process.Kill()

	var buf strings.Builder
	readUntil := func(want string) {
		t.Helper()
		deadline := time.Now().Add(5 * time.Second)
		chunk := make([]byte, 4096)
		for time.Now().Before(deadline) {
			if strings.Contains(buf.String(), want) {
				return
			}
			ptmx.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
			n, rerr := ptmx.Read(chunk)
			if n > 0 {
				buf.Write(chunk[:n])
			}
			if rerr != nil && n == 0 {
				continue
			}
		}
		t.Fatalf("timed out waiting for %q, got so far: %q", want, buf.String())
	}

	readUntil("(1)$ ")

	if _, err := ptmx.Write([]byte("true\n")); err != nil {
		t.Fatalf("write: %s", err)
	}
	readUntil("(2)$ ")

	if _, err := ptmx.Write([]byte("   \n")); err != nil {
		t.Fatalf("write: %s", err)
	}
	// a blank line does not advance the counter
	time.Sleep(200 * time.Millisecond)
	chunk := make([]byte, 4096)
	ptmx.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if n, _ := ptmx.Read(chunk); n > 0 {
		buf.Write(chunk[:n])
	}
	assert.Check(t, !strings.Contains(buf.String(), "(3)$ "))
}
