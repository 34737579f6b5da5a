// Command eggshell is a small POSIX-flavored interactive shell: lexer,
// recursive-descent parser, and tree-walking executor over pipelines,
// boolean sequencing, subshells, redirection, and background jobs. It
// takes no command-line flags, grounded on the original implementation's
// main.c REPL loop and _examples/seanrobmerriam-webos/cmd/wsh's shell/main
// split.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"eggshell/internal/executor"
	"eggshell/internal/lexer"
	"eggshell/internal/parser"
	"eggshell/internal/reader"
)

func main() {
	// A subshell or a non-terminal pipeline builtin re-execs this same
	// binary with its job encoded into the environment; that case is
	// handled and exited before anything REPL-shaped ever runs, and never
	// appears as a documented flag (see internal/executor/subshell.go).
	if wrapper, ok := executor.IsSubshellChild(); ok {
		os.Exit(executor.New().RunChild(wrapper))
	}

	configureLogging()

	lines := reader.New(os.Stdin)
	exec := executor.New()
	log := logrus.WithField("component", "repl")

	nCmd := 1
	for {
		fmt.Printf("(%d)$ ", nCmd)

		line, err := lines.ReadLine()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				fmt.Fprintf(os.Stderr, "eggshell: %s\n", err)
			}
			break
		}

		toks, err := lexer.Tokenize(line)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}

		node, err := parser.Parse(toks, lines)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if node == nil {
			continue // blank line or comment-only line
		}

		log.WithField("cmd", nCmd).Debug("executing command")
		exec.Process(node)
		nCmd++
	}
}

// configureLogging enables debug-level structured logging when
// EGGSHELL_DEBUG is set in the environment, per SPEC_FULL.md §2.1; it is
// silent (logrus's default level, Info, discards Debug lines) otherwise.
func configureLogging() {
	logrus.SetOutput(os.Stderr)
	if _, ok := os.LookupEnv("EGGSHELL_DEBUG"); ok {
		logrus.SetLevel(logrus.DebugLevel)
	}
}
