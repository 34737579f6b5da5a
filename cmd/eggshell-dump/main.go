// Command eggshell-dump tokenizes and parses eggshell input and prints the
// resulting token stream and command tree without executing anything,
// grounded on the original implementation's dumpList/dumpTree debug
// machinery in main.c. Unlike the eggshell shell binary itself, this is a
// supplemental developer tool, so it is the one place in this module that
// takes command-line flags.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"eggshell/internal/dump"
	"eggshell/internal/lexer"
	"eggshell/internal/parser"
	"eggshell/internal/reader"
)

func main() {
	var command string
	var file string

	root := &cobra.Command{
		Use:   "eggshell-dump",
		Short: "Print the token stream and command tree for eggshell input without running it",
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(command, file, os.Stdout)
		},
	}
	root.Flags().StringVarP(&command, "command", "c", "", "dump a single command string instead of reading input")
	root.Flags().StringVarP(&file, "file", "f", "", "dump every command read from this file")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(command, file string, out io.Writer) error {
	var src io.Reader
	switch {
	case command != "":
		src = strings.NewReader(command + "\n")
	case file != "":
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		src = f
	default:
		src = os.Stdin
	}

	lines := reader.New(src)
	for {
		line, err := lines.ReadLine()
		if err != nil {
			break
		}

		toks, err := lexer.Tokenize(line)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		fmt.Fprint(out, dump.Tokens(toks))

		node, err := parser.Parse(toks, lines)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if node == nil {
			continue
		}
		fmt.Fprint(out, dump.Tree(node))
	}

	return nil
}
