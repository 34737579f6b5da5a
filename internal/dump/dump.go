// Package dump renders tokens and command trees as human-readable text
// without executing anything, grounded on the original implementation's
// dumpList/dumpTree/dumpArgs/dumpRedirect family in main.c — the debug
// machinery behind cmd/eggshell-dump.
package dump

import (
	"fmt"
	"strings"

	"eggshell/internal/ast"
	"eggshell/internal/token"
)

// Tokens renders a token stream one line at a time as "text:kind ", exactly
// matching dumpList's "%s:%d " shape (kind rendered as its name rather than
// the original's raw enum integer, since this tool targets a human reader
// rather than another C translation unit).
func Tokens(toks []token.Token) string {
	var b strings.Builder
	for _, t := range toks {
		fmt.Fprintf(&b, "%s:%s ", t.Text, t.Kind)
	}
	b.WriteByte('\n')
	return b.String()
}

// Tree renders the command tree rooted at n as one line per node, in the
// same left/self/right in-order walk as dumpTree, annotated with each
// node's depth.
func Tree(n *ast.Node) string {
	var b strings.Builder
	dumpTree(&b, n, 0)
	return b.String()
}

func dumpTree(b *strings.Builder, n *ast.Node, level int) {
	if n == nil {
		return
	}

	dumpTree(b, n.Left, level+1)

	fmt.Fprintf(b, "CMD (Depth = %d):  ", level)
	switch n.Kind {
	case ast.Simple:
		b.WriteString("SIMPLE")
		dumpArgs(b, n)
		dumpRedirect(b, n)
	case ast.Subcmd:
		b.WriteString("SUBCMD")
		dumpRedirect(b, n)
	default:
		b.WriteString(n.Kind.String())
	}
	b.WriteByte('\n')

	dumpTree(b, n.Right, level+1)
}

func dumpArgs(b *strings.Builder, n *ast.Node) {
	for i, arg := range n.Argv {
		fmt.Fprintf(b, ",  argv[%d] = %s", i, arg)
	}
}

func dumpRedirect(b *strings.Builder, n *ast.Node) {
	if n.HasFrom {
		if n.FromKind == token.RedHere {
			fmt.Fprint(b, "  <HERE")
		} else {
			fmt.Fprintf(b, "  <%s", n.FromData)
		}
	}

	if n.HasTo {
		sym := redirectSymbol(n.ToKind)
		fmt.Fprintf(b, "  %s%s", sym, n.ToFile)
	}

	if n.HasFrom && n.FromKind == token.RedHere {
		b.WriteString("\n         HERE:  ")
		lines := strings.Split(strings.TrimSuffix(n.FromData, "\n"), "\n")
		b.WriteString(strings.Join(lines, "\n         HERE:  "))
	}
}

func redirectSymbol(kind token.Kind) string {
	switch kind {
	case token.RedOut:
		return ">"
	case token.RedOutClobber:
		return ">!"
	case token.RedOutAppend:
		return ">>"
	case token.RedOutAppendClobber:
		return ">>!"
	case token.RedErr:
		return ">&"
	case token.RedErrClobber:
		return ">&!"
	case token.RedErrAppend:
		return ">>&"
	case token.RedErrAppendClobber:
		return ">>&!"
	default:
		return "ILLEGAL OUTPUT REDIRECTION"
	}
}
