package parser

import (
	"strings"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"eggshell/internal/ast"
	"eggshell/internal/lexer"
	"eggshell/internal/reader"
)

func parseLine(t *testing.T, line string) *ast.Node {
	t.Helper()
	toks, err := lexer.Tokenize(line)
	assert.NilError(t, err)
	node, err := Parse(toks, nil)
	assert.NilError(t, err)
	return node
}

func TestParseSimple(t *testing.T) {
	node := parseLine(t, "echo hello")
	assert.Check(t, is.Equal(node.Kind, ast.Simple))
	assert.Check(t, is.DeepEqual(node.Argv, []string{"echo", "hello"}))
}

func TestAssociativitySepEnd(t *testing.T) {
	node := parseLine(t, "a;b;c")
	assert.Check(t, is.Equal(node.Kind, ast.SepEnd))
	assert.Check(t, is.DeepEqual(node.Left.Argv, []string{"a"}))
	assert.Check(t, is.Equal(node.Right.Kind, ast.SepEnd))
	assert.Check(t, is.DeepEqual(node.Right.Left.Argv, []string{"b"}))
	assert.Check(t, is.DeepEqual(node.Right.Right.Argv, []string{"c"}))
}

func TestAssociativityAndOr(t *testing.T) {
	node := parseLine(t, "a&&b||c")
	assert.Check(t, is.Equal(node.Kind, ast.SepAnd))
	assert.Check(t, is.DeepEqual(node.Left.Argv, []string{"a"}))
	assert.Check(t, is.Equal(node.Right.Kind, ast.SepOr))
	assert.Check(t, is.DeepEqual(node.Right.Left.Argv, []string{"b"}))
	assert.Check(t, is.DeepEqual(node.Right.Right.Argv, []string{"c"}))
}

func TestAssociativityPipe(t *testing.T) {
	node := parseLine(t, "a|b|c")
	assert.Check(t, is.Equal(node.Kind, ast.Pipe))
	assert.Check(t, is.DeepEqual(node.Left.Argv, []string{"a"}))
	assert.Check(t, is.Equal(node.Right.Kind, ast.Pipe))
	assert.Check(t, is.DeepEqual(node.Right.Left.Argv, []string{"b"}))
	assert.Check(t, is.DeepEqual(node.Right.Right.Argv, []string{"c"}))
}

func TestTrailingSeparator(t *testing.T) {
	node := parseLine(t, "echo hi;")
	assert.Check(t, is.Equal(node.Kind, ast.SepEnd))
	assert.Check(t, node.Right == nil)
}

func TestSubshell(t *testing.T) {
	node := parseLine(t, "(echo hi)")
	assert.Check(t, is.Equal(node.Kind, ast.Subcmd))
	assert.Check(t, is.Equal(node.Left.Kind, ast.Simple))
}

func TestRedirections(t *testing.T) {
	node := parseLine(t, "cat < in.txt > out.txt")
	assert.Check(t, node.HasFromRedirect())
	assert.Check(t, is.Equal(node.FromData, "in.txt"))
	assert.Check(t, node.HasToRedirect())
	assert.Check(t, is.Equal(node.ToFile, "out.txt"))
}

func TestHereDocument(t *testing.T) {
	toks, err := lexer.Tokenize("cat <<END")
	assert.NilError(t, err)

	t.Setenv("USER", "alice")
	rd := reader.New(strings.NewReader("hi $USER\nEND\n"))
	node, err := Parse(toks, rd)
	assert.NilError(t, err)
	assert.Check(t, is.Equal(node.FromData, "hi alice\n"))
}

func TestRejectsDoubleInputRedirection(t *testing.T) {
	toks, err := lexer.Tokenize("cat < a < b")
	assert.NilError(t, err)
	_, err = Parse(toks, nil)
	assert.ErrorIs(t, err, ErrParse)
}

func TestRejectsPipeWithMiddleRedirection(t *testing.T) {
	// the middle stage of a pipeline may not itself carry local redirection
	toks, err := lexer.Tokenize("a | b > out | c")
	assert.NilError(t, err)
	_, err = Parse(toks, nil)
	assert.ErrorIs(t, err, ErrParse)
}

func TestRejectsUnclosedSubshell(t *testing.T) {
	toks, err := lexer.Tokenize("(echo hi")
	assert.NilError(t, err)
	_, err = Parse(toks, nil)
	assert.ErrorIs(t, err, ErrParse)
}

func TestEmptyLineIsNoOp(t *testing.T) {
	toks, err := lexer.Tokenize("   # just a comment")
	assert.NilError(t, err)
	node, err := Parse(toks, nil)
	assert.NilError(t, err)
	assert.Check(t, node == nil)
}
