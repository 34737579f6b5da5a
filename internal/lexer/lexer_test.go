package lexer

import (
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"eggshell/internal/token"
)

func TestTokenizeSimple(t *testing.T) {
	tests := map[string]struct {
		line string
		want []token.Token
	}{
		"plain words": {
			line: "echo hello",
			want: []token.Token{
				{Kind: token.SIMPLE, Text: "echo"},
				{Kind: token.SIMPLE, Text: "hello"},
			},
		},
		"comment": {
			line: "echo hi # trailing comment",
			want: []token.Token{
				{Kind: token.SIMPLE, Text: "echo"},
				{Kind: token.SIMPLE, Text: "hi"},
			},
		},
		"longest match append clobber err": {
			line: "cmd >>&! file",
			want: []token.Token{
				{Kind: token.SIMPLE, Text: "cmd"},
				{Kind: token.RedErrAppendClobber, Text: ">>&!"},
				{Kind: token.SIMPLE, Text: "file"},
			},
		},
		"pipe vs pipe_err": {
			line: "a|&b|c",
			want: []token.Token{
				{Kind: token.SIMPLE, Text: "a"},
				{Kind: token.PipeErr, Text: "|&"},
				{Kind: token.SIMPLE, Text: "b"},
				{Kind: token.Pipe, Text: "|"},
				{Kind: token.SIMPLE, Text: "c"},
			},
		},
		"quotes elide metachars": {
			line: `echo 'a;b|c'`,
			want: []token.Token{
				{Kind: token.SIMPLE, Text: "echo"},
				{Kind: token.SIMPLE, Text: "a;b|c"},
			},
		},
		"mixed quotes back to back": {
			line: `echo 'foo'"bar"`,
			want: []token.Token{
				{Kind: token.SIMPLE, Text: "echo"},
				{Kind: token.SIMPLE, Text: "foobar"},
			},
		},
		"backslash escapes metachar": {
			line: `echo a\|b`,
			want: []token.Token{
				{Kind: token.SIMPLE, Text: "echo"},
				{Kind: token.SIMPLE, Text: "a|b"},
			},
		},
		"backslash before newline preserved": {
			line: "echo a\\\nb",
			want: []token.Token{
				{Kind: token.SIMPLE, Text: "echo"},
				{Kind: token.SIMPLE, Text: "a\\"},
				{Kind: token.SIMPLE, Text: "b"},
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := Tokenize(tc.line)
			assert.NilError(t, err)
			assert.Check(t, is.DeepEqual(got, tc.want))
		})
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	_, err := Tokenize(`echo "unterminated`)
	assert.Check(t, is.ErrorIs(err, ErrUnterminatedString))
}
