// Package lexer tokenizes a single shell input line, grounded on the
// original implementation's tokenize.c: a longest-match special-token table
// followed by SIMPLE-token scanning with quote and backslash-escape rules.
package lexer

import (
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"eggshell/internal/token"
)

// ErrUnterminatedString is returned when a quoted region is left open at the
// end of the line. The lexer itself writes nothing; its text is the
// "Unterminated string" diagnostic that callers print to stderr.
var ErrUnterminatedString = errors.New("Unterminated string")

const metachars = "<>&;|()"

// special is the longest-match table from tokenize.c's STok[]: an entry that
// is a prefix of a longer entry is listed after that longer entry, so the
// longer match is tried first.
var special = []struct {
	text string
	kind token.Kind
}{
	{"<<", token.RedHere},
	{"<", token.RedIn},
	{">>&!", token.RedErrAppendClobber},
	{">>&", token.RedErrAppend},
	{">>!", token.RedOutAppendClobber},
	{">>", token.RedOutAppend},
	{">&!", token.RedErrClobber},
	{">&", token.RedErr},
	{">!", token.RedOutClobber},
	{">", token.RedOut},
	{";", token.SepEnd},
	{"&&", token.SepAnd},
	{"&", token.SepBackground},
	{"||", token.SepOr},
	{"|&", token.PipeErr},
	{"|", token.Pipe},
	{"(", token.ParLeft},
	{")", token.ParRight},
}

// Tokenize splits line into a sequence of tokens. A '#' outside of a SIMPLE
// word ends the line as a comment. An unterminated quote returns
// ErrUnterminatedString.
func Tokenize(line string) ([]token.Token, error) {
	var tokens []token.Token
	log := logrus.WithField("component", "lexer")

	for p := 0; p < len(line); {
		c := line[p]

		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			p++
			continue
		}
		if c == '#' {
			break
		}

		if kind, text, ok := matchSpecial(line[p:]); ok {
			tokens = append(tokens, token.Token{Kind: kind, Text: text})
			log.Debugf("special token %s", kind)
			p += len(text)
			continue
		}

		word, consumed, terminated := scanSimple(line[p:])
		if !terminated {
			log.Debug("unterminated quoted string")
			return nil, ErrUnterminatedString
		}
		tokens = append(tokens, token.Token{Kind: token.SIMPLE, Text: word})
		p += consumed
	}

	return tokens, nil
}

func matchSpecial(rest string) (token.Kind, string, bool) {
	for _, s := range special {
		if strings.HasPrefix(rest, s.text) {
			return s.kind, s.text, true
		}
	}
	return 0, "", false
}

// scanSimple scans one SIMPLE token from the start of rest, honoring quote
// and backslash-escape rules, and returns the unescaped word text, the
// number of input bytes consumed, and whether the token ended cleanly
// (false if a quote was left open).
func scanSimple(rest string) (word string, consumed int, terminated bool) {
	var b strings.Builder
	var inQuote byte

	i := 0
	for i < len(rest) {
		c := rest[i]

		switch {
		case inQuote != 0 && c == inQuote:
			inQuote = 0
			i++
		case inQuote != 0:
			b.WriteByte(c)
			i++
		case c == '\'' || c == '"':
			inQuote = c
			i++
		case c == '\\' && i+1 < len(rest) && rest[i+1] == '\n':
			// A backslash directly before a newline is kept literally and
			// does not consume the newline, so the newline still ends the
			// token on the next iteration (tokenize.c copies *p, then its
			// own for-loop increments p by one, landing on '\n').
			b.WriteByte(c)
			i++
		case c == '\\' && i+1 < len(rest):
			b.WriteByte(rest[i+1])
			i += 2
		case !strings.ContainsRune(metachars, rune(c)) && c != ' ' && c != '\t' && c != '\n' && c != '\r':
			b.WriteByte(c)
			i++
		default:
			return b.String(), i, inQuote == 0
		}
	}

	return b.String(), i, inQuote == 0
}
