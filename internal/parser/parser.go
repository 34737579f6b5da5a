// Package parser implements the recursive-descent parser that turns a token
// sequence into a command tree, grounded on the original implementation's
// parse.c, enriched by the structure of
// _examples/seanrobmerriam-webos/pkg/parser/parser.go.
package parser

import (
	"errors"

	"github.com/sirupsen/logrus"

	"eggshell/internal/ast"
	"eggshell/internal/reader"
	"eggshell/internal/strbuf"
	"eggshell/internal/token"
)

// ErrParse is returned (and its text printed to the shell's stderr by the
// caller) whenever the token stream does not form a complete, valid
// command, mirroring the original's single catch-all "Error in parsing
// tokens." diagnostic.
var ErrParse = errors.New("Error in parsing tokens.")

// redirection is the parser's transient representation of a single
// in-progress redirection, grounded on the `redirection` struct in parse.c.
type redirection struct {
	kind token.Kind
	data string
}

// parser walks a fixed token slice with a cursor, re-entering here (the
// input's line reader) to collect here-document bodies as they're
// encountered.
type parser struct {
	toks []token.Token
	pos  int
	here *reader.LineReader
	log  *logrus.Entry
}

// Parse consumes the entire token slice and returns the resulting command
// tree. here is used to pull additional lines for any here-document bodies
// encountered; it may be nil if the input is known to contain none (e.g. a
// test parsing a single already-complete line with no heredocs).
// An empty token slice (a blank or comment-only line) returns (nil, nil).
func Parse(tokens []token.Token, here *reader.LineReader) (*ast.Node, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	p := &parser{toks: tokens, here: here, log: logrus.WithField("component", "parser")}
	node, ok := p.parseCommand()
	if !ok || node == nil || p.pos != len(p.toks) || !ast.Validate(node) {
		p.log.Debug("rejecting token stream")
		return nil, ErrParse
	}
	return node, nil
}

func (p *parser) peek() (token.Token, bool) {
	if p.pos >= len(p.toks) {
		return token.Token{}, false
	}
	return p.toks[p.pos], true
}

func (p *parser) advance() {
	p.pos++
}

// checkRedirection consumes a run of redirection operators at the current
// position, populating *redIn / *redOut. A second redirection of the same
// direction is a parse error, mirroring checkRedirection in parse.c.
func (p *parser) checkRedirection(redIn, redOut **redirection) bool {
	for {
		tok, ok := p.peek()
		if !ok || !(tok.Kind.IsInRedirect() || tok.Kind.IsOutRedirect()) {
			return true
		}

		if tok.Kind.IsInRedirect() {
			if *redIn != nil {
				return false
			}
			kind := tok.Kind
			p.advance()

			file, ok := p.peek()
			if !ok || file.Kind != token.SIMPLE {
				return false
			}

			if kind == token.RedIn {
				p.advance()
				*redIn = &redirection{kind: kind, data: file.Text}
				continue
			}

			p.advance()
			body, err := p.readHereDocument(file.Text)
			if err != nil {
				return false
			}
			*redIn = &redirection{kind: kind, data: body}
			continue
		}

		if *redOut != nil {
			return false
		}
		kind := tok.Kind
		p.advance()

		file, ok := p.peek()
		if !ok || file.Kind != token.SIMPLE {
			return false
		}
		p.advance()
		*redOut = &redirection{kind: kind, data: file.Text}
	}
}

// readHereDocument collects lines from p.here until a line exactly equal to
// terminator is read, applying expandHereDocLine to each body line.
// End-of-input before the terminator line ends collection silently,
// matching readHereDocument in parse.c.
func (p *parser) readHereDocument(terminator string) (string, error) {
	if p.here == nil {
		return "", errors.New("here-document encountered with no line source")
	}

	end := terminator + "\n"
	body := strbuf.New()

	for {
		line, err := p.here.ReadLine()
		if err != nil {
			break
		}
		if line == end {
			break
		}
		body.AppendString(expandHereDocLine(line))
	}

	return body.String(), nil
}

func applyRedirection(n *ast.Node, redIn, redOut *redirection) {
	if redIn != nil {
		n.SetFromRedirect(redIn.kind, redIn.data)
	}
	if redOut != nil {
		n.SetToRedirect(redOut.kind, redOut.data)
	}
}

// parseSimple parses a <simple>: one or more SIMPLE tokens (the argv),
// interleaved with redirections that apply to the enclosing stage.
func (p *parser) parseSimple(redIn, redOut **redirection) (*ast.Node, bool) {
	tok, ok := p.peek()
	if !ok || tok.Kind != token.SIMPLE {
		return nil, false
	}

	node := ast.New(ast.Simple)
	for {
		tok, ok := p.peek()
		if !ok {
			break
		}
		if tok.Kind == token.SIMPLE {
			node.Argv = append(node.Argv, tok.Text)
			p.advance()
			continue
		}
		if tok.Kind.IsRedirect() {
			if !p.checkRedirection(redIn, redOut) {
				return nil, false
			}
			continue
		}
		break
	}

	return node, true
}

// parseStage parses a <stage>: leading/trailing redirections around either
// a parenthesized subshell or a <simple>.
func (p *parser) parseStage() (*ast.Node, bool) {
	var redIn, redOut *redirection
	if !p.checkRedirection(&redIn, &redOut) {
		return nil, false
	}

	if tok, ok := p.peek(); ok && tok.Kind == token.ParLeft {
		p.advance()
		inner, ok := p.parseCommand()
		if !ok || inner == nil {
			return nil, false
		}
		closeTok, ok := p.peek()
		if !ok || closeTok.Kind != token.ParRight {
			return nil, false
		}
		p.advance()

		if !p.checkRedirection(&redIn, &redOut) {
			return nil, false
		}

		node := ast.New(ast.Subcmd)
		node.Left = inner
		applyRedirection(node, redIn, redOut)
		return node, true
	}

	node, ok := p.parseSimple(&redIn, &redOut)
	if !ok {
		return nil, false
	}
	applyRedirection(node, redIn, redOut)
	return node, true
}

// parsePipeline parses a <pipeline>: a right-associative chain of <stage>s
// joined by '|' or '|&'.
func (p *parser) parsePipeline() (*ast.Node, bool) {
	stage, ok := p.parseStage()
	if !ok {
		return nil, false
	}

	tok, ok := p.peek()
	if !ok || !tok.Kind.IsPipe() {
		return stage, true
	}

	kind := ast.Pipe
	if tok.Kind == token.PipeErr {
		kind = ast.PipeErr
	}
	p.advance()

	right, ok := p.parsePipeline()
	if !ok || right == nil {
		return nil, false
	}

	node := ast.New(kind)
	node.Left = stage
	node.Right = right
	return node, true
}

// parseAndOr parses an <and-or>: a right-associative chain of <pipeline>s
// joined by '&&' or '||'.
func (p *parser) parseAndOr() (*ast.Node, bool) {
	pipeline, ok := p.parsePipeline()
	if !ok {
		return nil, false
	}

	tok, ok := p.peek()
	if !ok || (tok.Kind != token.SepAnd && tok.Kind != token.SepOr) {
		return pipeline, true
	}

	kind := ast.SepAnd
	if tok.Kind == token.SepOr {
		kind = ast.SepOr
	}
	p.advance()

	right, ok := p.parseAndOr()
	if !ok || right == nil {
		return nil, false
	}

	node := ast.New(kind)
	node.Left = pipeline
	node.Right = right
	return node, true
}

// parseCommand parses a <command>: a right-associative chain of <and-or>s
// joined by ';' or '&'. A trailing separator with nothing after it (or
// followed directly by a closing paren) is accepted.
func (p *parser) parseCommand() (*ast.Node, bool) {
	andor, ok := p.parseAndOr()
	if !ok {
		return nil, false
	}

	tok, ok := p.peek()
	if !ok || (tok.Kind != token.SepEnd && tok.Kind != token.SepBackground) {
		return andor, true
	}

	kind := ast.SepEnd
	if tok.Kind == token.SepBackground {
		kind = ast.SepBackground
	}
	p.advance()

	node := ast.New(kind)
	node.Left = andor

	if next, ok := p.peek(); ok && next.Kind != token.ParRight {
		right, ok := p.parseCommand()
		if !ok || right == nil {
			return nil, false
		}
		node.Right = right
	}

	return node, true
}
