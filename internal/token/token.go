// Package token defines the lexical token kinds produced by the lexer and
// consumed by the parser, grounded on the original implementation's token
// type enum in tokenize.c/parse.h.
package token

// Kind identifies the lexical category of a Token.
type Kind int

const (
	// SIMPLE is a word: a program name, argument, filename, or here-doc
	// terminator.
	SIMPLE Kind = iota
	RedIn
	RedHere
	RedOut
	RedOutClobber
	RedOutAppend
	RedOutAppendClobber
	RedErr
	RedErrClobber
	RedErrAppend
	RedErrAppendClobber
	SepEnd
	SepAnd
	SepOr
	SepBackground
	Pipe
	PipeErr
	ParLeft
	ParRight
)

var names = map[Kind]string{
	SIMPLE:               "SIMPLE",
	RedIn:                "RED_IN",
	RedHere:              "RED_HERE",
	RedOut:               "RED_OUT",
	RedOutClobber:        "RED_OUT_C",
	RedOutAppend:         "RED_OUT_APP",
	RedOutAppendClobber:  "RED_OUT_APP_C",
	RedErr:               "RED_ERR",
	RedErrClobber:        "RED_ERR_C",
	RedErrAppend:         "RED_ERR_APP",
	RedErrAppendClobber:  "RED_ERR_APP_C",
	SepEnd:               "SEP_END",
	SepAnd:               "SEP_AND",
	SepOr:                "SEP_OR",
	SepBackground:        "SEP_BG",
	Pipe:                 "PIPE",
	PipeErr:              "PIPE_ERR",
	ParLeft:              "PAR_LEFT",
	ParRight:             "PAR_RIGHT",
}

// String implements fmt.Stringer for debug output (eggshell-dump, logrus
// fields).
func (k Kind) String() string {
	if name, ok := names[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsInRedirect reports whether k is an input-redirection operator.
func (k Kind) IsInRedirect() bool {
	return k == RedIn || k == RedHere
}

// IsOutRedirect reports whether k is an output/error-redirection operator.
func (k Kind) IsOutRedirect() bool {
	switch k {
	case RedOut, RedOutClobber, RedOutAppend, RedOutAppendClobber,
		RedErr, RedErrClobber, RedErrAppend, RedErrAppendClobber:
		return true
	default:
		return false
	}
}

// IsRedirect reports whether k is any redirection operator.
func (k Kind) IsRedirect() bool {
	return k.IsInRedirect() || k.IsOutRedirect()
}

// IsPipe reports whether k is a pipe operator (PIPE or PIPE_ERR).
func (k Kind) IsPipe() bool {
	return k == Pipe || k == PipeErr
}

// IsAppend reports whether k is one of the ">>" append output kinds.
func (k Kind) IsAppend() bool {
	switch k {
	case RedOutAppend, RedOutAppendClobber, RedErrAppend, RedErrAppendClobber:
		return true
	default:
		return false
	}
}

// IsClobber reports whether k is one of the "!"-suffixed clobber-override
// output kinds.
func (k Kind) IsClobber() bool {
	switch k {
	case RedOutClobber, RedOutAppendClobber, RedErrClobber, RedErrAppendClobber:
		return true
	default:
		return false
	}
}

// IsErr reports whether k duplicates its target onto stderr as well as
// stdout.
func (k Kind) IsErr() bool {
	switch k {
	case RedErr, RedErrClobber, RedErrAppend, RedErrAppendClobber:
		return true
	default:
		return false
	}
}

// Token is a single lexical unit: a kind plus its literal text (for SIMPLE,
// the word's already-unescaped text; for operators, the operator's own
// spelling).
type Token struct {
	Kind Kind
	Text string
}
