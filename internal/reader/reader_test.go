package reader

import (
	"io"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestReadLine(t *testing.T) {
	lr := New(strings.NewReader("one\ntwo\nthree"))

	line, err := lr.ReadLine()
	assert.NilError(t, err)
	assert.Check(t, is.Equal(line, "one\n"))

	line, err = lr.ReadLine()
	assert.NilError(t, err)
	assert.Check(t, is.Equal(line, "two\n"))

	line, err = lr.ReadLine()
	assert.NilError(t, err)
	assert.Check(t, is.Equal(line, "three"))

	_, err = lr.ReadLine()
	assert.Check(t, is.Equal(err, io.EOF))
}

func TestReadLineImmediateEOF(t *testing.T) {
	lr := New(strings.NewReader(""))
	_, err := lr.ReadLine()
	assert.Check(t, is.Equal(err, io.EOF))
}
