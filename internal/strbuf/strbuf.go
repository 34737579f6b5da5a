// Package strbuf provides the growable byte buffer and LIFO string stack
// that back here-document assembly and the pushd/popd directory stack.
package strbuf

// Buffer is a growable byte accumulator, grounded on the original
// implementation's doubling-growth strBuffer.
type Buffer struct {
	b []byte
}

// New returns an empty Buffer.
func New() *Buffer {
	return &Buffer{b: make([]byte, 0, 16)}
}

// AppendByte appends a single byte to the buffer.
func (buf *Buffer) AppendByte(c byte) {
	buf.b = append(buf.b, c)
}

// AppendString appends s to the buffer.
func (buf *Buffer) AppendString(s string) {
	buf.b = append(buf.b, s...)
}

// String returns the buffer's contents.
func (buf *Buffer) String() string {
	return string(buf.b)
}

// Len returns the number of bytes currently in the buffer.
func (buf *Buffer) Len() int {
	return len(buf.b)
}
