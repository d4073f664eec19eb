// SPDX-License-Identifier: Apache-2.0

package slab

import (
	"errors"
	"fmt"
	"io"
	"unsafe"
)

const minRead = 512

// Buffer is a bytes.Buffer-like struct whose storage is a single block of an
// Allocator. It implements io.Reader, io.Writer, io.ReaderFrom and
// io.WriterTo. Growing moves the contents into a larger block and frees the
// old one, so a Buffer can never hold more than MaxRequest bytes.
// Call Release to give the block back.
type Buffer struct {
	alloc Allocator
	ptr   unsafe.Pointer // block backing buf, nil if buf is Go memory
	buf   []byte         // unread data is buf[off:]
	off   int
}

// NewBuffer creates a new Buffer backed by the given allocator.
// If alloc is nil, it will fall back to standard Go allocation and has no
// size limit.
func NewBuffer(alloc Allocator) *Buffer {
	return &Buffer{alloc: alloc}
}

// grow makes room for n more bytes.
func (b *Buffer) grow(n int) error {
	if len(b.buf)+n <= cap(b.buf) {
		return nil
	}
	if b.off > 0 {
		m := copy(b.buf, b.buf[b.off:])
		b.buf = b.buf[:m]
		b.off = 0
		if len(b.buf)+n <= cap(b.buf) {
			return nil
		}
	}
	newLen := len(b.buf) + n
	if b.alloc != nil && newLen > MaxRequest {
		return fmt.Errorf("%w: buffer of %d bytes", ErrOversizeRequest, newLen)
	}
	nb, ptr, err := AllocateBytes(b.alloc, growCap(cap(b.buf), newLen))
	if err != nil {
		return err
	}
	copy(nb, b.buf)
	FreeBytes(b.alloc, b.ptr)
	b.buf, b.ptr = nb[:len(b.buf)], ptr
	return nil
}

// Write implements io.Writer interface.
// It writes len(p) bytes from p to the buffer.
func (b *Buffer) Write(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := b.grow(len(p)); err != nil {
		return 0, err
	}
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// WriteByte writes a single byte to the buffer.
func (b *Buffer) WriteByte(c byte) error {
	if err := b.grow(1); err != nil {
		return err
	}
	b.buf = append(b.buf, c)
	return nil
}

// WriteString writes a string to the buffer.
func (b *Buffer) WriteString(s string) (n int, err error) {
	if len(s) == 0 {
		return 0, nil
	}
	if err := b.grow(len(s)); err != nil {
		return 0, err
	}
	b.buf = append(b.buf, s...)
	return len(s), nil
}

// WriteTo implements io.WriterTo interface.
func (b *Buffer) WriteTo(w io.Writer) (n int64, err error) {
	if b.Len() == 0 {
		return 0, nil
	}
	unread := b.buf[b.off:]
	m, err := w.Write(unread)
	b.off += m
	n = int64(m)
	if err == nil && m < len(unread) {
		err = io.ErrShortWrite
	}
	if b.Len() == 0 {
		b.Reset()
	}
	return n, err
}

// Read reads up to len(p) bytes from the buffer into p.
// It returns io.EOF only when the buffer has no unread data.
func (b *Buffer) Read(p []byte) (n int, err error) {
	if b.Len() == 0 {
		b.Reset()
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n = copy(p, b.buf[b.off:])
	b.off += n
	return n, nil
}

// ReadByte reads and returns the next byte from the buffer.
// If no byte is available, it returns io.EOF.
func (b *Buffer) ReadByte() (byte, error) {
	if b.Len() == 0 {
		b.Reset()
		return 0, io.EOF
	}
	c := b.buf[b.off]
	b.off++
	return c, nil
}

// Bytes returns a slice of length b.Len() holding the unread portion of the buffer.
// The slice is valid for use only until the next buffer modification.
func (b *Buffer) Bytes() []byte {
	if b.Len() == 0 {
		return []byte{}
	}
	return b.buf[b.off:]
}

// String returns the contents of the unread portion of the buffer as a string.
func (b *Buffer) String() string {
	return string(b.buf[b.off:])
}

// Len returns the number of bytes of the unread portion of the buffer.
func (b *Buffer) Len() int {
	return len(b.buf) - b.off
}

// Cap returns the capacity of the buffer's underlying storage.
func (b *Buffer) Cap() int {
	return cap(b.buf)
}

// Reset resets the buffer to be empty but keeps its storage.
func (b *Buffer) Reset() {
	b.buf = b.buf[:0]
	b.off = 0
}

// Release empties the buffer and returns its storage to the allocator.
func (b *Buffer) Release() {
	FreeBytes(b.alloc, b.ptr)
	b.buf, b.ptr, b.off = nil, nil, 0
}

// Truncate discards all but the first n unread bytes from the buffer.
// It panics if n is negative or greater than the length of the buffer.
func (b *Buffer) Truncate(n int) {
	if n < 0 || n > b.Len() {
		panic("slab: truncation out of range")
	}
	b.buf = b.buf[:b.off+n]
}

// Next returns a slice containing the next n bytes from the buffer,
// advancing the buffer as if the bytes had been returned by Read.
// The slice is valid for use only until the next buffer modification.
func (b *Buffer) Next(n int) []byte {
	if n <= 0 {
		return []byte{}
	}
	if n > b.Len() {
		n = b.Len()
	}
	data := b.buf[b.off : b.off+n]
	b.off += n
	return data
}

// ReadFrom implements io.ReaderFrom interface.
// It reads data from r until EOF or error, writing it to the buffer.
// Reading stops with ErrOversizeRequest once the buffer is at its limit.
func (b *Buffer) ReadFrom(r io.Reader) (n int64, err error) {
	for {
		if len(b.buf) == cap(b.buf) {
			want := minRead
			if b.alloc != nil {
				if room := MaxRequest - b.Len(); room < want {
					want = max(room, 1)
				}
			}
			if err := b.grow(want); err != nil {
				return n, err
			}
		}
		m, er := r.Read(b.buf[len(b.buf):cap(b.buf)])
		if m < 0 {
			panic("slab: reader returned negative count from Read")
		}
		b.buf = b.buf[:len(b.buf)+m]
		n += int64(m)
		if errors.Is(er, io.EOF) {
			return n, nil
		}
		if er != nil {
			return n, er
		}
	}
}
