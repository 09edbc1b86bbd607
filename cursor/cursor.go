// Copyright 2025 The steamnetd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cursor implements a single-pass, peek-one-ahead reader over
// an immutable byte slice, matching the read-until-NUL idiom the A2S
// wire formats use for variable-length strings.
package cursor

import (
	"math"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Sentinel errors returned by Cursor reads. Wrap with errors.Wrap at
// call sites that need to attach an endpoint or operation.
var (
	ErrTruncated       = errors.New("cursor: read past end of buffer")
	ErrStringTruncated = errors.New("cursor: string ran off the end of buffer")
	ErrEncoding        = errors.New("cursor: invalid utf-8 in string")
	ErrBadBitWidth     = errors.New("cursor: bit width is not a multiple of 8")
)

// Cursor is a one-byte-lookahead reader over buf. It never returns
// data past the end of buf; a read that would cross the boundary
// fails with ErrTruncated rather than returning a zero value.
type Cursor struct {
	buf  []byte
	pos  int
	peek []byte // nil at EOF, else the single byte currently looked-ahead
}

// New wraps buf in a Cursor positioned at its first byte.
func New(buf []byte) *Cursor {
	c := &Cursor{buf: buf}
	c.fill()
	return c
}

func (c *Cursor) fill() {
	if c.pos < len(c.buf) {
		b := c.buf[c.pos]
		c.peek = []byte{b}
		return
	}
	c.peek = nil
}

// Peek returns the byte that the next Advance would consume, and
// whether one is available.
func (c *Cursor) Peek() (byte, bool) {
	if c.peek == nil {
		return 0, false
	}
	return c.peek[0], true
}

// Len returns the number of unread bytes remaining.
func (c *Cursor) Len() int {
	return len(c.buf) - c.pos
}

// Advance consumes and returns the current byte, refilling the
// look-ahead. Returns false at EOF.
func (c *Cursor) Advance() (byte, bool) {
	if c.peek == nil {
		return 0, false
	}
	b := c.peek[0]
	c.pos++
	c.fill()
	return b, true
}

// ReadUint reads bits/8 bytes (bits must be a multiple of 8, one of
// 8/16/32/64) and interprets them as an unsigned integer in the given
// byte order.
func (c *Cursor) ReadUint(bits int, bigEndian bool) (uint64, error) {
	raw, err := c.readBytes(bits)
	if err != nil {
		return 0, err
	}
	var v uint64
	if bigEndian {
		for _, b := range raw {
			v = v<<8 | uint64(b)
		}
	} else {
		for i := len(raw) - 1; i >= 0; i-- {
			v = v<<8 | uint64(raw[i])
		}
	}
	return v, nil
}

// ReadInt reads bits/8 bytes and interprets them as a two's-complement
// signed integer in the given byte order.
func (c *Cursor) ReadInt(bits int, bigEndian bool) (int64, error) {
	u, err := c.ReadUint(bits, bigEndian)
	if err != nil {
		return 0, err
	}
	if bits >= 64 {
		return int64(u), nil
	}
	signBit := uint64(1) << (bits - 1)
	if u&signBit != 0 {
		return int64(u) - int64(signBit<<1), nil
	}
	return int64(u), nil
}

func (c *Cursor) readBytes(bits int) ([]byte, error) {
	if bits%8 != 0 {
		return nil, ErrBadBitWidth
	}
	n := bits / 8
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		b, ok := c.Advance()
		if !ok {
			return nil, ErrTruncated
		}
		out[i] = b
	}
	return out, nil
}

// ReadFloat32LE reads 4 bytes and interprets them as an IEEE-754
// little-endian float.
func (c *Cursor) ReadFloat32LE() (float32, error) {
	u, err := c.ReadUint(32, false)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(uint32(u)), nil
}

// ReadCString consumes bytes until a 0x00 terminator, validates the
// prefix as UTF-8, and consumes the terminator. Fails with
// ErrStringTruncated if EOF is reached before a terminator, and with
// ErrEncoding if the prefix is not valid UTF-8.
func (c *Cursor) ReadCString() (string, error) {
	var buf []byte
	for {
		b, ok := c.Peek()
		if !ok {
			return "", ErrStringTruncated
		}
		if b == 0x00 {
			c.Advance()
			break
		}
		buf = append(buf, b)
		c.Advance()
	}
	if !utf8.Valid(buf) {
		return "", ErrEncoding
	}
	return string(buf), nil
}
