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

package cursor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadUintLE(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		bits int
		want uint64
	}{
		{"u8", []byte{0x7B}, 8, 0x7B},
		{"u16", []byte{0x1B, 0x77}, 16, 0x771B},
		{"u32", []byte{0x01, 0x00, 0x00, 0x00}, 32, 1},
		{"u64", []byte{1, 2, 3, 4, 5, 6, 7, 8}, 64, 0x0807060504030201},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.buf)
			got, err := c.ReadUint(tt.bits, false)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 0, c.Len())
		})
	}
}

func TestReadUintBigEndian(t *testing.T) {
	c := New([]byte{0x00, 0x1A})
	got, err := c.ReadUint(16, true)
	require.NoError(t, err)
	assert.Equal(t, uint64(26), got)
}

func TestReadIntSigned(t *testing.T) {
	c := New([]byte{0xFF, 0xFF, 0xFF, 0xFF})
	got, err := c.ReadInt(32, false)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), got)
}

func TestReadIntBadBitWidth(t *testing.T) {
	c := New([]byte{0x00})
	_, err := c.ReadInt(12, false)
	assert.ErrorIs(t, err, ErrBadBitWidth)
}

func TestReadPastEndIsTruncated(t *testing.T) {
	c := New([]byte{0x01})
	_, err := c.ReadUint(16, false)
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestReadFloat32LE(t *testing.T) {
	// 1.0f encoded little-endian
	c := New([]byte{0x00, 0x00, 0x80, 0x3F})
	got, err := c.ReadFloat32LE()
	require.NoError(t, err)
	assert.Equal(t, float32(1.0), got)
}

func TestReadCString(t *testing.T) {
	c := New([]byte("hello\x00world"))
	s, err := c.ReadCString()
	require.NoError(t, err)
	assert.Equal(t, "hello", s)
	assert.Equal(t, 5, c.Len())
}

func TestReadCStringTruncated(t *testing.T) {
	c := New([]byte("no-terminator"))
	_, err := c.ReadCString()
	assert.ErrorIs(t, err, ErrStringTruncated)
}

func TestReadCStringInvalidUTF8(t *testing.T) {
	c := New([]byte{0xFF, 0xFE, 0x00})
	_, err := c.ReadCString()
	assert.ErrorIs(t, err, ErrEncoding)
}

// TestNeverPastEnd is the P1 invariant: for any sequence of reads
// totalling <= len(buf), Advance never reports EOF early, and a read
// that would cross the boundary fails rather than returning junk.
func TestNeverPastEnd(t *testing.T) {
	buf := []byte{1, 2, 3, 4}
	c := New(buf)
	for i := 0; i < len(buf); i++ {
		b, ok := c.Advance()
		require.True(t, ok)
		assert.Equal(t, buf[i], b)
	}
	_, ok := c.Advance()
	assert.False(t, ok)

	c2 := New(buf)
	_, err := c2.ReadUint(40, false) // 5 bytes requested from a 4-byte buffer
	assert.ErrorIs(t, err, ErrTruncated)
}
