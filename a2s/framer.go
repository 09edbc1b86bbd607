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

package a2s

import (
	"bytes"
	"compress/bzip2"
	"context"
	"io"

	"github.com/valyala/bytebufferpool"

	"github.com/steamnetd/steamnetd/cursor"
)

const (
	headerSingle int32 = -1
	headerSplit  int32 = -2

	// compressedPreambleSkip is the offset into the concatenated,
	// compressed payload at which the bzip2 stream actually starts.
	// Reference A2S documentation places it at byte 8; observed
	// server behaviour pads the preamble to byte 64. This
	// implementation follows the latter per spec §4.3/§9 — do not
	// "fix" this to 8 without verifying against a live server.
	compressedPreambleSkip = 64
)

// goldSrcSizeFieldAbsent reports whether info belongs to one of the
// old-style servers whose split fragments omit the 16-bit
// fragment_size field, making the per-fragment header 10 bytes
// instead of 12 (spec §4.3).
func goldSrcSizeFieldAbsent(info *ServerInfo) bool {
	if info == nil {
		return false
	}
	if info.Protocol != 7 {
		return false
	}
	switch info.AppID {
	case 215, 17550, 17700, 240:
		return true
	}
	return false
}

// frame classifies the first datagram of a response and, if it is a
// split response, pulls the remaining fragments from t and reassembles
// them in index order, decompressing if signalled. infoHint may be nil
// for the very first query of a session (Info itself never splits with
// the old 10-byte layout ambiguity in practice, but the fragment-size
// decision still needs a hint once available).
func frame(ctx context.Context, t *Transport, first []byte, infoHint *ServerInfo) ([]byte, error) {
	if len(first) < 4 {
		return nil, newErr(t.endpoint, KindInvalidHeader, nil)
	}
	header, err := cursor.New(first[:4]).ReadInt(32, false)
	if err != nil {
		return nil, newErr(t.endpoint, KindInvalidHeader, err)
	}

	switch int32(header) {
	case headerSingle:
		return first[4:], nil
	case headerSplit:
		return reassembleSplit(ctx, t, first, infoHint)
	default:
		return nil, newErr(t.endpoint, KindInvalidHeader, nil)
	}
}

func reassembleSplit(ctx context.Context, t *Transport, first []byte, infoHint *ServerInfo) ([]byte, error) {
	if len(first) < 10 {
		return nil, newErr(t.endpoint, KindBadFragment, nil)
	}
	packetID, err := cursor.New(first[4:8]).ReadInt(32, false)
	if err != nil {
		return nil, newErr(t.endpoint, KindBadFragment, err)
	}
	total := int(first[8])
	index := int(first[9])
	if total <= 0 || index >= total {
		return nil, newErr(t.endpoint, KindBadFragment, nil)
	}

	fragHeaderLen := 12
	if goldSrcSizeFieldAbsent(infoHint) {
		fragHeaderLen = 10
	}
	if len(first) < fragHeaderLen {
		return nil, newErr(t.endpoint, KindBadFragment, nil)
	}

	slots := make([][]byte, total)
	slots[index] = first[fragHeaderLen:]

	for i := 0; i < total-1; i++ {
		raw, err := t.Recv(ctx)
		if err != nil {
			return nil, err
		}
		if len(raw) < 10 {
			return nil, newErr(t.endpoint, KindBadFragment, nil)
		}
		h, err := cursor.New(raw[:4]).ReadInt(32, false)
		if err != nil || int32(h) != headerSplit {
			return nil, newErr(t.endpoint, KindBadFragment, err)
		}
		pid, err := cursor.New(raw[4:8]).ReadInt(32, false)
		if err != nil || int32(pid) != int32(packetID) {
			return nil, newErr(t.endpoint, KindBadFragment, err)
		}
		idx := int(raw[9])
		if idx >= total || slots[idx] != nil {
			return nil, newErr(t.endpoint, KindBadFragment, nil)
		}
		if len(raw) < fragHeaderLen {
			return nil, newErr(t.endpoint, KindBadFragment, nil)
		}
		slots[idx] = raw[fragHeaderLen:]
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	for _, s := range slots {
		if s == nil {
			return nil, newErr(t.endpoint, KindBadFragment, nil)
		}
		buf.Write(s)
	}
	payload := append([]byte(nil), buf.Bytes()...)

	if packetID < 0 {
		return decompress(t.endpoint, payload)
	}
	return payload, nil
}

// decompress implements spec §4.3's compression framing: the first 4
// bytes of the concatenated payload are the expected decompressed
// size, the next 4 a CRC32 that is present but intentionally ignored,
// and the bzip2 stream itself begins at compressedPreambleSkip.
func decompress(endpoint string, payload []byte) ([]byte, error) {
	if len(payload) < 8 {
		return nil, newErr(endpoint, KindTruncated, nil)
	}
	wantSize, err := cursor.New(payload[:4]).ReadInt(32, false)
	if err != nil {
		return nil, newErr(endpoint, KindTruncated, err)
	}
	if len(payload) < compressedPreambleSkip {
		return nil, newErr(endpoint, KindTruncated, nil)
	}

	r := bzip2.NewReader(bytes.NewReader(payload[compressedPreambleSkip:]))
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, newErr(endpoint, KindCompressionMismatch, err)
	}
	if int64(len(out)) != wantSize {
		return nil, newErr(endpoint, KindCompressionMismatch, nil)
	}
	return out, nil
}
