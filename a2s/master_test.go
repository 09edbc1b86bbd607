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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMasterRequest(t *testing.T) {
	req := buildMasterRequest(RegionEurope, "0.0.0.0:0", `\empty\1`)

	want := []byte{0x31, byte(RegionEurope)}
	want = append(want, []byte("0.0.0.0:0")...)
	want = append(want, 0x00)
	want = append(want, []byte(`\empty\1`)...)
	want = append(want, 0x00)

	assert.Equal(t, want, req)
}

func TestDecodeMasterPage(t *testing.T) {
	raw := append([]byte(nil), masterResponsePreamble...)
	raw = append(raw, 10, 0, 0, 1, 0x69, 0x87) // 10.0.0.1:27015
	raw = append(raw, 0, 0, 0, 0, 0, 0)        // sentinel

	page, err := decodeMasterPage("master", raw)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "10.0.0.1", page[0].IP())
	assert.EqualValues(t, 0x6987, page[0].Port())
	assert.Equal(t, sentinelEndpoint, page[1])
}

func TestDecodeMasterPageRejectsBadPreamble(t *testing.T) {
	raw := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x00, 0x00}
	_, err := decodeMasterPage("master", raw)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindInvalidHeader))
}

func TestDecodeMasterPageRejectsShortRecord(t *testing.T) {
	raw := append([]byte(nil), masterResponsePreamble...)
	raw = append(raw, 1, 2, 3) // incomplete trailing record
	_, err := decodeMasterPage("master", raw)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindTruncated))
}

func TestDecodeMasterPageEmpty(t *testing.T) {
	page, err := decodeMasterPage("master", masterResponsePreamble)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestMasterResponsePreambleMatchesSingleDatagramHeader(t *testing.T) {
	// the first 4 bytes double as the single-datagram framing header
	// (-1 LE), same as every other A2S response.
	assert.True(t, bytes.Equal(masterResponsePreamble[:4], []byte{0xFF, 0xFF, 0xFF, 0xFF}))
}
