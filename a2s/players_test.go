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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePlayersNormal(t *testing.T) {
	payload := []byte{0x44, 0x02}
	payload = append(payload, 0x00)
	payload = append(payload, []byte("Alice\x00")...)
	payload = append(payload, 0x0A, 0x00, 0x00, 0x00)
	payload = append(payload, 0x00, 0x00, 0x80, 0x3F) // 1.0 LE
	payload = append(payload, 0x01)
	payload = append(payload, []byte("Bob\x00")...)
	payload = append(payload, 0x14, 0x00, 0x00, 0x00)
	payload = append(payload, 0x00, 0x00, 0x00, 0x40) // 2.0 LE

	roster, err := decodePlayers("1.2.3.4:27015", payload, "Counter-Strike: Source")
	require.NoError(t, err)
	require.Len(t, roster.Players, 2)

	assert.EqualValues(t, 0, roster.Players[0].Index)
	assert.Equal(t, "Alice", roster.Players[0].Name)
	assert.EqualValues(t, 10, roster.Players[0].Score)
	assert.InDelta(t, 1.0, roster.Players[0].Duration, 1e-6)

	assert.EqualValues(t, 1, roster.Players[1].Index)
	assert.Equal(t, "Bob", roster.Players[1].Name)
	assert.EqualValues(t, 20, roster.Players[1].Score)
	assert.InDelta(t, 2.0, roster.Players[1].Duration, 1e-6)
}

func TestDecodePlayersCSGODegenerate(t *testing.T) {
	payload := []byte{0x44, 0x20, 0x00, 0x00, 0x80, 0x3F}
	roster, err := decodePlayers("1.2.3.4:27015", payload, gameCSGO)
	require.NoError(t, err)
	assert.True(t, roster.Degenerate)
	assert.EqualValues(t, 32, roster.MaxPlayers)
	assert.InDelta(t, 1.0, roster.Uptime, 1e-6)
}

func TestDecodePlayersRejectsWrongCommandByte(t *testing.T) {
	_, err := decodePlayers("1.2.3.4:27015", []byte{0x45, 0x00}, "")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindProtocolHeaderMismatch))
}

func TestDecodeChallenge(t *testing.T) {
	resp := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x41, 0x01, 0x02, 0x03, 0x04}
	challenge, err := decodeChallenge("1.2.3.4:27015", resp)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, challenge)
}

func TestDecodeShipPlayersSizeMismatchIsTruncated(t *testing.T) {
	body := []byte{0x00}
	body = append(body, []byte("P\x00")...)
	body = append(body, 0x00, 0x00, 0x00, 0x00)
	body = append(body, 0x00, 0x00, 0x00, 0x00)
	// trailing block short by a few bytes
	body = append(body, 0x01, 0x02, 0x03)

	_, err := decodeShipPlayers("1.2.3.4:27015", body, 1)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindTruncated))
}
