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

// framedInfoFixture builds the framed A2S_INFO payload (command byte
// onward, i.e. what frame() would return) from spec scenario 1, with
// an optional EDF tail appended.
func framedInfoFixture(edfTail []byte) []byte {
	payload := []byte{0x49, 0x11}
	payload = append(payload, []byte("Test\x00")...)
	payload = append(payload, []byte("de_dust2\x00")...)
	payload = append(payload, []byte("cstrike\x00")...)
	payload = append(payload, []byte("Counter-Strike: Source\x00")...)
	payload = append(payload, 0xF0, 0x00) // app_id = 240 LE
	payload = append(payload, 0x05, 0x10, 0x00, 0x6C, 0x77, 0x6C, 0x01)
	payload = append(payload, []byte("v1.0\x00")...)
	payload = append(payload, edfTail...)
	return payload
}

func TestDecodeServerInfoNoEDF(t *testing.T) {
	payload := framedInfoFixture([]byte{0x00})
	info, err := decodeServerInfo("1.2.3.4:27015", payload)
	require.NoError(t, err)

	assert.EqualValues(t, 0x11, info.Protocol)
	assert.Equal(t, "Test", info.Name)
	assert.Equal(t, "de_dust2", info.Map)
	assert.Equal(t, "cstrike", info.Folder)
	assert.Equal(t, "Counter-Strike: Source", info.Game)
	assert.EqualValues(t, 240, info.AppID)
	assert.EqualValues(t, 5, info.Players)
	assert.EqualValues(t, 16, info.MaxPlayers)
	assert.EqualValues(t, 0, info.Bots)
	assert.EqualValues(t, 108, info.ServerType)
	assert.EqualValues(t, 119, info.Environment)
	assert.EqualValues(t, 'l', info.Visibility)
	assert.EqualValues(t, 1, info.VAC)
	assert.Equal(t, "v1.0", info.Version)
	assert.EqualValues(t, 0x00, info.EDF)
	assert.Nil(t, info.Port)
}

func TestDecodeServerInfoPortEDF(t *testing.T) {
	payload := framedInfoFixture([]byte{0x80, 0x1B, 0x77})
	info, err := decodeServerInfo("1.2.3.4:27015", payload)
	require.NoError(t, err)

	assert.EqualValues(t, 0x80, info.EDF)
	require.NotNil(t, info.Port)
	assert.EqualValues(t, 0x771B, *info.Port)
}

func TestDecodeServerInfoRejectsWrongCommandByte(t *testing.T) {
	payload := framedInfoFixture([]byte{0x00})
	payload[0] = 0x44
	_, err := decodeServerInfo("1.2.3.4:27015", payload)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindProtocolHeaderMismatch))
}

func TestDecodeServerInfoTruncated(t *testing.T) {
	payload := framedInfoFixture(nil)
	_, err := decodeServerInfo("1.2.3.4:27015", payload[:5])
	require.Error(t, err)
}

func TestDecodeServerInfoGameIDOverwritesAppID(t *testing.T) {
	// edf=0x01 (game_id only), game_id LE u64 whose low 24 bits are
	// 0x00F01234.
	payload := framedInfoFixture([]byte{0x01, 0x34, 0x12, 0xF0, 0x00, 0x00, 0x00, 0x00, 0x00})
	info, err := decodeServerInfo("1.2.3.4:27015", payload)
	require.NoError(t, err)
	assert.EqualValues(t, 0x00F01234, info.AppID)
	require.NotNil(t, info.GameID)
}

func TestDecodeServerInfoTheShipExtraFields(t *testing.T) {
	payload := []byte{0x49, 0x11}
	payload = append(payload, []byte("Test\x00")...)
	payload = append(payload, []byte("map\x00")...)
	payload = append(payload, []byte("folder\x00")...)
	payload = append(payload, []byte(theShip+"\x00")...)
	payload = append(payload, 0x01, 0x00) // app_id
	payload = append(payload, 0x01, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00)
	payload = append(payload, 0x02, 0x05, 0x0A) // mode, witnesses, duration
	payload = append(payload, []byte("v1\x00")...)
	payload = append(payload, 0x00)

	info, err := decodeServerInfo("1.2.3.4:27015", payload)
	require.NoError(t, err)
	require.NotNil(t, info.Mode)
	assert.EqualValues(t, 2, *info.Mode)
	require.NotNil(t, info.Witnesses)
	assert.EqualValues(t, 5, *info.Witnesses)
	require.NotNil(t, info.Duration)
	assert.EqualValues(t, 10, *info.Duration)
}
