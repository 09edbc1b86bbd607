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

import "github.com/steamnetd/steamnetd/cursor"

const gameCSGO = "Counter-Strike: Global Offensive"

// PlayerRecord is one entry in a PlayerRoster. Deaths/Money are only
// populated for The Ship, parsed from its trailing per-player block.
type PlayerRecord struct {
	Index    uint8
	Name     string
	Score    int32
	Duration float32
	Deaths   *int32
	Money    *int32
}

// PlayerRoster is the decoded reply to an A2S_PLAYER query. For the
// degenerate CS:GO shape (a 6-byte payload: command byte, max players,
// uptime), Degenerate is true and only MaxPlayers/Uptime are populated.
type PlayerRoster struct {
	Count      uint8
	Players    []PlayerRecord
	Degenerate bool
	MaxPlayers uint8
	Uptime     float32
}

var playersChallengeRequest = []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x55, 0xFF, 0xFF, 0xFF, 0xFF}

func playersRequest(challenge []byte) []byte {
	req := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x55}
	return append(req, challenge...)
}

func decodeChallenge(endpoint string, resp []byte) ([]byte, error) {
	if len(resp) != 9 || resp[4] != 0x41 {
		return nil, newErr(endpoint, KindProtocolHeaderMismatch, nil)
	}
	return resp[5:9], nil
}

// decodePlayers parses the framed A2S_PLAYER payload (byte 0 is the
// 0x44 command byte).
func decodePlayers(endpoint string, payload []byte, game string) (*PlayerRoster, error) {
	if len(payload) < 2 || payload[0] != 0x44 {
		return nil, newErr(endpoint, KindProtocolHeaderMismatch, nil)
	}

	if game == gameCSGO && len(payload) == 6 {
		c := cursor.New(payload[1:])
		maxPlayers, err := c.ReadUint(8, false)
		if err != nil {
			return nil, newErr(endpoint, KindTruncated, err)
		}
		uptime, err := c.ReadFloat32LE()
		if err != nil {
			return nil, newErr(endpoint, KindTruncated, err)
		}
		return &PlayerRoster{Degenerate: true, MaxPlayers: uint8(maxPlayers), Uptime: uptime}, nil
	}

	count := payload[1]
	body := payload[2:]

	if game == theShip {
		return decodeShipPlayers(endpoint, body, count)
	}
	return decodeStandardPlayers(endpoint, body, count)
}

// decodeStandardPlayers reads records until the cursor is empty, to
// tolerate the "joining player with blank name" anomaly where the
// live record count can exceed the advertised count (spec I2).
func decodeStandardPlayers(endpoint string, body []byte, count uint8) (*PlayerRoster, error) {
	c := cursor.New(body)
	var players []PlayerRecord
	for c.Len() > 0 {
		rec, err := decodeOnePlayer(endpoint, c)
		if err != nil {
			return nil, err
		}
		players = append(players, rec)
	}
	return &PlayerRoster{Count: count, Players: players}, nil
}

// decodeShipPlayers reads exactly count head records, then a trailing
// fixed block of count*8 bytes (two LE int32 per player: deaths,
// money). A size mismatch is Truncated, never a guess (spec §9).
func decodeShipPlayers(endpoint string, body []byte, count uint8) (*PlayerRoster, error) {
	trailing := int(count) * 8
	if len(body) < trailing {
		return nil, newErr(endpoint, KindTruncated, nil)
	}
	head := body[:len(body)-trailing]
	tail := body[len(body)-trailing:]

	c := cursor.New(head)
	players := make([]PlayerRecord, 0, count)
	for i := 0; i < int(count); i++ {
		rec, err := decodeOnePlayer(endpoint, c)
		if err != nil {
			return nil, err
		}
		players = append(players, rec)
	}
	if c.Len() != 0 {
		return nil, newErr(endpoint, KindTruncated, nil)
	}

	tc := cursor.New(tail)
	for i := range players {
		deaths, err := tc.ReadInt(32, false)
		if err != nil {
			return nil, newErr(endpoint, KindTruncated, err)
		}
		money, err := tc.ReadInt(32, false)
		if err != nil {
			return nil, newErr(endpoint, KindTruncated, err)
		}
		d, m := int32(deaths), int32(money)
		players[i].Deaths = &d
		players[i].Money = &m
	}

	return &PlayerRoster{Count: count, Players: players}, nil
}

func decodeOnePlayer(endpoint string, c *cursor.Cursor) (PlayerRecord, error) {
	idx, err := c.ReadUint(8, false)
	if err != nil {
		return PlayerRecord{}, newErr(endpoint, KindTruncated, err)
	}
	name, err := c.ReadCString()
	if err != nil {
		return PlayerRecord{}, newErr(endpoint, kindForStringErr(err), err)
	}
	score, err := c.ReadInt(32, false)
	if err != nil {
		return PlayerRecord{}, newErr(endpoint, KindTruncated, err)
	}
	duration, err := c.ReadFloat32LE()
	if err != nil {
		return PlayerRecord{}, newErr(endpoint, KindTruncated, err)
	}
	return PlayerRecord{Index: uint8(idx), Name: name, Score: int32(score), Duration: duration}, nil
}
