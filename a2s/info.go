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

// EDF bits (spec §6.3).
const (
	edfPort      = 0x80
	edfSteamID   = 0x10
	edfSourceTV  = 0x40
	edfKeywords  = 0x20
	edfGameID    = 0x01
)

const theShip = "The Ship"

// ServerInfo is the decoded reply to an A2S_INFO query (spec §3,
// §4.4.1). Read-only once constructed; produced by Session.RefreshInfo.
type ServerInfo struct {
	Protocol    uint8
	Name        string
	Map         string
	Folder      string
	Game        string
	AppID       int64
	Players     uint8
	MaxPlayers  uint8
	Bots        uint8
	ServerType  uint8
	Environment uint8
	Visibility  uint8
	VAC         uint8
	Version     string
	EDF         uint8

	// The Ship pre-EDF fields, present only when Game == "The Ship".
	Mode      *uint8
	Witnesses *uint8
	Duration  *uint8

	// Optional EDF-gated fields.
	Port          *uint16
	SteamID       *uint64
	SourceTVPort  *uint16
	SourceTVName  *string
	Keywords      *string
	GameID        *uint64
}

// infoRequest is the literal 25-byte A2S_INFO request datagram
// (spec §4.4.1).
var infoRequest = append([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0x54}, []byte("Source Engine Query\x00")...)

// decodeServerInfo parses the framed A2S_INFO payload, i.e. the
// logical payload already produced by frame() — byte 0 is the command
// byte (spec §4.4.1's "byte 4 of the raw response", renumbered here
// because frame() has already stripped the 4-byte FF FF FF FF/split
// header).
func decodeServerInfo(endpoint string, payload []byte) (*ServerInfo, error) {
	if len(payload) < 19 || payload[0] != 'I' {
		return nil, newErr(endpoint, KindProtocolHeaderMismatch, nil)
	}

	c := cursor.New(payload[1:])
	info := &ServerInfo{}

	readU8 := func() (uint8, error) {
		v, err := c.ReadUint(8, false)
		return uint8(v), err
	}

	var err error
	if info.Protocol, err = readU8(); err != nil {
		return nil, newErr(endpoint, KindTruncated, err)
	}
	if info.Name, err = c.ReadCString(); err != nil {
		return nil, newErr(endpoint, kindForStringErr(err), err)
	}
	if info.Map, err = c.ReadCString(); err != nil {
		return nil, newErr(endpoint, kindForStringErr(err), err)
	}
	if info.Folder, err = c.ReadCString(); err != nil {
		return nil, newErr(endpoint, kindForStringErr(err), err)
	}
	if info.Game, err = c.ReadCString(); err != nil {
		return nil, newErr(endpoint, kindForStringErr(err), err)
	}

	appID, err := c.ReadInt(16, false)
	if err != nil {
		return nil, newErr(endpoint, KindTruncated, err)
	}
	info.AppID = appID

	for _, dst := range []*uint8{&info.Players, &info.MaxPlayers, &info.Bots, &info.ServerType, &info.Environment, &info.Visibility, &info.VAC} {
		v, err := readU8()
		if err != nil {
			return nil, newErr(endpoint, KindTruncated, err)
		}
		*dst = v
	}

	if info.Game == theShip {
		mode, err := readU8()
		if err != nil {
			return nil, newErr(endpoint, KindTruncated, err)
		}
		witnesses, err := readU8()
		if err != nil {
			return nil, newErr(endpoint, KindTruncated, err)
		}
		duration, err := readU8()
		if err != nil {
			return nil, newErr(endpoint, KindTruncated, err)
		}
		info.Mode, info.Witnesses, info.Duration = &mode, &witnesses, &duration
	}

	if info.Version, err = c.ReadCString(); err != nil {
		return nil, newErr(endpoint, kindForStringErr(err), err)
	}

	// EDF may be absent on very old servers; treat running off the
	// end here as "no EDF byte", not a hard failure.
	if c.Len() == 0 {
		return info, nil
	}
	edf, err := readU8()
	if err != nil {
		return nil, newErr(endpoint, KindTruncated, err)
	}
	info.EDF = edf

	if edf&edfPort != 0 {
		v, err := c.ReadUint(16, false)
		if err != nil {
			return nil, newErr(endpoint, KindTruncated, err)
		}
		p := uint16(v)
		info.Port = &p
	}
	if edf&edfSteamID != 0 {
		v, err := c.ReadUint(64, false)
		if err != nil {
			return nil, newErr(endpoint, KindTruncated, err)
		}
		info.SteamID = &v
	}
	if edf&edfSourceTV != 0 {
		v, err := c.ReadUint(16, false)
		if err != nil {
			return nil, newErr(endpoint, KindTruncated, err)
		}
		p := uint16(v)
		info.SourceTVPort = &p

		name, err := c.ReadCString()
		if err != nil {
			return nil, newErr(endpoint, kindForStringErr(err), err)
		}
		info.SourceTVName = &name
	}
	if edf&edfKeywords != 0 {
		kw, err := c.ReadCString()
		if err != nil {
			return nil, newErr(endpoint, kindForStringErr(err), err)
		}
		info.Keywords = &kw
	}
	if edf&edfGameID != 0 {
		v, err := c.ReadUint(64, false)
		if err != nil {
			return nil, newErr(endpoint, KindTruncated, err)
		}
		info.GameID = &v
		info.AppID = int64(v & 0x00FF_FFFF)
	}

	return info, nil
}

func kindForStringErr(err error) Kind {
	if err == cursor.ErrEncoding {
		return KindEncoding
	}
	return KindStringTruncated
}
