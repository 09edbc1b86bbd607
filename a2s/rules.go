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

// RuleSet maps a server cvar name to its value. Servers may send
// duplicate names; the last one wins (spec §3, invariant on RuleSet).
type RuleSet map[string]string

var rulesChallengeRequest = []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x56, 0xFF, 0xFF, 0xFF, 0xFF}

func rulesRequest(challenge []byte) []byte {
	req := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x56}
	return append(req, challenge...)
}

// decodeRules parses the framed A2S_RULES payload (byte 0 is the
// 0x45 command byte, followed by a u16 LE count and that many
// NUL-terminated (name, value) pairs).
func decodeRules(endpoint string, payload []byte) (RuleSet, error) {
	if len(payload) < 3 || payload[0] != 0x45 {
		return nil, newErr(endpoint, KindProtocolHeaderMismatch, nil)
	}

	c := cursor.New(payload[1:])
	count, err := c.ReadUint(16, false)
	if err != nil {
		return nil, newErr(endpoint, KindTruncated, err)
	}

	rules := make(RuleSet, count)
	for i := uint64(0); i < count; i++ {
		name, err := c.ReadCString()
		if err != nil {
			return nil, newErr(endpoint, kindForStringErr(err), err)
		}
		value, err := c.ReadCString()
		if err != nil {
			return nil, newErr(endpoint, kindForStringErr(err), err)
		}
		rules[name] = value // last-wins on duplicate keys
	}
	return rules, nil
}
