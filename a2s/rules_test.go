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

func TestDecodeRules(t *testing.T) {
	payload := []byte{0x45, 0x02, 0x00}
	payload = append(payload, []byte("mp_friendlyfire\x00")...)
	payload = append(payload, []byte("1\x00")...)
	payload = append(payload, []byte("sv_gravity\x00")...)
	payload = append(payload, []byte("800\x00")...)

	rules, err := decodeRules("1.2.3.4:27015", payload)
	require.NoError(t, err)
	assert.Equal(t, RuleSet{"mp_friendlyfire": "1", "sv_gravity": "800"}, rules)
}

func TestDecodeRulesDuplicateKeyLastWins(t *testing.T) {
	payload := []byte{0x45, 0x02, 0x00}
	payload = append(payload, []byte("sv_gravity\x00")...)
	payload = append(payload, []byte("800\x00")...)
	payload = append(payload, []byte("sv_gravity\x00")...)
	payload = append(payload, []byte("400\x00")...)

	rules, err := decodeRules("1.2.3.4:27015", payload)
	require.NoError(t, err)
	assert.Equal(t, "400", rules["sv_gravity"])
}

func TestDecodeRulesRejectsWrongCommandByte(t *testing.T) {
	_, err := decodeRules("1.2.3.4:27015", []byte{0x44, 0x00, 0x00})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindProtocolHeaderMismatch))
}
