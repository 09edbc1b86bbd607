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

func TestFilterSerializeDedicatedTrue(t *testing.T) {
	f, err := Bool("dedicated", true)
	require.NoError(t, err)
	assert.Equal(t, `\dedicated\1`, f.Serialize())
}

func TestFilterSerializeDedicatedFalse(t *testing.T) {
	f, err := Bool("dedicated", false)
	require.NoError(t, err)
	assert.Equal(t, `\nor\1\dedicated\1`, f.Serialize())
}

func TestFilterSerializePassword(t *testing.T) {
	yes, err := Bool("password", true)
	require.NoError(t, err)
	assert.Equal(t, `\nor\1\password\0`, yes.Serialize())

	no, err := Bool("password", false)
	require.NoError(t, err)
	assert.Equal(t, `\password\0`, no.Serialize())
}

func TestFilterSerializeEmptyAndFull(t *testing.T) {
	empty, err := Bool("empty", true)
	require.NoError(t, err)
	assert.Equal(t, `\empty\1`, empty.Serialize())

	notEmpty, err := Bool("empty", false)
	require.NoError(t, err)
	assert.Equal(t, `\noplayers\1`, notEmpty.Serialize())

	full, err := Bool("full", true)
	require.NoError(t, err)
	assert.Equal(t, `\full\1`, full.Serialize())

	notFull, err := Bool("full", false)
	require.NoError(t, err)
	assert.Equal(t, `\nor\1\full\1`, notFull.Serialize())
}

func TestFilterSerializeNestedNor(t *testing.T) {
	secure, err := Bool("secure", true)
	require.NoError(t, err)
	outer := Nor(secure)
	assert.Equal(t, `\nor\1\secure\1`, outer.Serialize())
}

func TestFilterSerializeStrIntStrList(t *testing.T) {
	mapF, err := Str("map", "de_dust2")
	require.NoError(t, err)
	assert.Equal(t, `\map\de_dust2`, mapF.Serialize())

	appF, err := Int("appid", 240)
	require.NoError(t, err)
	assert.Equal(t, `\appid\240`, appF.Serialize())

	listF, err := StrList("gametype", []string{"coop", "friendlyfire"})
	require.NoError(t, err)
	assert.Equal(t, `\gametype\coop,friendlyfire`, listF.Serialize())
}

func TestFilterRejectsUnrecognisedKey(t *testing.T) {
	_, err := Str("not_a_real_key", "x")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindBadFilter))
}

func TestFilterRejectsWrongKindKey(t *testing.T) {
	_, err := Int("dedicated", 1)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindBadFilter))
}

func TestFromMapSingleLeaf(t *testing.T) {
	f, err := FromMap(map[string]any{"dedicated": true})
	require.NoError(t, err)
	assert.Equal(t, `\dedicated\1`, f.Serialize())
}

func TestFromMapCoercesStringlyTypedValues(t *testing.T) {
	// CLI flags arrive as strings; cast must coerce them.
	f, err := FromMap(map[string]any{"appid": "240", "secure": "true"})
	require.NoError(t, err)
	s := f.Serialize()
	assert.Contains(t, s, `\appid\240`)
	assert.Contains(t, s, `\secure\1`)
}

func TestFromMapNestedNor(t *testing.T) {
	// Same tree shape as TestFilterSerializeNestedNor above
	// (Nor(Bool("secure", true))), built through FromMap instead of the
	// direct API: a single "nor" child collapses to one Nor wrapper, not
	// two. See DESIGN.md's Open Question decision on single- vs.
	// double-nor nesting.
	f, err := FromMap(map[string]any{
		"nor": []map[string]any{{"secure": true}},
	})
	require.NoError(t, err)
	assert.Equal(t, `\nor\1\secure\1`, f.Serialize())
}

func TestFromMapRejectsUnrecognisedKey(t *testing.T) {
	_, err := FromMap(map[string]any{"bogus": "x"})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindBadFilter))
}

func TestFromMapMultipleLeavesWrapsInNand(t *testing.T) {
	f, err := FromMap(map[string]any{"appid": 240, "dedicated": true})
	require.NoError(t, err)
	s := f.Serialize()
	assert.Contains(t, s, `\nand\2`)
	assert.Contains(t, s, `\appid\240`)
	assert.Contains(t, s, `\dedicated\1`)
}
