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

func TestParseEndpointValid(t *testing.T) {
	ep, err := ParseEndpoint("192.168.1.100:27015")
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.100", ep.IP())
	assert.EqualValues(t, 27015, ep.Port())
	assert.Equal(t, "192.168.1.100:27015", ep.String())
}

func TestParseEndpointValidEdgeOctetsAndPort(t *testing.T) {
	ep, err := ParseEndpoint("0.0.0.0:1")
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", ep.IP())
	assert.EqualValues(t, 1, ep.Port())

	ep, err = ParseEndpoint("255.255.255.255:65535")
	require.NoError(t, err)
	assert.Equal(t, "255.255.255.255", ep.IP())
	assert.EqualValues(t, 65535, ep.Port())
}

func TestParseEndpointRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"not-an-endpoint",
		"1.2.3.4",             // no port
		"1.2.3.4:",            // missing port digits
		"1.2.3.4-27015",       // wrong separator
		"1.2.3.4:27015:extra", // trailing garbage
		"1.2.3:27015",         // too few octets
		"1.2.3.4.5:27015",     // too many octets
		"1.2.3.256:27015",     // octet out of range
		"1.2.3.999:27015",     // octet out of range
		"1.2.3.-1:27015",      // negative octet
		"a.b.c.d:27015",       // non-numeric octets
	}
	for _, c := range cases {
		t.Run(c, func(t *testing.T) {
			_, err := ParseEndpoint(c)
			require.Error(t, err)
		})
	}
}

func TestParseEndpointRejectsPortZero(t *testing.T) {
	_, err := ParseEndpoint("1.2.3.4:0")
	require.Error(t, err)
}

func TestParseEndpointRejectsPortOutOfRange(t *testing.T) {
	cases := []string{
		"1.2.3.4:65536",
		"1.2.3.4:100000",
	}
	for _, c := range cases {
		t.Run(c, func(t *testing.T) {
			_, err := ParseEndpoint(c)
			require.Error(t, err)
		})
	}
}
