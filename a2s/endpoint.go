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
	"fmt"
	"regexp"
	"strconv"
)

// conStringPattern matches "ipv4:port" with each octet in [0,255].
// Ported from the validation regex in the original source, which
// pattern-matches rather than parsing, so malformed input is rejected
// before any socket is opened (spec §6.1).
var conStringPattern = regexp.MustCompile(
	`^(?:(?:[0-9]|[0-9][0-9]|1[0-9][0-9]|2[0-4][0-9]|25[0-5])\.){3}` +
		`(?:[0-9]|[0-9][0-9]|1[0-9][0-9]|2[0-4][0-9]|25[0-5]):([0-9]{1,5})$`)

// ServerEndpoint identifies a game server by IPv4 address and UDP
// port. Immutable after construction.
type ServerEndpoint struct {
	ip   string
	port uint16
}

// ParseEndpoint validates and parses an "ipv4:port" connection string.
// Port must be in [1, 65535] for a game server.
func ParseEndpoint(conString string) (ServerEndpoint, error) {
	m := conStringPattern.FindStringSubmatch(conString)
	if m == nil {
		return ServerEndpoint{}, fmt.Errorf("a2s: invalid connection string %q", conString)
	}
	port, err := strconv.Atoi(m[1])
	if err != nil || port < 1 || port > 65535 {
		return ServerEndpoint{}, fmt.Errorf("a2s: port out of range in %q", conString)
	}
	idx := len(conString) - len(m[1]) - 1
	return ServerEndpoint{ip: conString[:idx], port: uint16(port)}, nil
}

// String renders the endpoint as "ipv4:port".
func (e ServerEndpoint) String() string {
	return fmt.Sprintf("%s:%d", e.ip, e.port)
}

// IP returns the dotted-quad IPv4 address.
func (e ServerEndpoint) IP() string { return e.ip }

// Port returns the UDP port.
func (e ServerEndpoint) Port() uint16 { return e.port }
