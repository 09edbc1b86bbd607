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
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/steamnetd/steamnetd/cursor"
	"github.com/steamnetd/steamnetd/internal/labels"
	"github.com/steamnetd/steamnetd/logger"
)

// Region is one of the Steam Master Server's region codes (spec
// §6.5). RegionAll (0xFF) selects every region.
type Region byte

const (
	RegionUSEast       Region = 0x00
	RegionUSWest       Region = 0x01
	RegionSouthAmerica Region = 0x02
	RegionEurope       Region = 0x03
	RegionAsia         Region = 0x04
	RegionAustralia    Region = 0x05
	RegionMiddleEast   Region = 0x06
	RegionAfrica       Region = 0x07
	RegionAll          Region = 0xFF
)

const masterAddr = "hl2master.steampowered.com:27011"

// QUERY_CAP defense against the master's own rate-limiting: no more
// than this many requests are issued per MasterEnumeration (spec
// §4.5).
const masterQueryCap = 10

// masterRateLimit is how long the enumerator sleeps before retrying
// the very first request, should it time out — this is the one place
// in the library latency extends past a single retry budget (spec §5).
const masterRateLimit = 300 * time.Second

var masterResponsePreamble = []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x66, 0x0A}

// sentinelEndpoint is the master's "no more results" marker.
var sentinelEndpoint = ServerEndpoint{ip: "0.0.0.0", port: 0}

// MasterClient queries the Steam Master Server for game server
// endpoints matching a region and filter (spec §4.5).
type MasterClient struct {
	transport *Transport
}

// DialMaster opens the UDP socket used for all Master Server queries.
func DialMaster() (*MasterClient, error) {
	t, err := Dial(masterAddr, masterAddr)
	if err != nil {
		return nil, err
	}
	return &MasterClient{transport: t}, nil
}

// Close releases the Master Server socket.
func (m *MasterClient) Close() error { return m.transport.Close() }

// Enumerate returns every server endpoint matching region and filter,
// collected across as many requests as it takes, up to masterQueryCap
// (spec P6). The very first request retries forever on timeout, each
// retry separated by masterRateLimit — the master is understood to be
// rate-limiting, not down. Subsequent requests time out as
// KindTimeout without the long sleep.
//
// Duplicate endpoints across pages (the master may re-include the
// seed) are suppressed with a labels-hashed set.
func (m *MasterClient) Enumerate(ctx context.Context, region Region, filter Filter) ([]ServerEndpoint, error) {
	filterStr := filter.Serialize()

	seed := "0.0.0.0:0"
	var out []ServerEndpoint
	seen := make(map[uint64]struct{})

	for queries := 0; queries < masterQueryCap; queries++ {
		page, err := m.requestPage(ctx, region, seed, filterStr, queries == 0)
		if err != nil {
			observeQuery("master", err)
			return nil, err
		}
		masterRequestsTotal.Inc()

		done := false
		for _, ep := range page {
			if ep == sentinelEndpoint {
				done = true
				break
			}
			h := labels.Labels{{Name: "ip", Value: ep.IP()}, {Name: "port", Value: strconv.Itoa(int(ep.Port()))}}.Hash()
			if _, dup := seen[h]; dup {
				continue
			}
			seen[h] = struct{}{}
			out = append(out, ep)
			seed = ep.String()
		}
		if done || len(page) == 0 {
			break
		}
	}

	observeQuery("master", nil)
	return out, nil
}

func (m *MasterClient) requestPage(ctx context.Context, region Region, seed, filterStr string, isFirst bool) ([]ServerEndpoint, error) {
	req := buildMasterRequest(region, seed, filterStr)

	for {
		if err := m.transport.Send(req); err != nil {
			return nil, err
		}
		raw, err := m.transport.Recv(ctx)
		if err == nil {
			return decodeMasterPage(m.transport.endpoint, raw)
		}
		if !isFirst || !IsKind(err, KindTimeout) {
			return nil, err
		}

		logger.Warnf("master server: no response to initial query (likely rate-limited), waiting %s before retry", masterRateLimit)
		select {
		case <-ctx.Done():
			return nil, newErr(m.transport.endpoint, KindTimeout, ctx.Err())
		case <-time.After(masterRateLimit):
		}
	}
}

func buildMasterRequest(region Region, seed, filterStr string) []byte {
	req := []byte{0x31, byte(region)}
	req = append(req, []byte(seed)...)
	req = append(req, 0x00)
	req = append(req, []byte(filterStr)...)
	req = append(req, 0x00)
	return req
}

// decodeMasterPage parses the 6-byte preamble plus a tight run of
// 6-byte (IPv4, BE port) records (spec §4.5).
func decodeMasterPage(endpoint string, raw []byte) ([]ServerEndpoint, error) {
	if len(raw) < 6 {
		return nil, newErr(endpoint, KindTruncated, nil)
	}
	// the preamble's first four bytes double as a single-datagram
	// framing header; only the command byte and sub-type are checked
	// here since the rest is identical to masterResponsePreamble.
	if raw[4] != masterResponsePreamble[4] || raw[5] != masterResponsePreamble[5] {
		return nil, newErr(endpoint, KindInvalidHeader, nil)
	}

	body := raw[6:]
	if len(body)%6 != 0 {
		return nil, newErr(endpoint, KindTruncated, nil)
	}

	records := len(body) / 6
	page := make([]ServerEndpoint, 0, records)
	for i := 0; i < records; i++ {
		rec := body[i*6 : i*6+6]
		ip := fmt.Sprintf("%d.%d.%d.%d", rec[0], rec[1], rec[2], rec[3])
		port, err := cursor.New(rec[4:6]).ReadUint(16, true)
		if err != nil {
			return nil, newErr(endpoint, KindTruncated, err)
		}
		page = append(page, ServerEndpoint{ip: ip, port: uint16(port)})
	}
	return page, nil
}
