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
	"sync"
	"time"

	"github.com/steamnetd/steamnetd/logger"
)

// Session represents one logical conversation with a single game
// server: it owns exactly one Transport and caches the last ServerInfo
// seen, which the Framer needs to decide the split-fragment header
// layout (spec §4.3).
//
// Session methods are not safe for concurrent use by multiple
// goroutines (spec §5) — wrap a Session in a mutex if you need that.
type Session struct {
	endpoint  ServerEndpoint
	transport *Transport

	mu   sync.RWMutex
	info *ServerInfo
}

// NewSession validates conString, opens a UDP socket connected to it,
// and returns a Session ready for queries. It does not perform an
// Info query itself — unlike the source this is grounded on, which
// queries eagerly in its constructor and treats a failure there as a
// reason to mark the connection closed. That coupling is exactly the
// anti-pattern spec.md §9 replaces with an explicit RefreshInfo call.
func NewSession(conString string) (*Session, error) {
	ep, err := ParseEndpoint(conString)
	if err != nil {
		return nil, err
	}
	t, err := Dial(ep.String(), ep.String())
	if err != nil {
		return nil, err
	}
	return &Session{endpoint: ep, transport: t}, nil
}

// Endpoint returns the endpoint this session talks to.
func (s *Session) Endpoint() ServerEndpoint { return s.endpoint }

// Close releases the underlying socket. Idempotent.
func (s *Session) Close() error {
	return s.transport.Close()
}

// Info returns the last ServerInfo obtained by RefreshInfo, or nil if
// RefreshInfo has never succeeded. It performs no I/O.
func (s *Session) Info() *ServerInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.info
}

// RefreshInfo issues an A2S_INFO query and caches the result on
// success, replacing whatever hidden-I/O "info" property the source
// exposed (spec.md §9).
func (s *Session) RefreshInfo(ctx context.Context) (*ServerInfo, error) {
	if err := s.transport.Send(infoRequest); err != nil {
		observeQuery("info", err)
		return nil, err
	}
	raw, err := s.transport.Recv(ctx)
	if err != nil {
		observeQuery("info", err)
		return nil, err
	}

	payload, err := frame(ctx, s.transport, raw, s.Info())
	if err != nil {
		observeQuery("info", err)
		return nil, err
	}
	info, err := decodeServerInfo(s.endpoint.String(), payload)
	observeQuery("info", err)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.info = info
	s.mu.Unlock()
	return info, nil
}

// Ping times an Info round-trip, supplementing the distilled spec
// with the original source's ping() helper (spec.md §4.4.1 addendum).
func (s *Session) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if _, err := s.RefreshInfo(ctx); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}

func (s *Session) challenge(ctx context.Context, probe []byte) ([]byte, error) {
	if err := s.transport.Send(probe); err != nil {
		return nil, err
	}
	raw, err := s.transport.Recv(ctx)
	if err != nil {
		return nil, err
	}
	return decodeChallenge(s.endpoint.String(), raw)
}

// Players issues the A2S_PLAYER challenge/response pair and decodes
// the roster (spec §4.4.2).
func (s *Session) Players(ctx context.Context) (*PlayerRoster, error) {
	challenge, err := s.challenge(ctx, playersChallengeRequest)
	if err != nil {
		observeQuery("players", err)
		return nil, err
	}

	game := s.gameName()
	if game == gameCSGO {
		logger.Warnf("%s: server is running CS:GO, expect a timeout if player reporting is disabled", s.endpoint)
	}

	if err := s.transport.Send(playersRequest(challenge)); err != nil {
		observeQuery("players", err)
		return nil, err
	}
	raw, err := s.transport.Recv(ctx)
	if err != nil {
		observeQuery("players", err)
		return nil, err
	}

	payload, err := frame(ctx, s.transport, raw, s.Info())
	if err != nil {
		observeQuery("players", err)
		return nil, err
	}
	roster, err := decodePlayers(s.endpoint.String(), payload, game)
	observeQuery("players", err)
	return roster, err
}

// Rules issues the A2S_RULES challenge/response pair and decodes the
// rule set (spec §4.4.3). CS:GO servers don't support rules; when the
// cached Info names CS:GO, Rules returns an empty RuleSet without
// sending anything.
func (s *Session) Rules(ctx context.Context) (RuleSet, error) {
	if s.gameName() == gameCSGO {
		logger.Debugf("%s: CS:GO servers don't support rules requests", s.endpoint)
		return RuleSet{}, nil
	}

	challenge, err := s.challenge(ctx, rulesChallengeRequest)
	if err != nil {
		observeQuery("rules", err)
		return nil, err
	}

	if err := s.transport.Send(rulesRequest(challenge)); err != nil {
		observeQuery("rules", err)
		return nil, err
	}
	raw, err := s.transport.Recv(ctx)
	if err != nil {
		observeQuery("rules", err)
		return nil, err
	}

	payload, err := frame(ctx, s.transport, raw, s.Info())
	if err != nil {
		observeQuery("rules", err)
		return nil, err
	}
	rules, err := decodeRules(s.endpoint.String(), payload)
	observeQuery("rules", err)
	return rules, err
}

func (s *Session) gameName() string {
	if info := s.Info(); info != nil {
		return info.Game
	}
	return ""
}
