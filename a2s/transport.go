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
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/steamnetd/steamnetd/common"
	"github.com/steamnetd/steamnetd/logger"
)

const (
	maxRetries   = 5
	baseTimeout  = 3 * time.Second
	recvBufSize  = common.RecvBufSize
	pollInterval = 50 * time.Millisecond
)

// Transport owns one UDP socket pre-connected to a single remote
// endpoint: every Send writes the whole datagram in one syscall and
// every Recv only ever observes datagrams from that peer.
//
// The socket is driven with short read deadlines so each wake can be
// treated as a non-blocking poll; the adaptive retry schedule below
// governs the total time budget, not the polling cadence (spec §4.2).
type Transport struct {
	endpoint string
	sessID   string
	conn     net.Conn

	mu     sync.Mutex
	closed bool
}

// Dial opens a UDP socket connected to addr (host:port).
func Dial(endpoint string, addr string) (*Transport, error) {
	conn, err := net.Dial("udp4", addr)
	if err != nil {
		return nil, newErr(endpoint, KindTransport, err)
	}
	return &Transport{
		endpoint: endpoint,
		sessID:   uuid.NewString(),
		conn:     conn,
	}, nil
}

// SessionID returns the correlation id attached to every log line
// this Transport emits.
func (t *Transport) SessionID() string { return t.sessID }

// Send writes datagram in a single send call. A short send is
// reported as a TransportError.
func (t *Transport) Send(datagram []byte) error {
	if t.isClosed() {
		return newErr(t.endpoint, KindClosed, nil)
	}
	n, err := t.conn.Write(datagram)
	if err != nil {
		return newErr(t.endpoint, KindTransport, err)
	}
	if n != len(datagram) {
		return newErr(t.endpoint, KindTransport, errShortSend)
	}
	logger.Debugf("[%s] %s: sent %d bytes", t.sessID, t.endpoint, n)
	return nil
}

// Recv attempts to read one datagram into a 4096-byte buffer,
// applying the adaptive retry schedule: successively shorter
// deadlines (3.0, 2.5, 2.0, 1.5, 1.0, 0.5s) across MAX_RETRIES=5
// retries before failing with Timeout. ctx cancellation is honored
// between polls, so a caller-side deadline can cut the wait short
// without disturbing the retry accounting.
func (t *Transport) Recv(ctx context.Context) ([]byte, error) {
	if t.isClosed() {
		return nil, newErr(t.endpoint, KindClosed, nil)
	}

	buf := make([]byte, recvBufSize)
	retries := 0
	t0 := time.Now()
	for {
		if err := ctx.Err(); err != nil {
			return nil, newErr(t.endpoint, KindTimeout, err)
		}

		_ = t.conn.SetReadDeadline(time.Now().Add(pollInterval))
		n, err := t.conn.Read(buf)
		if err == nil {
			logger.Debugf("[%s] %s: recv %d bytes", t.sessID, t.endpoint, n)
			return buf[:n], nil
		}

		ne, ok := err.(net.Error)
		if !ok || !ne.Timeout() {
			return nil, newErr(t.endpoint, KindTransport, err)
		}

		threshold := time.Duration(float64(baseTimeout) * (1 - float64(retries)/float64(maxRetries+1)))
		if time.Since(t0) <= threshold {
			continue
		}
		if retries >= maxRetries {
			timeoutsTotal.Inc()
			return nil, newErr(t.endpoint, KindTimeout, nil)
		}
		retries++
		retriesTotal.Inc()
		t0 = time.Now()
	}
}

// Close marks the transport closed and releases the socket.
// Idempotent; subsequent Send/Recv calls fail with KindClosed.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	return t.conn.Close()
}

func (t *Transport) isClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

var errShortSend = shortSendError{}

type shortSendError struct{}

func (shortSendError) Error() string { return "short send" }
