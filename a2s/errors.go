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

// Package a2s implements a client for the Source/GoldSrc A2S query
// family and the Steam Master Server protocol: UDP request/response
// with an adaptive retry schedule, A2S packet framing (single/split,
// bzip2 decompression), and decoders for A2S_INFO, A2S_PLAYER,
// A2S_RULES, and the Master's IP enumeration.
package a2s

import "github.com/pkg/errors"

// Kind classifies an Error. See spec §7 for the full enumeration.
type Kind string

const (
	KindClosed                 Kind = "closed"
	KindTimeout                Kind = "timeout"
	KindTransport              Kind = "transport_error"
	KindInvalidHeader          Kind = "invalid_header"
	KindBadFragment            Kind = "bad_fragment"
	KindCompressionMismatch    Kind = "compression_mismatch"
	KindTruncated              Kind = "truncated"
	KindStringTruncated        Kind = "string_truncated"
	KindEncoding               Kind = "encoding"
	KindBadFilter              Kind = "bad_filter"
	KindUnsupported            Kind = "unsupported"
	KindProtocolHeaderMismatch Kind = "protocol_header_mismatch"
)

// Error is the single error type surfaced by this package. It always
// carries the endpoint the operation was addressed to and a short
// human cause, per spec §7 ("every error carries the offending
// endpoint and a short human-readable cause").
type Error struct {
	Endpoint string
	Kind     Kind
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Endpoint + ": " + string(e.Kind)
	}
	return e.Endpoint + ": " + string(e.Kind) + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// newErr wraps cause (if any) into an *Error tagged with endpoint and
// kind, using pkg/errors so callers retrieving the stack via
// errors.Cause see the original failure site.
func newErr(endpoint string, kind Kind, cause error) *Error {
	if cause != nil {
		cause = errors.WithStack(cause)
	}
	return &Error{Endpoint: endpoint, Kind: kind, Cause: cause}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
