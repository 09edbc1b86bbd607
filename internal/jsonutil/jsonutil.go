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

// Package jsonutil wraps goccy/go-json as a drop-in encoding/json
// replacement for CLI output rendering.
package jsonutil

import "github.com/goccy/go-json"

// MarshalIndent renders v as pretty-printed JSON, the shape every
// steamnetd subcommand prints to stdout.
func MarshalIndent(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
