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

package common

const (
	// App is the program name, used as the CLI's root command name and
	// as the metric namespace of the panic counter.
	App = "steamnetd"

	// Version is the fallback build version when the CLI is built
	// without -ldflags setting common.buildVersion.
	Version = "v0.0.1"

	// RecvBufSize is the datagram buffer size shared across Transport
	// and the Master client (spec §4.2/§4.5): 4096 bytes comfortably
	// covers a single A2S fragment or master page.
	RecvBufSize = 4096
)
