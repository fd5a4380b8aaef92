// Copyright 2023 Memgrid
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package defines

const (
	// ClientProtocolVersion is the command protocol version the gateway
	// speaks with SQL client drivers.
	ClientProtocolVersion int64 = 1

	// ClientProtocolVersionSince is the first gateway release that speaks
	// ClientProtocolVersion. Handed to older drivers during handshake so
	// they can decide whether to renegotiate.
	ClientProtocolVersionSince = "0.5.0"

	// MemgridVersion is the human readable server version reported to
	// drivers whose protocol version does not match.
	MemgridVersion = "0.8.2"
)
