// Copyright 2025 The Outline Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

/*
Package accesskey resolves user-supplied access keys into the session
configuration a tunneling client needs to establish a connection.

Keys come in two families. Static keys are self-describing and are parsed
locally, with no I/O:

	ss://[USERINFO]@[HOST]:[PORT]?prefix=[PREFIX]
	vless://[UUID]@[HOST]:[PORT]?type=[NET]&security=[SEC]&flow=[FLOW]&pbk=[PBK]&sni=[SNI]&sid=[SID]&fp=[FP]&spx=[SPX]

Dynamic keys are URLs (ssconf:// or https://) that are fetched once to obtain
the real parameters; the response body is either a bare ss:// key or a server
JSON document.

Format detection is by literal scheme prefix, never by content sniffing, so
classification stays deterministic and auditable. Everything here handles
untrusted input: user-typed strings and server responses. Failures are
classified into exactly three kinds — [InvalidAccessKeyError] for malformed
input, [FetchConfigError] for an unreachable dynamic key, and [ProviderError]
for an error the service provider declared itself — always preserving the
originating cause.

Resolution produces one of two [SessionConfig] variants and nothing else: a
[ShadowsocksSessionConfig], or a [VlessSessionConfig] whose transport document
the tunnel layer consumes as-is.
*/
package accesskey
