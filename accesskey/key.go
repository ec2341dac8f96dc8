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

package accesskey

import "strings"

const (
	ssScheme     = "ss://"
	vlessScheme  = "vless://"
	ssconfScheme = "ssconf://"
)

// SessionConfig is the resolved output of an access key. It is implemented by
// exactly [ShadowsocksSessionConfig] and [VlessSessionConfig]; consumers must
// switch on the concrete type.
type SessionConfig interface {
	isSessionConfig()
}

// ShadowsocksSessionConfig fully specifies a Shadowsocks proxy session.
type ShadowsocksSessionConfig struct {
	Host     string `json:"host"`
	Port     uint16 `json:"port"`
	Method   string `json:"method"`
	Password string `json:"password"`
	// Prefix is the optional salt prefix used to disguise the connection.
	Prefix []byte `json:"prefix,omitempty"`
}

func (*ShadowsocksSessionConfig) isSessionConfig() {}

// VlessSessionConfig specifies a multiplexed VLESS tunnel session.
// TransportConfig is a serialized xray-style document with a single local
// socks inbound and a single vless outbound for the remote endpoint.
type VlessSessionConfig struct {
	TransportConfig string `json:"transport"`
	Host            string `json:"host"`
}

func (*VlessSessionConfig) isSessionConfig() {}

// ParseStaticKey decodes a self-contained access key without any I/O.
// Detection is by literal scheme prefix: "vless://" selects the VLESS format,
// anything else is treated as a Shadowsocks key.
func ParseStaticKey(key string) (SessionConfig, error) {
	if strings.HasPrefix(key, vlessScheme) {
		return ParseVlessKey(key)
	}
	return ParseShadowsocksKey(key)
}

// IsDynamicKey reports whether the key is a URL that must be fetched to
// obtain the session parameters.
func IsDynamicKey(key string) bool {
	return strings.HasPrefix(key, ssconfScheme) ||
		strings.HasPrefix(key, "https://") ||
		strings.HasPrefix(key, "http://")
}
