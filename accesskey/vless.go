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

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
)

// ParseVlessKey decodes a vless:// access key into a [VlessSessionConfig].
//
// The user info carries the UUID. Query parameters: type (default "tcp"),
// security (default "none"), flow (omitted from the transport config when
// absent), and for security=reality the required pbk and sni plus the
// optional sid (default ""), fp (default "random") and spx (default "").
func ParseVlessKey(key string) (*VlessSessionConfig, error) {
	u, err := url.Parse(strings.TrimSpace(key))
	if err != nil {
		return nil, newInvalidKeyError("failed to parse access key", err)
	}
	uuid := u.User.Username()
	if uuid == "" {
		return nil, newInvalidKeyError("missing UUID", nil)
	}
	host := u.Hostname()
	portText := u.Port()
	if host == "" || portText == "" {
		return nil, newInvalidKeyError("missing host or port", nil)
	}
	port, err := strconv.ParseUint(portText, 10, 16)
	if err != nil || port == 0 {
		return nil, newInvalidKeyError("missing host or port", err)
	}

	query := u.Query()
	network := query.Get("type")
	if network == "" {
		network = "tcp"
	}
	security := query.Get("security")
	if security == "" {
		security = "none"
	}
	stream := &streamSettings{Network: network, Security: security}
	if security == "reality" {
		pbk, sni := query.Get("pbk"), query.Get("sni")
		if pbk == "" || sni == "" {
			return nil, newInvalidKeyError("reality settings require pbk and sni", nil)
		}
		fingerprint := query.Get("fp")
		if fingerprint == "" {
			fingerprint = "random"
		}
		stream.RealitySettings = &realitySettings{
			PublicKey:   pbk,
			ServerName:  sni,
			ShortID:     query.Get("sid"),
			Fingerprint: fingerprint,
			SpiderX:     query.Get("spx"),
		}
	}

	doc := xrayConfig{
		Inbounds: []inbound{newLocalSocksInbound()},
		Outbounds: []outbound{{
			Protocol: "vless",
			Settings: outboundSettings{
				Vnext: []vnext{{
					Address: host,
					Port:    int(port),
					Users: []vnextUser{{
						ID:         uuid,
						Encryption: "none",
						Flow:       query.Get("flow"),
					}},
				}},
			},
			StreamSettings: stream,
		}},
	}
	transport, err := json.Marshal(doc)
	if err != nil {
		return nil, newInvalidKeyError("failed to serialize transport config", err)
	}
	return &VlessSessionConfig{TransportConfig: string(transport), Host: host}, nil
}
