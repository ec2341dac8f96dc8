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

// The local socks listener address the tunnel layer binds to. Server-declared
// inbound ports are never trusted; they are overwritten with this value.
const (
	localProxyHost = "127.0.0.1"
	localProxyPort = 10808
)

// xrayConfig is the transport document consumed by the tunnel layer: one
// local socks inbound and one outbound describing the remote endpoint.
type xrayConfig struct {
	Inbounds  []inbound  `json:"inbounds"`
	Outbounds []outbound `json:"outbounds"`
}

type inbound struct {
	Tag      string           `json:"tag,omitempty"`
	Listen   string           `json:"listen"`
	Port     int              `json:"port"`
	Protocol string           `json:"protocol"`
	Settings *inboundSettings `json:"settings,omitempty"`
}

type inboundSettings struct {
	UDP  bool   `json:"udp"`
	Auth string `json:"auth"`
}

type outbound struct {
	Protocol       string           `json:"protocol"`
	Settings       outboundSettings `json:"settings"`
	StreamSettings *streamSettings  `json:"streamSettings,omitempty"`
}

type outboundSettings struct {
	Vnext []vnext `json:"vnext"`
}

type vnext struct {
	Address string      `json:"address"`
	Port    int         `json:"port"`
	Users   []vnextUser `json:"users"`
}

type vnextUser struct {
	ID         string `json:"id"`
	Encryption string `json:"encryption"`
	Flow       string `json:"flow,omitempty"`
}

type streamSettings struct {
	Network         string           `json:"network"`
	Security        string           `json:"security"`
	RealitySettings *realitySettings `json:"realitySettings,omitempty"`
}

// realitySettings disguises the tunnel handshake as ordinary TLS to the named
// server. All fields are serialized even when they hold their defaults.
type realitySettings struct {
	PublicKey   string `json:"publicKey"`
	ServerName  string `json:"serverName"`
	ShortID     string `json:"shortId"`
	Fingerprint string `json:"fingerprint"`
	SpiderX     string `json:"spiderX"`
}

func newLocalSocksInbound() inbound {
	return inbound{
		Tag:      "socks-in",
		Listen:   localProxyHost,
		Port:     localProxyPort,
		Protocol: "socks",
		Settings: &inboundSettings{UDP: false, Auth: "noauth"},
	}
}
