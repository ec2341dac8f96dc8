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
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseShadowsocksKeyNoEncoding(t *testing.T) {
	config, err := ParseShadowsocksKey("ss://aes-256-gcm:1234567@example.com:1234")

	require.NoError(t, err)
	require.Equal(t, "example.com", config.Host)
	require.Equal(t, uint16(1234), config.Port)
	require.Equal(t, "aes-256-gcm", config.Method)
	require.Equal(t, "1234567", config.Password)
	require.Nil(t, config.Prefix)
}

func TestParseShadowsocksKeyUserInfoEncoded(t *testing.T) {
	encoded := base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString([]byte("aes-256-gcm:1234567"))
	config, err := ParseShadowsocksKey("ss://" + encoded + "@example.com:1234?prefix=HTTP%2F1.1%20" + "#outline-123")

	require.NoError(t, err)
	require.Equal(t, "example.com", config.Host)
	require.Equal(t, uint16(1234), config.Port)
	require.Equal(t, "aes-256-gcm", config.Method)
	require.Equal(t, "1234567", config.Password)
	require.Equal(t, "HTTP/1.1 ", string(config.Prefix))
}

func TestParseShadowsocksKeyUserInfoLegacyEncoded(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("aes-256-gcm:shadowsocks"))
	config, err := ParseShadowsocksKey("ss://" + encoded + "@example.com:1234")

	require.NoError(t, err)
	require.Equal(t, "example.com", config.Host)
	require.Equal(t, "aes-256-gcm", config.Method)
	require.Equal(t, "shadowsocks", config.Password)
}

func TestParseShadowsocksKeyFullyEncoded(t *testing.T) {
	encoded := base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString([]byte("aes-256-gcm:1234567@example.com:1234?prefix=HTTP%2F1.1%20"))
	config, err := ParseShadowsocksKey("ss://" + encoded + "#outline-123")

	require.NoError(t, err)
	require.Equal(t, "example.com", config.Host)
	require.Equal(t, uint16(1234), config.Port)
	require.Equal(t, "aes-256-gcm", config.Method)
	require.Equal(t, "1234567", config.Password)
	require.Equal(t, "HTTP/1.1 ", string(config.Prefix))
}

func TestParseShadowsocksKeyInvalidCipherInfoFails(t *testing.T) {
	_, err := ParseShadowsocksKey("ss://aes-256-gcm1234567@example.com:1234")

	require.Error(t, err)
	var keyErr *InvalidAccessKeyError
	require.ErrorAs(t, err, &keyErr)
}

func TestParseShadowsocksKeyUnsupportedCipherFails(t *testing.T) {
	_, err := ParseShadowsocksKey("ss://aes-256-cfb:1234567@example.com:1234")

	require.Error(t, err)
	var keyErr *InvalidAccessKeyError
	require.ErrorAs(t, err, &keyErr)
}

func TestParseShadowsocksKeyMissingPortFails(t *testing.T) {
	_, err := ParseShadowsocksKey("ss://aes-256-gcm:1234567@example.com")

	require.Error(t, err)
	var keyErr *InvalidAccessKeyError
	require.ErrorAs(t, err, &keyErr)
}

func TestParseShadowsocksKeyPortOutOfRangeFails(t *testing.T) {
	_, err := ParseShadowsocksKey("ss://aes-256-gcm:1234567@example.com:99999")
	require.Error(t, err)

	_, err = ParseShadowsocksKey("ss://aes-256-gcm:1234567@example.com:0")
	require.Error(t, err)
}

func TestParseShadowsocksKeyPrefixOutOfRangeFails(t *testing.T) {
	_, err := ParseShadowsocksKey("ss://aes-256-gcm:1234567@example.com:1234?prefix=%E2%98%83")

	require.Error(t, err)
	var keyErr *InvalidAccessKeyError
	require.ErrorAs(t, err, &keyErr)
}

func TestParseStaticKeyDispatchesOnPrefix(t *testing.T) {
	config, err := ParseStaticKey("ss://aes-256-gcm:1234567@example.com:1234")
	require.NoError(t, err)
	require.IsType(t, &ShadowsocksSessionConfig{}, config)

	config, err = ParseStaticKey("vless://6eb3fc51-8473-4bd8-a738-f13b2be9e494@example.com:443")
	require.NoError(t, err)
	require.IsType(t, &VlessSessionConfig{}, config)
}
