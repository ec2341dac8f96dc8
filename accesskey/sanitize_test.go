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
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeShadowsocksKey(t *testing.T) {
	sanitized := SanitizeKey("ss://aes-256-gcm:supersecret@example.com:1234")

	require.Equal(t, "ss://REDACTED@example.com:1234", sanitized)
	require.NotContains(t, sanitized, "supersecret")
}

func TestSanitizeShadowsocksKeyKeepsPrefix(t *testing.T) {
	sanitized := SanitizeKey("ss://aes-256-gcm:supersecret@example.com:1234?prefix=HTTP%2F1.1%20")

	require.Contains(t, sanitized, "prefix=")
	require.NotContains(t, sanitized, "supersecret")
}

func TestSanitizeVlessKey(t *testing.T) {
	sanitized := SanitizeKey("vless://" + testUUID + "@example.com:443?security=tls")

	require.NotContains(t, sanitized, testUUID)
	require.Contains(t, sanitized, "REDACTED")
	require.Contains(t, sanitized, "example.com:443")
}

func TestSanitizeDynamicKey(t *testing.T) {
	sanitized := SanitizeKey("ssconf://keys.example.com/secret-path?token=abc#frag")

	require.True(t, strings.HasPrefix(sanitized, "ssconf://keys.example.com"), sanitized)
	require.NotContains(t, sanitized, "secret-path")
	require.NotContains(t, sanitized, "token")
}

func TestSanitizeUnknownScheme(t *testing.T) {
	require.Equal(t, "trojan://UNKNOWN", SanitizeKey("trojan://secret@example.com:443"))
}

func TestSanitizeInvalidKey(t *testing.T) {
	require.Equal(t, "invalid", SanitizeKey("ss://not-a-valid-key"))
	require.Equal(t, "invalid", SanitizeKey("no scheme at all"))
}

func TestIsDynamicKey(t *testing.T) {
	require.True(t, IsDynamicKey("ssconf://example.com/key"))
	require.True(t, IsDynamicKey("https://example.com/key"))
	require.True(t, IsDynamicKey("http://example.com/key"))
	require.False(t, IsDynamicKey("ss://aes-256-gcm:pw@example.com:1234"))
	require.False(t, IsDynamicKey("vless://uuid@example.com:443"))
}
