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
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Jigsaw-Code/outline-accesskey/shadowsocks"
)

// ParseShadowsocksKey decodes an ss:// access key. Any structural failure is
// reported as an [InvalidAccessKeyError] carrying the original cause.
func ParseShadowsocksKey(key string) (*ShadowsocksSessionConfig, error) {
	u, err := url.Parse(strings.TrimSpace(key))
	if err != nil {
		return nil, newInvalidKeyError("failed to parse access key", err)
	}
	// Attempt to decode as SIP002 URI format and
	// fall back to legacy base64 format if decoding fails.
	config, err := parseShadowsocksSIP002URL(u)
	if err == nil {
		return config, nil
	}
	config, err = parseShadowsocksLegacyBase64URL(u)
	if err != nil {
		return nil, newInvalidKeyError("failed to parse access key", err)
	}
	return config, nil
}

// parseShadowsocksLegacyBase64URL parses URL based on legacy base64 format:
// https://shadowsocks.org/doc/configs.html#uri-and-qr-code
func parseShadowsocksLegacyBase64URL(u *url.URL) (*ShadowsocksSessionConfig, error) {
	if u.Host == "" {
		return nil, errors.New("host not specified")
	}
	decoded, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(u.Host)
	if err != nil {
		return nil, fmt.Errorf("failed to decode host string [%v]: %w", u.String(), err)
	}
	var fragment string
	if u.Fragment != "" {
		fragment = "#" + u.Fragment
	}
	newURL, err := url.Parse(strings.ToLower(u.Scheme) + "://" + string(decoded) + fragment)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config part: %w", err)
	}
	if newURL.User == nil {
		return nil, errors.New("missing user info")
	}
	return parseShadowsocksURLFields(newURL, newURL.User.String())
}

// parseShadowsocksSIP002URL parses URL based on SIP002 format:
// https://shadowsocks.org/doc/sip002.html
func parseShadowsocksSIP002URL(u *url.URL) (*ShadowsocksSessionConfig, error) {
	if u.Host == "" {
		return nil, errors.New("host not specified")
	}
	userInfo := u.User.String()
	// Cipher info can be optionally encoded with Base64URL.
	encoding := base64.URLEncoding.WithPadding(base64.NoPadding)
	decodedUserInfo, err := encoding.DecodeString(userInfo)
	if err != nil {
		// Try base64 decoding in legacy mode.
		decodedUserInfo, err = base64.StdEncoding.DecodeString(userInfo)
	}
	var cipherInfo string
	if err == nil {
		cipherInfo = string(decodedUserInfo)
	} else {
		cipherInfo = userInfo
	}
	return parseShadowsocksURLFields(u, cipherInfo)
}

func parseShadowsocksURLFields(u *url.URL, cipherInfo string) (*ShadowsocksSessionConfig, error) {
	cipherName, secret, found := strings.Cut(cipherInfo, ":")
	if !found {
		return nil, errors.New("invalid cipher info: no ':' separator")
	}
	host := u.Hostname()
	if host == "" {
		return nil, errors.New("host not specified")
	}
	port, err := parsePort(u.Port())
	if err != nil {
		return nil, err
	}
	if _, err := shadowsocks.NewEncryptionKey(cipherName, secret); err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	config := &ShadowsocksSessionConfig{Host: host, Port: port, Method: cipherName, Password: secret}
	if prefixStr := u.Query().Get("prefix"); len(prefixStr) > 0 {
		config.Prefix, err = parseStringPrefix(prefixStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse prefix: %w", err)
		}
	}
	return config, nil
}

// parseStringPrefix decodes the prefix string into raw bytes, one byte per
// rune. Runes above U+00FF cannot be represented and are rejected.
func parseStringPrefix(utf8Str string) ([]byte, error) {
	runes := []rune(utf8Str)
	rawBytes := make([]byte, len(runes))
	for i, r := range runes {
		if (r & 0xFF) != r {
			return nil, fmt.Errorf("character out of range: %d", r)
		}
		rawBytes[i] = byte(r)
	}
	return rawBytes, nil
}

func parsePort(portText string) (uint16, error) {
	if portText == "" {
		return 0, errors.New("port not specified")
	}
	port, err := strconv.ParseUint(portText, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid port %q: %w", portText, err)
	}
	if port == 0 {
		return 0, errors.New("port must be in range 1-65535")
	}
	return uint16(port), nil
}
