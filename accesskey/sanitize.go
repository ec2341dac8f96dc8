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
	"net"
	"net/url"
	"strconv"
	"strings"
)

// SanitizeKey returns a log-safe version of an access key with credentials
// redacted. Dynamic key URLs are capabilities, so their path and query are
// hidden as well.
func SanitizeKey(key string) string {
	u, err := url.Parse(strings.TrimSpace(key))
	if err != nil || u.Scheme == "" {
		return "invalid"
	}
	switch strings.ToLower(u.Scheme) {
	case "ss":
		config, err := ParseShadowsocksKey(key)
		if err != nil {
			return "invalid"
		}
		values := make(url.Values)
		if prefix := u.Query().Get("prefix"); prefix != "" {
			values.Add("prefix", prefix)
		}
		clean := url.URL{
			Scheme:   "ss",
			User:     url.User("REDACTED"),
			Host:     net.JoinHostPort(config.Host, strconv.Itoa(int(config.Port))),
			RawQuery: values.Encode(),
		}
		return clean.String()
	case "vless":
		if u.User != nil {
			u.User = url.User("REDACTED")
		}
		return u.String()
	case "ssconf", "https", "http":
		if u.Path != "" && u.Path != "/" {
			u.Path = "/REDACTED"
		}
		u.RawQuery = ""
		u.Fragment = ""
		return u.String()
	default:
		return strings.ToLower(u.Scheme) + "://UNKNOWN"
	}
}
