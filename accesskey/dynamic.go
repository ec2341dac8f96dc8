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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

// EnvironmentInfo supplies application metadata. The version may be expensive
// to look up; the fetcher asks for it at most once.
type EnvironmentInfo interface {
	AppVersion(ctx context.Context) (string, error)
}

// KeyFetcher resolves access keys, performing the single HTTP request a
// dynamic key requires. It is safe for concurrent use.
type KeyFetcher struct {
	client   *http.Client
	env      EnvironmentInfo
	platform PlatformInfo

	versionOnce sync.Once
	version     string
	versionErr  error
}

// NewKeyFetcher creates a [KeyFetcher]. A nil client falls back to
// [http.DefaultClient]; a nil platform falls back to [NativePlatform].
func NewKeyFetcher(client *http.Client, env EnvironmentInfo, platform PlatformInfo) *KeyFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if platform == nil {
		platform = NativePlatform()
	}
	return &KeyFetcher{client: client, env: env, platform: platform}
}

// ResolveKey turns an access key into a [SessionConfig]. Keys with an
// ssconf:// or http(s):// scheme are dynamic and fetched; everything else is
// parsed locally.
func (f *KeyFetcher) ResolveKey(ctx context.Context, key string) (SessionConfig, error) {
	key = strings.TrimSpace(key)
	if IsDynamicKey(key) {
		return f.FetchSessionConfig(ctx, key)
	}
	return ParseStaticKey(key)
}

// FetchSessionConfig performs one GET against the dynamic key's URL and
// translates the response body. Transport-level failures are reported as
// [FetchConfigError]; a non-2xx status is not itself a failure, the body is
// translated regardless.
func (f *KeyFetcher) FetchSessionConfig(ctx context.Context, keyURL string) (SessionConfig, error) {
	fetchURL, err := normalizeDynamicKeyURL(keyURL)
	if err != nil {
		return nil, newInvalidKeyError("invalid dynamic access key URL", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return nil, &FetchConfigError{Cause: err}
	}
	req.Header.Set("Cache-Control", "no-store")
	// Only macOS identifies itself: its network extension strips the default
	// User-Agent, so the provider cannot tell client versions apart without it.
	if f.platform.Name() == "macOS" {
		userAgent, err := f.userAgent(ctx)
		if err != nil {
			return nil, &FetchConfigError{Cause: err}
		}
		if userAgent != "" {
			req.Header.Set("User-Agent", userAgent)
		}
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchConfigError{Cause: err}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchConfigError{Cause: err}
	}
	return parseSessionConfig(string(body))
}

func (f *KeyFetcher) userAgent(ctx context.Context) (string, error) {
	if f.env == nil {
		return "", nil
	}
	f.versionOnce.Do(func() {
		f.version, f.versionErr = f.env.AppVersion(ctx)
	})
	if f.versionErr != nil {
		return "", fmt.Errorf("failed to look up app version: %w", f.versionErr)
	}
	return fmt.Sprintf("Outline/%s (%s %s)", f.version, f.platform.Name(), f.platform.Version()), nil
}

// normalizeDynamicKeyURL rewrites the ssconf:// alias to https:// and tags
// the query with the response format the client expects. Only the format tag
// goes in the query; the client identifies itself via headers, never here.
func normalizeDynamicKeyURL(keyURL string) (string, error) {
	if strings.HasPrefix(keyURL, ssconfScheme) {
		keyURL = "https://" + strings.TrimPrefix(keyURL, ssconfScheme)
	}
	u, err := url.Parse(keyURL)
	if err != nil {
		return "", err
	}
	query := u.Query()
	query.Set("outline", "1")
	u.RawQuery = query.Encode()
	return u.String(), nil
}

// parseSessionConfig classifies the trimmed response body. An ss:// body is a
// static key; everything else must be server JSON in one of the known shapes.
func parseSessionConfig(body string) (SessionConfig, error) {
	text := strings.TrimSpace(body)
	if strings.HasPrefix(text, ssScheme) {
		return ParseShadowsocksKey(text)
	}
	config, err := parseServerJSON(text)
	if err != nil {
		// A provider-declared error is not a parse failure; pass it through.
		var providerErr *ProviderError
		if errors.As(err, &providerErr) {
			return nil, err
		}
		return nil, newInvalidKeyError("failed to parse fetched information", err)
	}
	return config, nil
}

func parseServerJSON(text string) (SessionConfig, error) {
	var root map[string]any
	if err := json.Unmarshal([]byte(text), &root); err != nil {
		return nil, err
	}
	if errValue, ok := root["error"]; ok {
		message := ""
		if errObject, ok := errValue.(map[string]any); ok {
			message, _ = errObject["message"].(string)
		}
		return nil, &ProviderError{Message: message}
	}
	if _, ok := root["method"]; ok {
		return parseShadowsocksServerJSON(root)
	}
	return parseVlessServerJSON(root)
}

// parseShadowsocksServerJSON translates {method, password, server,
// server_port, prefix?}. All missing required keys are reported together.
func parseShadowsocksServerJSON(root map[string]any) (*ShadowsocksSessionConfig, error) {
	var missing []string
	for _, field := range []string{"method", "password", "server", "server_port"} {
		if _, ok := root[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	method, ok := root["method"].(string)
	if !ok {
		return nil, errors.New("method must be a string")
	}
	password, ok := root["password"].(string)
	if !ok {
		return nil, errors.New("password must be a string")
	}
	host, ok := root["server"].(string)
	if !ok {
		return nil, errors.New("server must be a string")
	}
	port, err := coercePort(root["server_port"])
	if err != nil {
		return nil, err
	}
	config := &ShadowsocksSessionConfig{Host: host, Port: port, Method: method, Password: password}
	if prefixValue, ok := root["prefix"]; ok {
		prefixText, ok := prefixValue.(string)
		if !ok {
			return nil, errors.New("prefix must be a string")
		}
		config.Prefix, err = parseStringPrefix(prefixText)
		if err != nil {
			return nil, fmt.Errorf("failed to parse prefix: %w", err)
		}
	}
	return config, nil
}

func coercePort(value any) (uint16, error) {
	switch port := value.(type) {
	case float64:
		if port < 1 || port > 65535 || port != float64(int(port)) {
			return 0, fmt.Errorf("invalid server_port: %v", port)
		}
		return uint16(port), nil
	case string:
		return parsePort(port)
	default:
		return 0, fmt.Errorf("invalid server_port: %v", value)
	}
}

// parseVlessServerJSON translates a server-provided transport document. The
// remote host is taken from the first outbound's first vnext address, and the
// declared inbound port is overwritten with the local port before the
// document is re-serialized.
func parseVlessServerJSON(root map[string]any) (*VlessSessionConfig, error) {
	outbounds, ok := root["outbounds"].([]any)
	if !ok || len(outbounds) == 0 {
		return nil, errors.New("missing outbounds")
	}
	firstOutbound, ok := outbounds[0].(map[string]any)
	if !ok {
		return nil, errors.New("malformed outbound")
	}
	settings, ok := firstOutbound["settings"].(map[string]any)
	if !ok {
		return nil, errors.New("missing outbound settings")
	}
	vnextList, ok := settings["vnext"].([]any)
	if !ok || len(vnextList) == 0 {
		return nil, errors.New("missing vnext")
	}
	firstVnext, ok := vnextList[0].(map[string]any)
	if !ok {
		return nil, errors.New("malformed vnext entry")
	}
	host, ok := firstVnext["address"].(string)
	if !ok || host == "" {
		return nil, errors.New("missing vnext address")
	}
	inbounds, ok := root["inbounds"].([]any)
	if !ok || len(inbounds) == 0 {
		return nil, errors.New("missing inbounds")
	}
	firstInbound, ok := inbounds[0].(map[string]any)
	if !ok {
		return nil, errors.New("malformed inbound")
	}
	firstInbound["port"] = localProxyPort
	transport, err := json.Marshal(root)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize transport config: %w", err)
	}
	return &VlessSessionConfig{TransportConfig: string(transport), Host: host}, nil
}
