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
	"runtime"
)

// PlatformInfo identifies the client platform. It exists so the one
// platform-specific behavior of the fetcher, the macOS User-Agent header,
// stays an injected capability instead of a scattered conditional.
type PlatformInfo interface {
	Name() string
	Version() string
}

// StaticPlatform is a [PlatformInfo] with fixed values.
type StaticPlatform struct {
	PlatformName    string
	PlatformVersion string
}

func (p StaticPlatform) Name() string    { return p.PlatformName }
func (p StaticPlatform) Version() string { return p.PlatformVersion }

// NativePlatform maps the running OS to the platform names used in the
// User-Agent header. The OS version is not known without platform bindings
// and is left empty; hosts that have it should inject their own PlatformInfo.
func NativePlatform() PlatformInfo {
	switch runtime.GOOS {
	case "darwin":
		return StaticPlatform{PlatformName: "macOS"}
	case "ios":
		return StaticPlatform{PlatformName: "iOS"}
	case "windows":
		return StaticPlatform{PlatformName: "Windows"}
	case "android":
		return StaticPlatform{PlatformName: "Android"}
	case "linux":
		return StaticPlatform{PlatformName: "Linux"}
	default:
		return StaticPlatform{PlatformName: runtime.GOOS}
	}
}

// StaticEnvironment is an [EnvironmentInfo] with a fixed application version.
type StaticEnvironment struct {
	Version string
}

func (e StaticEnvironment) AppVersion(ctx context.Context) (string, error) {
	return e.Version, nil
}
