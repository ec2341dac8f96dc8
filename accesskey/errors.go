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

import "fmt"

// InvalidAccessKeyError reports an access key, or a fetched session config
// body, that is structurally malformed or missing required fields.
type InvalidAccessKeyError struct {
	Message string
	Cause   error
}

func (e *InvalidAccessKeyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid access key: %v: %v", e.Message, e.Cause)
	}
	return "invalid access key: " + e.Message
}

func (e *InvalidAccessKeyError) Unwrap() error {
	return e.Cause
}

func newInvalidKeyError(message string, cause error) error {
	return &InvalidAccessKeyError{Message: message, Cause: cause}
}

// FetchConfigError reports that the request for a dynamic key's session
// config could not be completed. The request is never retried.
type FetchConfigError struct {
	Cause error
}

func (e *FetchConfigError) Error() string {
	return fmt.Sprintf("failed to fetch session config: %v", e.Cause)
}

func (e *FetchConfigError) Unwrap() error {
	return e.Cause
}

// ProviderError carries an error condition the key's service provider
// declared in its response. The message is the server's, verbatim.
type ProviderError struct {
	Message string
}

func (e *ProviderError) Error() string {
	return e.Message
}
