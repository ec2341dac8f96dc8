// Copyright 2024 The Outline Authors
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

package shadowsocks

import (
	"testing"

	"github.com/shadowsocks/go-shadowsocks2/core"
	"github.com/shadowsocks/go-shadowsocks2/shadowaead"
	"github.com/stretchr/testify/require"
)

// A key derived from an access key's method and password must produce the same
// session AEAD as go-shadowsocks2, or resolved keys would not interoperate.
func TestCompatibility(t *testing.T) {
	cipherName := "chacha20-ietf-poly1305"
	secret := "secret"
	plaintext := "payload"

	key, err := NewEncryptionKey(cipherName, secret)
	require.Nil(t, err, "NewEncryptionKey failed: %v", err)
	salt := make([]byte, key.SaltSize())

	otherCipher, err := core.PickCipher(cipherName, []byte{}, secret)
	require.Nil(t, err)
	encrypter, err := otherCipher.(shadowaead.Cipher).Encrypter(salt)
	require.Nil(t, err)
	sealed := encrypter.Seal(nil, make([]byte, encrypter.NonceSize()), []byte(plaintext), nil)

	aead, err := key.NewAEAD(salt)
	require.Nil(t, err)
	opened, err := aead.Open(nil, make([]byte, aead.NonceSize()), sealed, nil)
	require.Nil(t, err, "Open failed: %v", err)
	require.Equal(t, plaintext, string(opened))
}
