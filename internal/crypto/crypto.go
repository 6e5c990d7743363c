// Package crypto implements the progress-sync body codec: UTF-8 JSON with
// spaces stripped, DES-ECB encrypted under the platform's fixed 8-byte key
// with PKCS#7 block padding, then base64-encoded. The ciphertext is sent as
// the raw POST body, so the byte layout here must match the platform exactly.
package crypto

import (
	"bytes"
	"crypto/des"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// syncKey is the fixed key the platform uses for the personal/sync endpoint.
var syncKey = []byte("12345678")

// EncryptSyncBody encrypts a space-stripped JSON string into the base64
// ciphertext the sync endpoint accepts.
func EncryptSyncBody(text string) (string, error) {
	block, err := des.NewCipher(syncKey)
	if err != nil {
		return "", fmt.Errorf("des cipher: %w", err)
	}

	data := pad([]byte(text), block.BlockSize())
	out := make([]byte, len(data))
	for i := 0; i < len(data); i += block.BlockSize() {
		block.Encrypt(out[i:], data[i:])
	}

	return base64.StdEncoding.EncodeToString(out), nil
}

// DecryptSyncBody reverses EncryptSyncBody. It exists for diagnostics: the
// decrypt command uses it to inspect captured sync bodies.
func DecryptSyncBody(text string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return "", fmt.Errorf("base64 decode: %w", err)
	}

	block, err := des.NewCipher(syncKey)
	if err != nil {
		return "", fmt.Errorf("des cipher: %w", err)
	}
	if len(data) == 0 || len(data)%block.BlockSize() != 0 {
		return "", errors.New("ciphertext is not a whole number of blocks")
	}

	out := make([]byte, len(data))
	for i := 0; i < len(data); i += block.BlockSize() {
		block.Decrypt(out[i:], data[i:])
	}

	out, err = unpad(out, block.BlockSize())
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// EncodePayload marshals v, strips every space character (the platform
// strips spaces before encrypting, including inside string values), and
// encrypts the result.
func EncodePayload(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	return EncryptSyncBody(strings.ReplaceAll(string(data), " ", ""))
}

// pad applies PKCS#7 padding up to blockSize.
func pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

// unpad strips PKCS#7 padding.
func unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("empty plaintext")
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, errors.New("invalid padding")
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, errors.New("invalid padding")
		}
	}
	return data[:len(data)-n], nil
}
