package crypto

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	cases := []string{
		`{"itemid":1001,"score":100}`,
		`{"userName":"张三","complete":1}`,
		"",
		"exactly8",
	}
	for _, text := range cases {
		ct, err := EncryptSyncBody(text)
		if err != nil {
			t.Fatalf("EncryptSyncBody(%q): %v", text, err)
		}
		got, err := DecryptSyncBody(ct)
		if err != nil {
			t.Fatalf("DecryptSyncBody: %v", err)
		}
		if got != text {
			t.Fatalf("round-trip mismatch: got %q, want %q", got, text)
		}
	}
}

func TestCiphertextIsBlockAligned(t *testing.T) {
	ct, err := EncryptSyncBody(`{"a":1}`)
	if err != nil {
		t.Fatalf("EncryptSyncBody: %v", err)
	}
	raw, err := base64.StdEncoding.DecodeString(ct)
	if err != nil {
		t.Fatalf("ciphertext is not valid base64: %v", err)
	}
	if len(raw)%8 != 0 {
		t.Fatalf("ciphertext length %d is not a multiple of the DES block size", len(raw))
	}
}

func TestEncodePayloadStripsSpaces(t *testing.T) {
	payload := map[string]any{"userName": "John Smith", "score": 100}
	ct, err := EncodePayload(payload)
	if err != nil {
		t.Fatalf("EncodePayload: %v", err)
	}
	plain, err := DecryptSyncBody(ct)
	if err != nil {
		t.Fatalf("DecryptSyncBody: %v", err)
	}
	if strings.Contains(plain, " ") {
		t.Fatalf("encoded payload still contains spaces: %q", plain)
	}
	if !strings.Contains(plain, `"userName":"JohnSmith"`) {
		t.Fatalf("space stripping must apply inside string values, got %q", plain)
	}
}

func TestDecryptRejectsGarbage(t *testing.T) {
	if _, err := DecryptSyncBody("not base64!!"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
	// Valid base64 but not block-aligned.
	if _, err := DecryptSyncBody(base64.StdEncoding.EncodeToString([]byte("abc"))); err == nil {
		t.Fatal("expected error for non-block-aligned ciphertext")
	}
}
