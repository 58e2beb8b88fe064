package secretbox

import (
	"encoding/base64"
	"testing"
)

func TestProtectUnprotectRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "api key", value: "sk-or-v1-abcdef0123456789"},
		{name: "empty", value: ""},
		{name: "unicode", value: "ключ-🔑"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob, ok := Protect(tt.value)
			if !ok {
				t.Fatal("Protect() ok = false")
			}
			got, ok := Unprotect(blob)
			if !ok {
				t.Fatal("Unprotect() ok = false")
			}
			if got != tt.value {
				t.Errorf("round trip = %q, want %q", got, tt.value)
			}
		})
	}
}

func TestProtectNonceIsFresh(t *testing.T) {
	a, ok := Protect("same value")
	if !ok {
		t.Fatal("Protect() ok = false")
	}
	b, ok := Protect("same value")
	if !ok {
		t.Fatal("Protect() ok = false")
	}
	if a == b {
		t.Error("two seals of the same value produced identical blobs")
	}
}

func TestUnprotectRejectsCorruptedBlob(t *testing.T) {
	blob, ok := Protect("secret")
	if !ok {
		t.Fatal("Protect() ok = false")
	}
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	raw[len(raw)-1] ^= 0xff
	tampered := base64.StdEncoding.EncodeToString(raw)

	if got, ok := Unprotect(tampered); ok {
		t.Errorf("Unprotect(tampered) = %q, ok = true; want ok = false", got)
	}
}

func TestUnprotectRejectsGarbage(t *testing.T) {
	for _, blob := range []string{"not base64 at all!!!", "aGVsbG8=", ""} {
		if got, ok := Unprotect(blob); ok {
			t.Errorf("Unprotect(%q) = %q, ok = true; want ok = false", blob, got)
		}
	}
}
