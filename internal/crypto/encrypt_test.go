package crypto

import "testing"

func TestEncrypt_DisabledReturnsPlaintext(t *testing.T) {
	masterKey = nil
	got, err := Encrypt("secret-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "secret-token" {
		t.Fatalf("expected passthrough when disabled, got %q", got)
	}
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	masterKey = []byte("01234567890123456789012345678901"[:32])
	defer func() { masterKey = nil }()

	ciphertext, err := Encrypt("super-secret-webhook-url")
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	if ciphertext == "super-secret-webhook-url" {
		t.Fatalf("expected ciphertext to differ from plaintext")
	}

	plaintext, err := Decrypt(ciphertext)
	if err != nil {
		t.Fatalf("decrypt failed: %v", err)
	}
	if plaintext != "super-secret-webhook-url" {
		t.Fatalf("expected round-tripped plaintext, got %q", plaintext)
	}
}

func TestDecrypt_NonHexInputPassesThrough(t *testing.T) {
	masterKey = []byte("01234567890123456789012345678901"[:32])
	defer func() { masterKey = nil }()

	got, err := Decrypt("not-hex-encoded")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "not-hex-encoded" {
		t.Fatalf("expected passthrough for non-hex input, got %q", got)
	}
}
