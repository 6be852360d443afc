package crypto

import (
	"errors"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	enc, err := NewEncryptor(DeriveKeyFromSecret("test-secret"))
	if err != nil {
		t.Fatalf("new encryptor: %v", err)
	}

	ciphertext, err := enc.Encrypt("portal-password-123")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if ciphertext == "portal-password-123" || ciphertext == "" {
		t.Error("ciphertext should differ from plaintext")
	}

	plaintext, err := enc.Decrypt(ciphertext)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if plaintext != "portal-password-123" {
		t.Errorf("round trip = %q", plaintext)
	}
}

func TestEncryptEmptyString(t *testing.T) {
	enc, _ := NewEncryptor(DeriveKeyFromSecret("test-secret"))
	ciphertext, err := enc.Encrypt("")
	if err != nil || ciphertext != "" {
		t.Errorf("empty plaintext = %q, %v", ciphertext, err)
	}
}

func TestNewEncryptorRejectsShortKey(t *testing.T) {
	_, err := NewEncryptor([]byte("too short"))
	if !errors.Is(err, ErrInvalidKey) {
		t.Errorf("short key = %v, want ErrInvalidKey", err)
	}
}

func TestDecryptGarbage(t *testing.T) {
	enc, _ := NewEncryptor(DeriveKeyFromSecret("test-secret"))
	if _, err := enc.Decrypt("AAAA"); err == nil {
		t.Error("truncated ciphertext should fail")
	}
	if _, err := enc.Decrypt("not base64 !!!"); err == nil {
		t.Error("non-base64 input should fail")
	}
}

func TestDeriveKeyFromSecretStable(t *testing.T) {
	a := DeriveKeyFromSecret("secret")
	b := DeriveKeyFromSecret("secret")
	if string(a) != string(b) {
		t.Error("derivation should be deterministic")
	}
	if len(a) != 32 {
		t.Errorf("key length = %d, want 32", len(a))
	}
}
