package crypto_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/keyfleet/keyfleet/internal/crypto"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newService(t *testing.T, secret string) *crypto.Service {
	t.Helper()

	svc, err := crypto.NewService(secret)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestEncryptDecryptRoundtrip(t *testing.T) {
	svc := newService(t, testSecret)
	plaintext := []byte("provisioned-db-password")

	encrypted, err := svc.Encrypt("key:42", plaintext)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	if encrypted == string(plaintext) {
		t.Fatal("ciphertext should differ from plaintext")
	}

	decrypted, err := svc.Decrypt("key:42", encrypted)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}

	if !bytes.Equal(decrypted, plaintext) {
		t.Fatalf("got %q, want %q", decrypted, plaintext)
	}
}

func TestEncryptProducesDifferentCiphertexts(t *testing.T) {
	svc := newService(t, testSecret)

	a, _ := svc.Encrypt("key:1", []byte("same"))
	b, _ := svc.Encrypt("key:1", []byte("same"))

	if a == b {
		t.Fatal("two encryptions of same plaintext should differ (random nonce)")
	}
}

func TestDecryptWrongScope(t *testing.T) {
	svc := newService(t, testSecret)

	encrypted, err := svc.Encrypt("key:1", []byte("secret"))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	if _, err := svc.Decrypt("key:2", encrypted); err == nil {
		t.Fatal("expected error decrypting under a different scope")
	}
}

func TestDecryptWrongKey(t *testing.T) {
	encrypted, err := newService(t, testSecret).Encrypt("key:1", []byte("secret"))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	other := newService(t, strings.Repeat("z", 32))
	if _, err := other.Decrypt("key:1", encrypted); err == nil {
		t.Fatal("expected error decrypting with wrong key")
	}
}

func TestNewService_RejectsShortSecret(t *testing.T) {
	if _, err := crypto.NewService("short"); err == nil {
		t.Fatal("expected error for short secret")
	}
}
