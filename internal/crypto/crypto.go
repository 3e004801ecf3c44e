// Package crypto encrypts provisioned credentials at rest.
//
// Database passwords and gateway keys are sealed with AES-256-GCM before
// they reach the store. The scope string (e.g. "key:42") is bound into the
// ciphertext as additional authenticated data, so a ciphertext copied onto
// another row fails to decrypt.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// Service seals and opens credential material with a process-wide key.
type Service struct {
	key []byte
}

// NewService derives the AES-256 key from the configured secret.
func NewService(secret string) (*Service, error) {
	if len(secret) < 32 {
		return nil, errors.New("crypto: secret must be at least 32 bytes")
	}

	sum := sha256.Sum256([]byte(secret))

	return &Service{key: sum[:]}, nil
}

// Encrypt seals plaintext for the given scope. Returns base64-encoded
// nonce+ciphertext.
func (s *Service) Encrypt(scope string, plaintext []byte) (string, error) {
	gcm, err := s.gcm()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("crypto: generate nonce: %w", err)
	}

	sealed := gcm.Seal(nonce, nonce, plaintext, []byte(scope))

	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a base64-encoded ciphertext (nonce prepended) for the given
// scope. Fails if the scope does not match the one used at encryption time.
func (s *Service) Decrypt(scope, ciphertext string) ([]byte, error) {
	gcm, err := s.gcm()
	if err != nil {
		return nil, err
	}

	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("crypto: base64 decode: %w", err)
	}

	if len(data) < gcm.NonceSize() {
		return nil, errors.New("crypto: ciphertext too short")
	}

	nonce, sealed := data[:gcm.NonceSize()], data[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, sealed, []byte(scope))
	if err != nil {
		return nil, fmt.Errorf("crypto: open: %w", err)
	}

	return plaintext, nil
}

func (s *Service) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, fmt.Errorf("crypto: new cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("crypto: new gcm: %w", err)
	}

	return gcm, nil
}
