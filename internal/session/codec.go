package session

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/chacha20poly1305"
)

// Codec seals token values before they are written into cookies so the bearer
// credentials are opaque to anything reading the cookie jar. The key is
// derived from the configured secret.
type Codec struct {
	aead cipher.AEAD
}

func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, fmt.Errorf("cookie secret cannot be empty")
	}

	key := blake2b.Sum256([]byte(secret))
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cookie cipher: %w", err)
	}

	return &Codec{aead: aead}, nil
}

func (c *Codec) Seal(plain string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plain), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (c *Codec) Open(sealed string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("malformed cookie value: %w", err)
	}

	if len(raw) < c.aead.NonceSize() {
		return "", fmt.Errorf("cookie value too short")
	}

	nonce, ciphertext := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plain, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("cookie value failed authentication: %w", err)
	}

	return string(plain), nil
}
