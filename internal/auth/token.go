package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
)

// Length of the random part of a bearer token before encoding.
const tokenBytes = 32

var ErrInvalidToken = errors.New("invalid token")

// Manager mints and hashes opaque bearer tokens. The raw value is handed to
// the client exactly once; only the derived hash ever reaches storage, so a
// database read alone cannot be replayed as a credential.
type Manager struct {
	secret []byte
}

func NewManager(secret string) *Manager {
	return &Manager{secret: []byte(secret)}
}

// GenerateToken returns a fresh random bearer token.
func (m *Manager) GenerateToken() (string, error) {
	buf := make([]byte, tokenBytes)

	_, err := rand.Read(buf)

	if err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Deterministic HMAC hash (server-side pepper = token secret bytes).
// Store this in DB (never store the raw token).
func (m *Manager) HashToken(raw string) string {
	h := hmac.New(sha256.New, m.secret)
	h.Write([]byte(raw))
	return hex.EncodeToString(h.Sum(nil))
}
