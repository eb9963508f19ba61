package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
)

// SessionSecretSize is the number of random bytes behind a session secret.
const SessionSecretSize = 32

var encoding = base64.RawURLEncoding

// SessionSecret is a freshly drawn session credential. Secret goes to the
// client inside the signed cookie; only Fingerprint is persisted.
type SessionSecret struct {
	Secret      string
	Fingerprint string
}

// NewSessionSecret draws SessionSecretSize bytes from crypto/rand.
func NewSessionSecret() (SessionSecret, error) {
	var raw [SessionSecretSize]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return SessionSecret{}, err
	}

	secret := encoding.EncodeToString(raw[:])
	return SessionSecret{Secret: secret, Fingerprint: Fingerprint(secret)}, nil
}

// Fingerprint is the lookup key for a secret presented by a client.
func Fingerprint(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return encoding.EncodeToString(sum[:])
}
