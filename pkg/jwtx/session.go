// Package jwtx signs and verifies the HS256 JWTs that carry a login session
// in the browser cookie.
package jwtx

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrEmptySecret  = errors.New("jwtx: empty signing secret")
	ErrInvalidToken = errors.New("jwtx: invalid token")
)

// SessionClaims identifies a user and the server-side session backing the
// token. SessionID is the raw session secret; the store only keeps its
// fingerprint.
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// UserID parses the numeric subject.
func (c SessionClaims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: bad subject %q", ErrInvalidToken, c.Subject)
	}
	return id, nil
}

// HMAC signs and verifies session tokens with a shared secret.
type HMAC struct {
	secret []byte
	issuer string
	parser *jwt.Parser
}

func NewHMAC(secret, issuer string) (*HMAC, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &HMAC{
		secret: []byte(secret),
		issuer: issuer,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
		),
	}, nil
}

// Sign issues a token for userID bound to sessionID that expires at expiresAt.
func (h *HMAC) Sign(userID int64, sessionID string, issuedAt, expiresAt time.Time) (string, error) {
	claims := SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    h.issuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.secret)
}

// Verify checks signature, issuer and expiry and returns the claims.
func (h *HMAC) Verify(raw string) (SessionClaims, error) {
	var claims SessionClaims
	_, err := h.parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return h.secret, nil
	})
	if err != nil {
		return SessionClaims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.SessionID == "" {
		return SessionClaims{}, fmt.Errorf("%w: missing sid", ErrInvalidToken)
	}
	return claims, nil
}
