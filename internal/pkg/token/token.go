// Package token issues and verifies the signed bearer tokens that prove a
// caller's identity. Tokens are HS256 JWTs whose payload carries only the
// user id; expiry is the sole lifetime bound (no revocation list).
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL matches the reference expiry of 100 hours.
const DefaultTTL = 100 * time.Hour

// ErrInvalidToken covers every verification failure: bad signature, wrong
// algorithm, tampered payload, expiry. Callers must not distinguish them.
var ErrInvalidToken = errors.New("invalid token")

// Service signs and verifies identity tokens with a shared secret.
type Service struct {
	secret []byte
	ttl    time.Duration
}

func NewService(secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{secret: []byte(secret), ttl: ttl}
}

// Issue returns a signed token embedding {"user":{"id":userID}} with the
// configured expiry horizon. A signing error means the service is
// misconfigured, not that the request is bad.
func (s *Service) Issue(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user": map[string]any{"id": userID},
		"exp":  time.Now().Add(s.ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify checks signature and expiry and returns the embedded user id.
// Any failure yields ErrInvalidToken.
func (s *Service) Verify(tok string) (string, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	user, ok := claims["user"].(map[string]any)
	if !ok {
		return "", ErrInvalidToken
	}
	id, ok := user["id"].(string)
	if !ok || id == "" {
		return "", ErrInvalidToken
	}
	return id, nil
}
