package oauthstate

import (
	"crypto/hmac"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName holds the state mirror cookie set alongside the authorize
// redirect (double-submit pattern).
const CookieName = "oauth_state"

const stateTTL = 10 * time.Minute

// Issuer mints and verifies the OAuth2 `state` parameter as a short-lived
// signed token. The same value travels as the state query parameter and as a
// browser cookie; the callback accepts it only when both match and the
// signature is valid and unexpired.
type Issuer struct {
	secret []byte
}

// NewIssuer creates an Issuer. With an empty secret a random process-lifetime
// key is generated, which is enough for CSRF state since tokens only need to
// survive one login round-trip on one instance.
func NewIssuer(secret string) *Issuer {
	if secret == "" {
		b := make([]byte, 32)
		_, _ = rand.Read(b)
		secret = hex.EncodeToString(b)
	}
	return &Issuer{secret: []byte(secret)}
}

// Issue returns a signed state token carrying a random nonce.
func (i *Issuer) Issue() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	claims := jwt.MapClaims{
		"nonce": hex.EncodeToString(b),
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(stateTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify checks the state parameter against the mirror cookie.
func (i *Issuer) Verify(param, cookie string) error {
	if param == "" || cookie == "" {
		return fmt.Errorf("state missing")
	}
	if !hmac.Equal([]byte(param), []byte(cookie)) {
		return fmt.Errorf("state mismatch")
	}
	tok, err := jwt.Parse(param, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return fmt.Errorf("state invalid: %w", err)
	}
	if !tok.Valid {
		return fmt.Errorf("state invalid")
	}
	return nil
}
