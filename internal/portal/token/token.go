// Package token inspects the opaque bearer credential issued by the
// authentication service. The client never verifies the signature; it only
// reads the expiration claim to decide whether the credential is still worth
// presenting. A token that cannot be decoded is treated as expired.
package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformed reports a token that is not a structurally valid compact JWT
// (not exactly three dot-separated segments, or an undecodable claims
// segment). It is internal flow control: callers treat it as "expired",
// never as a user-facing failure.
var ErrMalformed = errors.New("malformed token")

// Claims are the decoded, unverified claims of a token.
type Claims struct {
	registered jwt.RegisteredClaims
}

// ExpiresAt returns the absolute expiration instant. ok is false when the
// exp claim is absent or zero, which means the token never expires.
func (c Claims) ExpiresAt() (time.Time, bool) {
	// exp absent or 0 is the service's way of issuing a non-expiring token
	if c.registered.ExpiresAt == nil || c.registered.ExpiresAt.Unix() <= 0 {
		return time.Time{}, false
	}
	return c.registered.ExpiresAt.Time, true
}

// Decode parses the claims segment of raw without verifying the signature.
// Returns ErrMalformed for anything that is not three dot-separated segments
// or whose claims segment does not decode.
func Decode(raw string) (Claims, error) {
	if strings.Count(raw, ".") != 2 {
		return Claims{}, ErrMalformed
	}

	var rc jwt.RegisteredClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, &rc); err != nil {
		return Claims{}, ErrMalformed
	}
	return Claims{registered: rc}, nil
}

// Expired reports whether raw should no longer be presented at instant now.
// True when raw is empty, malformed, or its exp claim is not strictly in the
// future (exp equal to now counts as expired). A token without an exp claim
// never expires.
func Expired(raw string, now time.Time) bool {
	if raw == "" {
		return true
	}
	claims, err := Decode(raw)
	if err != nil {
		return true
	}
	exp, ok := claims.ExpiresAt()
	if !ok {
		return false
	}
	return !now.Before(exp)
}

// ExpirationTime returns the absolute expiration instant of raw. ok is false
// when the token is absent, malformed, or non-expiring.
func ExpirationTime(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	claims, err := Decode(raw)
	if err != nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt()
}
