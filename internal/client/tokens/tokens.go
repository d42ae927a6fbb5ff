// Package tokens inspects bearer tokens on the client side. The client never
// holds the signing key, so nothing here verifies signatures; it only reads
// the expiry a JWT declares about itself.
package tokens

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Expired reports whether token is a JWT whose exp claim lies at or before
// now. Opaque tokens and JWTs without exp are never considered expired.
func Expired(token string, now time.Time) bool {
	if strings.Count(token, ".") != 2 {
		return false
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}
