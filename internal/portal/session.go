package portal

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrOpaqueToken is returned by Session.Claims when the token is not a JWT.
var ErrOpaqueToken = errors.New("token is not a jwt")

// Session holds the bearer credential returned at registration.
type Session struct {
	Token string
}

// Claims is the subset of token claims useful for diagnostics.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Claims decodes the token without verifying its signature. The portal
// treats tokens as opaque, so a failure here is informational only.
func (s Session) Claims() (Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, mc); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrOpaqueToken, err)
	}

	var c Claims
	if sub, err := mc.GetSubject(); err == nil && sub != "" {
		c.Subject = sub
	} else {
		c.Subject = stringClaim(mc, "userId", "id", "email")
	}
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		c.IssuedAt = iat.Time
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}

	return c, nil
}

// stringClaim returns the first of keys present in mc, formatted as text.
func stringClaim(mc jwt.MapClaims, keys ...string) string {
	for _, k := range keys {
		v, ok := mc[k]
		if !ok || v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprint(v)
	}
	return ""
}
