package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotJWT is returned for bearer tokens that are not JWT-shaped
var ErrNotJWT = errors.New("token is not a JWT")

// TokenInfo holds the claims read from a backend bearer token
type TokenInfo struct {
	Subject   string     `json:"subject,omitempty"`
	Role      string     `json:"role,omitempty"`
	IssuedAt  *time.Time `json:"issued_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the token carries an expiry that is not after now
func (ti *TokenInfo) Expired(now time.Time) bool {
	return ti.ExpiresAt != nil && !now.Before(*ti.ExpiresAt)
}

// InspectToken reads the claims of a JWT without verifying its signature.
// The gateway does not hold the backend's key, so the result is informational only.
func InspectToken(tokenString string) (*TokenInfo, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotJWT, err)
	}

	info := &TokenInfo{}
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if info.Subject == "" {
		if id, ok := claims["user_id"]; ok {
			info.Subject = fmt.Sprint(id)
		}
	}
	if role, ok := claims["role"].(string); ok {
		info.Role = role
	}

	iat, err := claims.GetIssuedAt()
	if err != nil {
		return nil, fmt.Errorf("invalid iat claim: %w", err)
	}
	if iat != nil {
		t := iat.Time.UTC()
		info.IssuedAt = &t
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("invalid exp claim: %w", err)
	}
	if exp != nil {
		t := exp.Time.UTC()
		info.ExpiresAt = &t
	}

	return info, nil
}
