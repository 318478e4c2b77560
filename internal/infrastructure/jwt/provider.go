package jwtinfra

import (
	"errors"
	"fmt"
	"time"

	"github.com/agency-api/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

// Claims holds the session token payload fields.
type Claims struct {
	AgentID string `json:"agent_id"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 session tokens. Validity is entirely
// determined by signature and expiry; there is no server-side session table.
type Provider struct {
	secret []byte
	expiry time.Duration
}

// NewProvider builds a Provider from configuration. An empty signing secret
// is a hard error, not a fallback: running with a known default would make
// every deployment's tokens forgeable.
func NewProvider(cfg *config.Config) (*Provider, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	days := cfg.SessionExpiryDays
	if days <= 0 {
		days = 7
	}
	return &Provider{
		secret: []byte(cfg.JWTSecret),
		expiry: time.Duration(days) * 24 * time.Hour,
	}, nil
}

// Expiry returns the configured session token lifetime.
func (p *Provider) Expiry() time.Duration { return p.expiry }

func (p *Provider) Sign(agentID, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		AgentID: agentID,
		Email:   email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   agentID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// Verify validates signature and expiry and returns the decoded claims.
// Callers must treat any error as "not authenticated", never as fatal.
func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
