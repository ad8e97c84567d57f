package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/meridianpress/meridian-backend/pkg/config"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// VisitorClaims is the typed JWT carried by the visitor cookie. It has no
// expiry: the token only names a browser profile, and the state it points at
// lives until the visitor clears it.
type VisitorClaims struct {
	VisitorID uuid.UUID `json:"visitor_id"`
	jwt.RegisteredClaims
}

// MintVisitorToken issues a signed token for the given visitor id.
func MintVisitorToken(cfg config.VisitorTokenConfig, now time.Time, visitorID uuid.UUID) (string, error) {
	if cfg.Secret == "" {
		return "", fmt.Errorf("visitor token secret is required")
	}
	if cfg.Issuer == "" {
		return "", fmt.Errorf("visitor token issuer is required")
	}
	if visitorID == uuid.Nil {
		return "", fmt.Errorf("visitor id is required")
	}

	claims := VisitorClaims{
		VisitorID: visitorID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   cfg.Issuer,
			IssuedAt: jwt.NewNumericDate(now),
			ID:       uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwtSigningMethod, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing visitor token: %w", err)
	}
	return signed, nil
}

// ParseVisitorToken validates the token string and returns typed claims.
func ParseVisitorToken(cfg config.VisitorTokenConfig, tokenString string) (*VisitorClaims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("visitor token secret is required")
	}

	claims := &VisitorClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
	)
	if err != nil {
		return nil, err
	}
	if claims.VisitorID == uuid.Nil {
		return nil, fmt.Errorf("visitor token missing visitor id")
	}

	return claims, nil
}
