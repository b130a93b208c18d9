// Package jwt verifies the HS256 bearer tokens the crew-management application
// issues to its operators, and issues them for local tooling.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"seacrew/internal/config"
	"seacrew/internal/domain"
)

const accessAudience = "access"

// Claims represents the JWT claims carried by an operator token.
type Claims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID       `json:"user_id"`
	Email  string          `json:"email"`
	Role   domain.UserRole `json:"role"`
}

// Verifier implements port.TokenVerifier.
type Verifier struct {
	secret []byte
	issuer string
	expiry time.Duration
	now    func() time.Time
}

// NewVerifier creates a Verifier from the JWT config.
func NewVerifier(cfg config.JWTConfig) *Verifier {
	expiry := cfg.Expiry
	if expiry <= 0 {
		expiry = 12 * time.Hour
	}
	return &Verifier{secret: []byte(cfg.Secret), issuer: cfg.Issuer, expiry: expiry, now: time.Now}
}

// Verify validates the signature, issuer, audience and expiry of a token.
func (v *Verifier) Verify(tokenString string) (*domain.Principal, error) {
	claims := &Claims{}
	opts := []jwt.ParserOption{
		jwt.WithAudience(accessAudience),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if !token.Valid || claims.UserID == uuid.Nil {
		return nil, domain.ErrUnauthorized
	}
	if !validRole(claims.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrUnauthorized, claims.Role)
	}
	return &domain.Principal{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}, nil
}

// Issue signs a token for principal. It is used by operator tooling and tests;
// production tokens come from the surrounding application.
func (v *Verifier) Issue(p domain.Principal) (string, error) {
	if p.UserID == uuid.Nil {
		return "", errors.New("issuing token: principal has no user id")
	}
	now := v.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID.String(),
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(v.expiry)),
			Audience:  jwt.ClaimStrings{accessAudience},
			ID:        uuid.New().String(),
		},
		UserID: p.UserID,
		Email:  p.Email,
		Role:   p.Role,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// WithClock replaces the verifier's time source.
func (v *Verifier) WithClock(now func() time.Time) *Verifier {
	v.now = now
	return v
}

func validRole(r domain.UserRole) bool {
	switch r {
	case domain.RoleAdmin, domain.RoleOperator, domain.RoleViewer:
		return true
	}
	return false
}
