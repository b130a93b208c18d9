package jwt_test

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authjwt "seacrew/internal/auth/jwt"
	"seacrew/internal/config"
	"seacrew/internal/domain"
)

func newVerifier() *authjwt.Verifier {
	return authjwt.NewVerifier(config.JWTConfig{Secret: "test-secret", Issuer: "seacrew", Expiry: time.Hour})
}

func TestVerifier_RoundTrip(t *testing.T) {
	v := newVerifier()
	userID := uuid.New()

	token, err := v.Issue(domain.Principal{UserID: userID, Email: "ops@example.com", Role: domain.RoleOperator})
	require.NoError(t, err)

	p, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, p.UserID)
	assert.Equal(t, "ops@example.com", p.Email)
	assert.Equal(t, domain.RoleOperator, p.Role)
}

func TestVerifier_Expired(t *testing.T) {
	issuedAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	issuer := newVerifier().WithClock(func() time.Time { return issuedAt })
	token, err := issuer.Issue(domain.Principal{UserID: uuid.New(), Role: domain.RoleViewer})
	require.NoError(t, err)

	later := newVerifier().WithClock(func() time.Time { return issuedAt.Add(2 * time.Hour) })
	_, err = later.Verify(token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestVerifier_WrongSecret(t *testing.T) {
	token, err := newVerifier().Issue(domain.Principal{UserID: uuid.New(), Role: domain.RoleAdmin})
	require.NoError(t, err)

	other := authjwt.NewVerifier(config.JWTConfig{Secret: "other", Issuer: "seacrew"})
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestVerifier_RejectsForeignClaims(t *testing.T) {
	sign := func(claims authjwt.Claims) string {
		s, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		return s
	}
	base := gojwt.RegisteredClaims{
		Issuer:    "seacrew",
		Audience:  gojwt.ClaimStrings{"access"},
		ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
	}

	refresh := base
	refresh.Audience = gojwt.ClaimStrings{"refresh"}
	otherIssuer := base
	otherIssuer.Issuer = "someone-else"

	tests := []struct {
		name   string
		claims authjwt.Claims
	}{
		{"refresh audience", authjwt.Claims{RegisteredClaims: refresh, UserID: uuid.New(), Role: domain.RoleAdmin}},
		{"other issuer", authjwt.Claims{RegisteredClaims: otherIssuer, UserID: uuid.New(), Role: domain.RoleAdmin}},
		{"missing user", authjwt.Claims{RegisteredClaims: base, Role: domain.RoleAdmin}},
		{"unknown role", authjwt.Claims{RegisteredClaims: base, UserID: uuid.New(), Role: "captain"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newVerifier().Verify(sign(tt.claims))
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
		})
	}
}

func TestVerifier_Garbage(t *testing.T) {
	_, err := newVerifier().Verify("not-a-token")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
