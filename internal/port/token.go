package port

import "seacrew/internal/domain"

// TokenVerifier validates bearer tokens issued to operators.
type TokenVerifier interface {
	Verify(token string) (*domain.Principal, error)
}
