package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"seacrew/internal/domain"
)

// MockCrewMemberRepo is a mock implementation of port.CrewMemberRepository.
type MockCrewMemberRepo struct {
	mock.Mock
}

func (m *MockCrewMemberRepo) Create(ctx context.Context, member *domain.CrewMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockCrewMemberRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.CrewMember, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CrewMember), args.Error(1)
}
