package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"seacrew/internal/domain"
)

// MockDocumentRecordRepo is a mock implementation of port.DocumentRecordRepository.
type MockDocumentRecordRepo struct {
	mock.Mock
}

func (m *MockDocumentRecordRepo) Create(ctx context.Context, record *domain.DocumentRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockDocumentRecordRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.DocumentRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentRecord), args.Error(1)
}

func (m *MockDocumentRecordRepo) ListByHolder(ctx context.Context, crewMemberID uuid.UUID) ([]domain.DocumentRecord, error) {
	args := m.Called(ctx, crewMemberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DocumentRecord), args.Error(1)
}

func (m *MockDocumentRecordRepo) Update(ctx context.Context, record *domain.DocumentRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}
