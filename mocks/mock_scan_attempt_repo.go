package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"seacrew/internal/domain"
)

// MockScanAttemptRepo is a mock implementation of port.ScanAttemptRepository.
type MockScanAttemptRepo struct {
	mock.Mock
}

func (m *MockScanAttemptRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ScanAttempt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScanAttempt), args.Error(1)
}

func (m *MockScanAttemptRepo) GetActive(ctx context.Context, documentID uuid.UUID) (*domain.ScanAttempt, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScanAttempt), args.Error(1)
}

func (m *MockScanAttemptRepo) Supersede(ctx context.Context, attempt *domain.ScanAttempt, expectedActiveID *uuid.UUID) error {
	args := m.Called(ctx, attempt, expectedActiveID)
	return args.Error(0)
}

func (m *MockScanAttemptRepo) ListByDocument(ctx context.Context, documentID uuid.UUID, offset, limit int) ([]domain.ScanAttempt, int, error) {
	args := m.Called(ctx, documentID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ScanAttempt), args.Int(1), args.Error(2)
}

func (m *MockScanAttemptRepo) ListActive(ctx context.Context, offset, limit int) ([]domain.ScanAttempt, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ScanAttempt), args.Error(1)
}
