package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"seacrew/internal/domain"
	"seacrew/internal/service"
)

// MockVerificationService is a mock implementation of service.VerificationService.
type MockVerificationService struct {
	mock.Mock
}

func (m *MockVerificationService) VerifyDocument(ctx context.Context, input *service.VerifyInput) (*service.VerifyResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.VerifyResult), args.Error(1)
}

func (m *MockVerificationService) ListScans(ctx context.Context, documentID uuid.UUID, offset, limit int) ([]domain.ScanAttempt, int, error) {
	args := m.Called(ctx, documentID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ScanAttempt), args.Int(1), args.Error(2)
}

func (m *MockVerificationService) GetActiveScan(ctx context.Context, documentID uuid.UUID) (*service.ActiveScan, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ActiveScan), args.Error(1)
}

func (m *MockVerificationService) ExportScans(ctx context.Context, documentID uuid.UUID) ([]domain.ScanAttempt, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ScanAttempt), args.Error(1)
}
