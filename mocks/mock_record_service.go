package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"seacrew/internal/domain"
	"seacrew/internal/service"
)

// MockRecordService is a mock implementation of service.RecordService.
type MockRecordService struct {
	mock.Mock
}

func (m *MockRecordService) CreateCrewMember(ctx context.Context, input *service.CreateCrewMemberInput) (*domain.CrewMember, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CrewMember), args.Error(1)
}

func (m *MockRecordService) GetCrewMember(ctx context.Context, id uuid.UUID) (*domain.CrewMember, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CrewMember), args.Error(1)
}

func (m *MockRecordService) CreateDocument(ctx context.Context, input *service.CreateDocumentInput) (*domain.DocumentRecord, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentRecord), args.Error(1)
}

func (m *MockRecordService) GetDocument(ctx context.Context, id uuid.UUID) (*domain.DocumentRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentRecord), args.Error(1)
}

func (m *MockRecordService) ListDocuments(ctx context.Context, crewMemberID uuid.UUID) ([]domain.DocumentRecord, error) {
	args := m.Called(ctx, crewMemberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DocumentRecord), args.Error(1)
}
