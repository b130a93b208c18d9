package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"seacrew/internal/domain"
	"seacrew/internal/port"
	"seacrew/internal/validator/crewdoc"
)

// CreateCrewMemberInput is the DTO for registering a crew member.
type CreateCrewMemberInput struct {
	FullName    string `json:"full_name" binding:"required"`
	Nationality string `json:"nationality"`
}

// CreateDocumentInput is the DTO for putting a document on file.
// Dates accept any format the date normalizer understands.
type CreateDocumentInput struct {
	HolderCrewMemberID uuid.UUID           `json:"holder_crew_member_id" binding:"required"`
	Type               domain.DocumentType `json:"type" binding:"required"`
	DocumentNumber     string              `json:"document_number"`
	IssuingAuthority   string              `json:"issuing_authority"`
	IssueDate          string              `json:"issue_date"`
	ExpiryDate         string              `json:"expiry_date"`
}

// RecordService defines the document-on-file management contract.
type RecordService interface {
	CreateCrewMember(ctx context.Context, input *CreateCrewMemberInput) (*domain.CrewMember, error)
	GetCrewMember(ctx context.Context, id uuid.UUID) (*domain.CrewMember, error)
	CreateDocument(ctx context.Context, input *CreateDocumentInput) (*domain.DocumentRecord, error)
	GetDocument(ctx context.Context, id uuid.UUID) (*domain.DocumentRecord, error)
	ListDocuments(ctx context.Context, crewMemberID uuid.UUID) ([]domain.DocumentRecord, error)
}

type recordService struct {
	crewRepo   port.CrewMemberRepository
	recordRepo port.DocumentRecordRepository
}

// NewRecordService creates a new RecordService implementation.
func NewRecordService(crewRepo port.CrewMemberRepository, recordRepo port.DocumentRecordRepository) RecordService {
	return &recordService{crewRepo: crewRepo, recordRepo: recordRepo}
}

func (s *recordService) CreateCrewMember(ctx context.Context, input *CreateCrewMemberInput) (*domain.CrewMember, error) {
	name := strings.TrimSpace(input.FullName)
	if name == "" {
		return nil, fmt.Errorf("%w: full_name is required", domain.ErrInvalidInput)
	}
	now := time.Now().UTC()
	member := &domain.CrewMember{
		ID:          uuid.New(),
		FullName:    name,
		Nationality: strings.TrimSpace(input.Nationality),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.crewRepo.Create(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *recordService) GetCrewMember(ctx context.Context, id uuid.UUID) (*domain.CrewMember, error) {
	return s.crewRepo.GetByID(ctx, id)
}

func (s *recordService) CreateDocument(ctx context.Context, input *CreateDocumentInput) (*domain.DocumentRecord, error) {
	if !domain.ValidDocumentTypes[input.Type] {
		return nil, fmt.Errorf("%w: unknown document type %q", domain.ErrInvalidInput, input.Type)
	}
	if _, err := s.crewRepo.GetByID(ctx, input.HolderCrewMemberID); err != nil {
		return nil, err
	}
	issue, err := optionalDate("issue_date", input.IssueDate)
	if err != nil {
		return nil, err
	}
	expiry, err := optionalDate("expiry_date", input.ExpiryDate)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	record := &domain.DocumentRecord{
		ID:                 uuid.New(),
		Type:               input.Type,
		DocumentNumber:     crewdoc.CleanNumber(input.DocumentNumber),
		IssuingAuthority:   strings.TrimSpace(input.IssuingAuthority),
		IssueDate:          issue,
		ExpiryDate:         expiry,
		HolderCrewMemberID: input.HolderCrewMemberID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.recordRepo.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func optionalDate(field, raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	d, ok := crewdoc.ParseDate(raw)
	if !ok {
		return nil, fmt.Errorf("%w: %s %q is not a date", domain.ErrInvalidInput, field, raw)
	}
	return &d, nil
}

func (s *recordService) GetDocument(ctx context.Context, id uuid.UUID) (*domain.DocumentRecord, error) {
	return s.recordRepo.GetByID(ctx, id)
}

func (s *recordService) ListDocuments(ctx context.Context, crewMemberID uuid.UUID) ([]domain.DocumentRecord, error) {
	if _, err := s.crewRepo.GetByID(ctx, crewMemberID); err != nil {
		return nil, err
	}
	return s.recordRepo.ListByHolder(ctx, crewMemberID)
}
