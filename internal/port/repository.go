package port

import (
	"context"

	"github.com/google/uuid"

	"seacrew/internal/domain"
)

// CrewMemberRepository defines the contract for crew member persistence.
type CrewMemberRepository interface {
	Create(ctx context.Context, member *domain.CrewMember) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CrewMember, error)
}

// DocumentRecordRepository defines the contract for document record persistence.
type DocumentRecordRepository interface {
	Create(ctx context.Context, record *domain.DocumentRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DocumentRecord, error)
	ListByHolder(ctx context.Context, crewMemberID uuid.UUID) ([]domain.DocumentRecord, error)
	// Update persists the mutable fields of an accepted re-verification.
	Update(ctx context.Context, record *domain.DocumentRecord) error
}

// ScanAttemptRepository defines the contract for scan history persistence.
// History is append-only; the only mutation of an existing row is supersession.
type ScanAttemptRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ScanAttempt, error)
	// GetActive returns the unsuperseded attempt for a document or domain.ErrScanAttemptNotFound.
	GetActive(ctx context.Context, documentID uuid.UUID) (*domain.ScanAttempt, error)
	// Supersede inserts attempt as the active row and retires expectedActiveID in one step.
	// A nil expectedActiveID asserts the document has no active attempt.
	// It fails with domain.ErrConcurrentSupersession when the active row has moved.
	Supersede(ctx context.Context, attempt *domain.ScanAttempt, expectedActiveID *uuid.UUID) error
	// ListByDocument returns attempts newest first together with the total count.
	ListByDocument(ctx context.Context, documentID uuid.UUID, offset, limit int) ([]domain.ScanAttempt, int, error)
	// ListActive returns active attempts across all documents, oldest first.
	ListActive(ctx context.Context, offset, limit int) ([]domain.ScanAttempt, error)
}
