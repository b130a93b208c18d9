package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"seacrew/internal/domain"
	"seacrew/internal/port"
)

type documentRecordRepo struct {
	s *Store
}

// NewDocumentRecordRepo creates a DocumentRecordRepository backed by s.
func NewDocumentRecordRepo(s *Store) port.DocumentRecordRepository {
	return &documentRecordRepo{s: s}
}

func (r *documentRecordRepo) Create(_ context.Context, record *domain.DocumentRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.records[record.ID]; exists {
		return fmt.Errorf("documentRecordRepo.Create: duplicate id %s", record.ID)
	}
	if _, ok := r.s.members[record.HolderCrewMemberID]; !ok {
		return domain.ErrCrewMemberNotFound
	}
	r.s.records[record.ID] = *record
	return nil
}

func (r *documentRecordRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.DocumentRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.records[id]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	return &rec, nil
}

func (r *documentRecordRepo) ListByHolder(_ context.Context, crewMemberID uuid.UUID) ([]domain.DocumentRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.DocumentRecord{}
	for _, rec := range r.s.records {
		if rec.HolderCrewMemberID == crewMemberID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *documentRecordRepo) Update(_ context.Context, record *domain.DocumentRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.records[record.ID]
	if !ok {
		return domain.ErrDocumentNotFound
	}
	existing.DocumentNumber = record.DocumentNumber
	existing.IssuingAuthority = record.IssuingAuthority
	existing.IssueDate = record.IssueDate
	existing.ExpiryDate = record.ExpiryDate
	existing.LastScanID = record.LastScanID
	existing.LastVerifiedAt = record.LastVerifiedAt
	existing.UpdatedAt = record.UpdatedAt
	if record.LastVerifiedAt != nil {
		existing.UpdatedAt = *record.LastVerifiedAt
	}
	r.s.records[record.ID] = existing
	return nil
}
