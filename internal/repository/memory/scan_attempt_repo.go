package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"seacrew/internal/domain"
	"seacrew/internal/port"
)

type scanAttemptRepo struct {
	s *Store
}

// NewScanAttemptRepo creates a ScanAttemptRepository backed by s.
func NewScanAttemptRepo(s *Store) port.ScanAttemptRepository {
	return &scanAttemptRepo{s: s}
}

func (r *scanAttemptRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.ScanAttempt, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.attempts[id]
	if !ok {
		return nil, domain.ErrScanAttemptNotFound
	}
	return &a, nil
}

func (r *scanAttemptRepo) GetActive(_ context.Context, documentID uuid.UUID) (*domain.ScanAttempt, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.active[documentID]
	if !ok {
		return nil, domain.ErrScanAttemptNotFound
	}
	a := r.s.attempts[id]
	return &a, nil
}

// Supersede checks and moves the active pointer under the store lock, so
// concurrent writers on one document are serialized.
func (r *scanAttemptRepo) Supersede(_ context.Context, attempt *domain.ScanAttempt, expectedActiveID *uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.records[attempt.DocumentID]; !ok {
		return domain.ErrDocumentNotFound
	}
	if _, exists := r.s.attempts[attempt.ID]; exists {
		return fmt.Errorf("scanAttemptRepo.Supersede: duplicate id %s", attempt.ID)
	}

	current, hasActive := r.s.active[attempt.DocumentID]
	switch {
	case expectedActiveID == nil && hasActive:
		return domain.ErrConcurrentSupersession
	case expectedActiveID != nil && (!hasActive || current != *expectedActiveID):
		return domain.ErrConcurrentSupersession
	}

	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now().UTC()
	}
	if hasActive {
		prev := r.s.attempts[current]
		at := attempt.CreatedAt
		id := attempt.ID
		prev.SupersededAt = &at
		prev.SupersededBy = &id
		r.s.attempts[current] = prev
	}

	attempt.SupersededAt = nil
	attempt.SupersededBy = nil
	r.s.attempts[attempt.ID] = *attempt
	r.s.history[attempt.DocumentID] = append(r.s.history[attempt.DocumentID], attempt.ID)
	r.s.active[attempt.DocumentID] = attempt.ID
	return nil
}

func (r *scanAttemptRepo) ListByDocument(_ context.Context, documentID uuid.UUID, offset, limit int) ([]domain.ScanAttempt, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ids := r.s.history[documentID]
	total := len(ids)
	out := []domain.ScanAttempt{}
	for i := total - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.s.attempts[ids[i]])
	}
	return out, total, nil
}

func (r *scanAttemptRepo) ListActive(_ context.Context, offset, limit int) ([]domain.ScanAttempt, error) {
	r.s.mu.RLock()
	all := make([]domain.ScanAttempt, 0, len(r.s.active))
	for _, id := range r.s.active {
		all = append(all, r.s.attempts[id])
	}
	r.s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID.String() < all[j].ID.String()
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})
	if offset >= len(all) {
		return []domain.ScanAttempt{}, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], nil
}
