package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"seacrew/internal/domain"
	"seacrew/internal/port"
)

type crewMemberRepo struct {
	s *Store
}

// NewCrewMemberRepo creates a CrewMemberRepository backed by s.
func NewCrewMemberRepo(s *Store) port.CrewMemberRepository {
	return &crewMemberRepo{s: s}
}

func (r *crewMemberRepo) Create(_ context.Context, member *domain.CrewMember) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.members[member.ID]; exists {
		return fmt.Errorf("crewMemberRepo.Create: duplicate id %s", member.ID)
	}
	r.s.members[member.ID] = *member
	return nil
}

func (r *crewMemberRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.CrewMember, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.members[id]
	if !ok {
		return nil, domain.ErrCrewMemberNotFound
	}
	return &m, nil
}
