package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"seacrew/internal/domain"
	"seacrew/internal/port"
)

type crewMemberRepo struct {
	db *sqlx.DB
}

// NewCrewMemberRepo creates a new PostgreSQL-backed CrewMemberRepository.
func NewCrewMemberRepo(db *sqlx.DB) port.CrewMemberRepository {
	return &crewMemberRepo{db: db}
}

func (r *crewMemberRepo) Create(ctx context.Context, member *domain.CrewMember) error {
	now := time.Now().UTC()
	member.CreatedAt = now
	member.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO crew_members (id, full_name, nationality, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		member.ID, member.FullName, member.Nationality, member.CreatedAt, member.UpdatedAt)
	if err != nil {
		return fmt.Errorf("crewMemberRepo.Create: %w", err)
	}
	return nil
}

func (r *crewMemberRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.CrewMember, error) {
	var member domain.CrewMember
	err := r.db.GetContext(ctx, &member, "SELECT * FROM crew_members WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCrewMemberNotFound
		}
		return nil, fmt.Errorf("crewMemberRepo.GetByID: %w", err)
	}
	return &member, nil
}
