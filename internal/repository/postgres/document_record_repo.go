package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"seacrew/internal/domain"
	"seacrew/internal/port"
)

const pgForeignKeyViolation = "23503"

type documentRecordRepo struct {
	db *sqlx.DB
}

// NewDocumentRecordRepo creates a new PostgreSQL-backed DocumentRecordRepository.
func NewDocumentRecordRepo(db *sqlx.DB) port.DocumentRecordRepository {
	return &documentRecordRepo{db: db}
}

func (r *documentRecordRepo) Create(ctx context.Context, record *domain.DocumentRecord) error {
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now

	query := `INSERT INTO document_records (
		id, document_type, document_number, issuing_authority,
		issue_date, expiry_date, holder_crew_member_id,
		source_bucket, source_key, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, query,
		record.ID, record.Type, record.DocumentNumber, record.IssuingAuthority,
		record.IssueDate, record.ExpiryDate, record.HolderCrewMemberID,
		record.SourceBucket, record.SourceKey, record.CreatedAt, record.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return domain.ErrCrewMemberNotFound
		}
		return fmt.Errorf("documentRecordRepo.Create: %w", err)
	}
	return nil
}

func (r *documentRecordRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.DocumentRecord, error) {
	var record domain.DocumentRecord
	err := r.db.GetContext(ctx, &record, "SELECT * FROM document_records WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("documentRecordRepo.GetByID: %w", err)
	}
	return &record, nil
}

func (r *documentRecordRepo) ListByHolder(ctx context.Context, crewMemberID uuid.UUID) ([]domain.DocumentRecord, error) {
	records := []domain.DocumentRecord{}
	err := r.db.SelectContext(ctx, &records,
		"SELECT * FROM document_records WHERE holder_crew_member_id = $1 ORDER BY created_at", crewMemberID)
	if err != nil {
		return nil, fmt.Errorf("documentRecordRepo.ListByHolder: %w", err)
	}
	return records, nil
}

func (r *documentRecordRepo) Update(ctx context.Context, record *domain.DocumentRecord) error {
	record.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx,
		`UPDATE document_records SET
			document_number = $1, issuing_authority = $2, issue_date = $3, expiry_date = $4,
			last_scan_id = $5, last_verified_at = $6, updated_at = $7
		 WHERE id = $8`,
		record.DocumentNumber, record.IssuingAuthority, record.IssueDate, record.ExpiryDate,
		record.LastScanID, record.LastVerifiedAt, record.UpdatedAt, record.ID)
	if err != nil {
		return fmt.Errorf("documentRecordRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}
