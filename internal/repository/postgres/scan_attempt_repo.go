package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"seacrew/internal/domain"
	"seacrew/internal/port"
)

const pgUniqueViolation = "23505"

type scanAttemptRepo struct {
	db *sqlx.DB
}

// NewScanAttemptRepo creates a new PostgreSQL-backed ScanAttemptRepository.
func NewScanAttemptRepo(db *sqlx.DB) port.ScanAttemptRepository {
	return &scanAttemptRepo{db: db}
}

func (r *scanAttemptRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ScanAttempt, error) {
	var attempt domain.ScanAttempt
	err := r.db.GetContext(ctx, &attempt, "SELECT * FROM scan_attempts WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrScanAttemptNotFound
		}
		return nil, fmt.Errorf("scanAttemptRepo.GetByID: %w", err)
	}
	return &attempt, nil
}

func (r *scanAttemptRepo) GetActive(ctx context.Context, documentID uuid.UUID) (*domain.ScanAttempt, error) {
	var attempt domain.ScanAttempt
	err := r.db.GetContext(ctx, &attempt,
		"SELECT * FROM scan_attempts WHERE document_id = $1 AND superseded_at IS NULL", documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrScanAttemptNotFound
		}
		return nil, fmt.Errorf("scanAttemptRepo.GetActive: %w", err)
	}
	return &attempt, nil
}

// Supersede inserts attempt as the active scan of its document inside one
// transaction. The document row is locked first so concurrent writers for the
// same document queue behind each other; the partial unique index on active
// rows backs this up.
func (r *scanAttemptRepo) Supersede(ctx context.Context, attempt *domain.ScanAttempt, expectedActiveID *uuid.UUID) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("scanAttemptRepo.Supersede: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var locked uuid.UUID
	err = tx.GetContext(ctx, &locked, "SELECT id FROM document_records WHERE id = $1 FOR UPDATE", attempt.DocumentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrDocumentNotFound
		}
		return fmt.Errorf("scanAttemptRepo.Supersede: lock document: %w", err)
	}

	var activeID uuid.UUID
	err = tx.GetContext(ctx, &activeID,
		"SELECT id FROM scan_attempts WHERE document_id = $1 AND superseded_at IS NULL FOR UPDATE", attempt.DocumentID)
	hasActive := true
	if errors.Is(err, sql.ErrNoRows) {
		hasActive = false
		err = nil
	}
	if err != nil {
		return fmt.Errorf("scanAttemptRepo.Supersede: load active: %w", err)
	}

	switch {
	case hasActive && (expectedActiveID == nil || *expectedActiveID != activeID):
		err = domain.ErrConcurrentSupersession
		return err
	case !hasActive && expectedActiveID != nil:
		err = domain.ErrConcurrentSupersession
		return err
	}

	if hasActive {
		// superseded_by is a deferred foreign key, so it may point at the row inserted below.
		if _, err = tx.ExecContext(ctx,
			"UPDATE scan_attempts SET superseded_at = $1, superseded_by = $2 WHERE id = $3",
			attempt.CreatedAt, attempt.ID, activeID); err != nil {
			return fmt.Errorf("scanAttemptRepo.Supersede: retire active: %w", err)
		}
	}

	if err = insertAttempt(ctx, tx, attempt); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConcurrentSupersession
		}
		return fmt.Errorf("scanAttemptRepo.Supersede: commit: %w", err)
	}
	return nil
}

func insertAttempt(ctx context.Context, tx *sqlx.Tx, a *domain.ScanAttempt) error {
	query := `INSERT INTO scan_attempts (
		id, document_id, extracted_number, corrected_number,
		extracted_issue_date, extracted_expiry_date, extracted_holder_name,
		extracted_issuing_authority, extracted_mrz, ocr_confidence, mrz_validation,
		raw_text, extractor_model, is_valid, match_score, verdict,
		source_bucket, source_key, requested_by, created_at
	) VALUES (
		$1, $2, $3, $4,
		$5, $6, $7,
		$8, $9, $10, $11,
		$12, $13, $14, $15, $16,
		$17, $18, $19, $20
	)`

	verdict := []byte(a.Verdict)
	if len(verdict) == 0 {
		verdict = []byte("{}")
	}
	_, err := tx.ExecContext(ctx, query,
		a.ID, a.DocumentID, a.ExtractedNumber, a.CorrectedNumber,
		a.ExtractedIssueDate, a.ExtractedExpiryDate, a.ExtractedHolderName,
		a.ExtractedIssuingAuthority, a.ExtractedMRZ, a.OCRConfidence, a.MRZValidation,
		a.RawText, a.ExtractorModel, a.IsValid, a.MatchScore, string(verdict),
		a.SourceBucket, a.SourceKey, a.RequestedBy, a.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConcurrentSupersession
		}
		return fmt.Errorf("scanAttemptRepo.Supersede: insert: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func (r *scanAttemptRepo) ListByDocument(ctx context.Context, documentID uuid.UUID, offset, limit int) ([]domain.ScanAttempt, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM scan_attempts WHERE document_id = $1", documentID); err != nil {
		return nil, 0, fmt.Errorf("scanAttemptRepo.ListByDocument count: %w", err)
	}

	attempts := []domain.ScanAttempt{}
	err := r.db.SelectContext(ctx, &attempts,
		`SELECT * FROM scan_attempts WHERE document_id = $1
		 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`,
		documentID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("scanAttemptRepo.ListByDocument: %w", err)
	}
	return attempts, total, nil
}

func (r *scanAttemptRepo) ListActive(ctx context.Context, offset, limit int) ([]domain.ScanAttempt, error) {
	attempts := []domain.ScanAttempt{}
	err := r.db.SelectContext(ctx, &attempts,
		`SELECT * FROM scan_attempts WHERE superseded_at IS NULL
		 ORDER BY created_at, id LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("scanAttemptRepo.ListActive: %w", err)
	}
	return attempts, nil
}
