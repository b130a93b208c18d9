package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"seacrew/internal/domain"
	"seacrew/internal/port"
	"seacrew/internal/validator"
	"seacrew/internal/validator/crewdoc"
)

const (
	defaultSupersedeRetries = 3
	defaultPresignExpiry    = 900
	exportPageSize          = 200
)

// VerifyInput is the DTO for verifying one scan of a document.
// Either FileBytes or SourceKey must be set.
type VerifyInput struct {
	DocumentID   uuid.UUID
	FileBytes    []byte
	ContentType  string
	FileName     string
	SourceKey    string
	ManualNumber string
	// Nationality overrides the holder's nationality on file.
	Nationality string
	RequestedBy *uuid.UUID
}

// VerifyResult is the outcome of a verification.
type VerifyResult struct {
	Attempt       *domain.ScanAttempt               `json:"attempt"`
	Verdict       domain.VerificationVerdict        `json:"verdict"`
	FieldStatuses map[string]*validator.FieldStatus `json:"field_statuses"`
	Record        *domain.DocumentRecord            `json:"record"`
}

// ActiveScan is the current scan of a document with a link to its image.
type ActiveScan struct {
	Attempt  *domain.ScanAttempt `json:"attempt"`
	ImageURL string              `json:"image_url,omitempty"`
}

// VerificationOptions configures a VerificationService.
type VerificationOptions struct {
	Bucket           string
	PresignExpirySec int64
	SupersedeRetries int
	// SentinelYear marks placeholder expiry dates that a scan may replace.
	SentinelYear int
	Now          func() time.Time
}

// VerificationService defines the scan verification contract.
type VerificationService interface {
	VerifyDocument(ctx context.Context, input *VerifyInput) (*VerifyResult, error)
	ListScans(ctx context.Context, documentID uuid.UUID, offset, limit int) ([]domain.ScanAttempt, int, error)
	GetActiveScan(ctx context.Context, documentID uuid.UUID) (*ActiveScan, error)
	ExportScans(ctx context.Context, documentID uuid.UUID) ([]domain.ScanAttempt, error)
}

type verificationService struct {
	recordRepo port.DocumentRecordRepository
	crewRepo   port.CrewMemberRepository
	scanRepo   port.ScanAttemptRepository
	extractor  port.DocumentExtractor
	storage    port.ObjectStorage
	engine     *validator.Engine
	opts       VerificationOptions
}

// NewVerificationService creates a new VerificationService implementation.
// storage may be nil, in which case scans are neither archived nor fetched by key.
func NewVerificationService(
	recordRepo port.DocumentRecordRepository,
	crewRepo port.CrewMemberRepository,
	scanRepo port.ScanAttemptRepository,
	extractor port.DocumentExtractor,
	storage port.ObjectStorage,
	engine *validator.Engine,
	opts VerificationOptions,
) VerificationService {
	if opts.SupersedeRetries <= 0 {
		opts.SupersedeRetries = defaultSupersedeRetries
	}
	if opts.PresignExpirySec <= 0 {
		opts.PresignExpirySec = defaultPresignExpiry
	}
	if opts.SentinelYear <= 0 {
		opts.SentinelYear = validator.DefaultExpirySentinelYear
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &verificationService{
		recordRepo: recordRepo,
		crewRepo:   crewRepo,
		scanRepo:   scanRepo,
		extractor:  extractor,
		storage:    storage,
		engine:     engine,
		opts:       opts,
	}
}

func (s *verificationService) VerifyDocument(ctx context.Context, input *VerifyInput) (*VerifyResult, error) {
	record, err := s.recordRepo.GetByID(ctx, input.DocumentID)
	if err != nil {
		return nil, err
	}
	holder, err := s.crewRepo.GetByID(ctx, record.HolderCrewMemberID)
	if err != nil {
		return nil, err
	}

	fileBytes, contentType, err := s.loadScan(ctx, input)
	if err != nil {
		return nil, err
	}

	output, err := s.extractor.Extract(ctx, port.ExtractInput{
		FileBytes:    fileBytes,
		ContentType:  contentType,
		DocumentType: record.Type,
	})
	if err != nil {
		log.Printf("verificationService.VerifyDocument: extraction failed for document %s: %v", record.ID, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}
	if output == nil || output.Fields.PopulatedFields() == 0 {
		log.Printf("verificationService.VerifyDocument: extractor returned no document fields for document %s", record.ID)
		return nil, fmt.Errorf("%w: no document fields could be read from the scan", domain.ErrExtractionFailed)
	}

	nationality := input.Nationality
	if nationality == "" {
		nationality = holder.Nationality
	}
	expected := validator.Expected{
		HolderName:   holder.FullName,
		DocumentType: record.Type,
		Record:       record,
		ManualNumber: input.ManualNumber,
	}
	ev := s.engine.Evaluate(expected, &output.Fields, nationality)

	attempt, err := s.buildAttempt(record, output, ev, input.RequestedBy)
	if err != nil {
		return nil, err
	}
	s.archive(ctx, attempt, input, fileBytes, contentType)

	if err := s.supersede(ctx, attempt); err != nil {
		return nil, err
	}

	if ev.Verdict.IsValid {
		s.refreshRecord(ctx, record, &output.Fields, attempt)
	}

	log.Printf("verificationService.VerifyDocument: document %s scan %s valid=%t score=%d confidence=%s",
		record.ID, attempt.ID, ev.Verdict.IsValid, ev.Verdict.MatchScore, ev.Verdict.Confidence)

	return &VerifyResult{
		Attempt:       attempt,
		Verdict:       ev.Verdict,
		FieldStatuses: validator.ComputeFieldStatuses(&ev.Verdict),
		Record:        record,
	}, nil
}

// loadScan returns the scan bytes from the request or from object storage.
func (s *verificationService) loadScan(ctx context.Context, input *VerifyInput) ([]byte, string, error) {
	if len(input.FileBytes) > 0 {
		contentType := input.ContentType
		if _, ok := domain.AllowedContentTypes[contentType]; !ok {
			contentType = contentTypeFromName(input.FileName)
		}
		if contentType == "" {
			return nil, "", domain.ErrUnsupportedFileType
		}
		return input.FileBytes, contentType, nil
	}
	if input.SourceKey == "" {
		return nil, "", domain.ErrMissingScanSource
	}
	contentType := contentTypeFromName(input.SourceKey)
	if contentType == "" {
		return nil, "", domain.ErrUnsupportedFileType
	}
	if s.storage == nil || s.opts.Bucket == "" {
		return nil, "", fmt.Errorf("%w: object storage is not configured", domain.ErrMissingScanSource)
	}
	data, err := s.storage.Download(ctx, s.opts.Bucket, input.SourceKey)
	if err != nil {
		return nil, "", fmt.Errorf("downloading scan: %w", err)
	}
	return data, contentType, nil
}

func contentTypeFromName(name string) string {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(name)), ".")
	return domain.AllowedExtensions[ext]
}

func (s *verificationService) buildAttempt(
	record *domain.DocumentRecord,
	output *port.ExtractOutput,
	ev *validator.Evaluation,
	requestedBy *uuid.UUID,
) (*domain.ScanAttempt, error) {
	verdictJSON, err := json.Marshal(ev.Verdict)
	if err != nil {
		return nil, fmt.Errorf("marshaling verdict: %w", err)
	}
	f := output.Fields
	mrz := ev.MRZ.Validation
	if mrz.Errors == nil {
		mrz.Errors = []string{}
	}
	return &domain.ScanAttempt{
		ID:                        uuid.New(),
		DocumentID:                record.ID,
		ExtractedNumber:           f.DocumentNumber,
		CorrectedNumber:           ev.Verdict.CorrectedNumber,
		ExtractedIssueDate:        f.IssueDate,
		ExtractedExpiryDate:       f.ExpiryDate,
		ExtractedHolderName:       f.HolderName,
		ExtractedIssuingAuthority: f.IssuingAuthority,
		ExtractedMRZ:              f.MRZValue,
		OCRConfidence:             f.Confidence,
		MRZValidation:             mrz,
		RawText:                   f.RawText,
		ExtractorModel:            output.ModelUsed,
		IsValid:                   ev.Verdict.IsValid,
		MatchScore:                ev.Verdict.MatchScore,
		Verdict:                   verdictJSON,
		RequestedBy:               requestedBy,
		CreatedAt:                 s.opts.Now().UTC(),
	}, nil
}

// archive stores an uploaded scan next to its attempt. Scans fetched by key are
// already in storage and are referenced in place.
func (s *verificationService) archive(ctx context.Context, attempt *domain.ScanAttempt, input *VerifyInput, data []byte, contentType string) {
	if len(input.FileBytes) == 0 {
		attempt.SourceBucket = s.opts.Bucket
		attempt.SourceKey = input.SourceKey
		return
	}
	if s.storage == nil || s.opts.Bucket == "" {
		return
	}
	key := fmt.Sprintf("scans/%s/%s.%s", attempt.DocumentID, attempt.ID, domain.AllowedContentTypes[contentType])
	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.opts.Bucket,
		Key:         key,
		Body:        bytes.NewReader(data),
		ContentType: contentType,
	}); err != nil {
		log.Printf("verificationService.archive: failed to archive scan %s: %v", attempt.ID, err)
		return
	}
	attempt.SourceBucket = s.opts.Bucket
	attempt.SourceKey = key
}

// supersede makes attempt the active scan, re-reading the active row whenever
// another writer won the race.
func (s *verificationService) supersede(ctx context.Context, attempt *domain.ScanAttempt) error {
	for try := 0; ; try++ {
		var expectedActive *uuid.UUID
		active, err := s.scanRepo.GetActive(ctx, attempt.DocumentID)
		switch {
		case err == nil:
			expectedActive = &active.ID
		case errors.Is(err, domain.ErrScanAttemptNotFound):
		default:
			return fmt.Errorf("loading active scan: %w", err)
		}

		err = s.scanRepo.Supersede(ctx, attempt, expectedActive)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrConcurrentSupersession) || try >= s.opts.SupersedeRetries {
			return err
		}
		log.Printf("verificationService.supersede: active scan of document %s moved, retrying (%d/%d)",
			attempt.DocumentID, try+1, s.opts.SupersedeRetries)
	}
}

// refreshRecord fills stored fields the record was missing and stamps the accepted scan.
func (s *verificationService) refreshRecord(ctx context.Context, record *domain.DocumentRecord, f *domain.ExtractedFields, attempt *domain.ScanAttempt) {
	if record.DocumentNumber == "" && attempt.CorrectedNumber != "" {
		record.DocumentNumber = attempt.CorrectedNumber
	}
	if record.IssuingAuthority == "" && strings.TrimSpace(f.IssuingAuthority) != "" {
		record.IssuingAuthority = strings.TrimSpace(f.IssuingAuthority)
	}
	if record.IssueDate == nil {
		if d, ok := crewdoc.ParseDate(f.IssueDate); ok {
			record.IssueDate = &d
		}
	}
	if record.ExpiryDate == nil || validator.IsSentinelDate(*record.ExpiryDate, s.opts.SentinelYear) {
		if d, ok := crewdoc.ParseDate(f.ExpiryDate); ok && !validator.IsSentinelDate(d, s.opts.SentinelYear) {
			record.ExpiryDate = &d
		}
	}
	now := s.opts.Now().UTC()
	record.LastScanID = &attempt.ID
	record.LastVerifiedAt = &now
	if err := s.recordRepo.Update(ctx, record); err != nil {
		log.Printf("verificationService.refreshRecord: failed to update document %s: %v", record.ID, err)
	}
}

func (s *verificationService) ListScans(ctx context.Context, documentID uuid.UUID, offset, limit int) ([]domain.ScanAttempt, int, error) {
	if _, err := s.recordRepo.GetByID(ctx, documentID); err != nil {
		return nil, 0, err
	}
	return s.scanRepo.ListByDocument(ctx, documentID, offset, limit)
}

func (s *verificationService) GetActiveScan(ctx context.Context, documentID uuid.UUID) (*ActiveScan, error) {
	if _, err := s.recordRepo.GetByID(ctx, documentID); err != nil {
		return nil, err
	}
	attempt, err := s.scanRepo.GetActive(ctx, documentID)
	if err != nil {
		return nil, err
	}
	out := &ActiveScan{Attempt: attempt}
	if s.storage != nil && attempt.SourceKey != "" {
		url, err := s.storage.GetPresignedURL(ctx, attempt.SourceBucket, attempt.SourceKey, s.opts.PresignExpirySec)
		if err != nil {
			log.Printf("verificationService.GetActiveScan: presign failed for scan %s: %v", attempt.ID, err)
		} else {
			out.ImageURL = url
		}
	}
	return out, nil
}

func (s *verificationService) ExportScans(ctx context.Context, documentID uuid.UUID) ([]domain.ScanAttempt, error) {
	if _, err := s.recordRepo.GetByID(ctx, documentID); err != nil {
		return nil, err
	}
	var all []domain.ScanAttempt
	for offset := 0; ; offset += exportPageSize {
		page, total, err := s.scanRepo.ListByDocument(ctx, documentID, offset, exportPageSize)
		if err != nil {
			return nil, fmt.Errorf("listing scans: %w", err)
		}
		all = append(all, page...)
		if len(page) == 0 || len(all) >= total {
			return all, nil
		}
	}
}
