package service

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"seacrew/internal/domain"
	"seacrew/internal/port"
	"seacrew/internal/validator"
)

const (
	rescorePageSize       = 100
	defaultRescoreWorkers = 4
)

// RescoreResult compares the stored verdict of an active scan with the verdict
// the current engine produces for the same extracted fields.
type RescoreResult struct {
	Attempt       domain.ScanAttempt
	PreviousValid bool
	PreviousScore int
	Current       domain.VerificationVerdict
	Changed       bool
	Err           error
}

// RescoreSummary totals a rescore run.
type RescoreSummary struct {
	Checked int
	Changed int
	Failed  int
}

// Rescorer re-evaluates active scan attempts after rules or thresholds change.
// It never writes; the history stays as recorded.
type Rescorer struct {
	recordRepo port.DocumentRecordRepository
	crewRepo   port.CrewMemberRepository
	scanRepo   port.ScanAttemptRepository
	engine     *validator.Engine
	workers    int
}

// NewRescorer creates a Rescorer running up to workers evaluations at once.
func NewRescorer(
	recordRepo port.DocumentRecordRepository,
	crewRepo port.CrewMemberRepository,
	scanRepo port.ScanAttemptRepository,
	engine *validator.Engine,
	workers int,
) *Rescorer {
	if workers <= 0 {
		workers = defaultRescoreWorkers
	}
	return &Rescorer{recordRepo: recordRepo, crewRepo: crewRepo, scanRepo: scanRepo, engine: engine, workers: workers}
}

// Run pages through all active attempts and calls emit once per attempt, in
// page order. A per-attempt failure is reported through RescoreResult.Err and
// does not stop the run.
func (r *Rescorer) Run(ctx context.Context, emit func(RescoreResult)) (RescoreSummary, error) {
	var summary RescoreSummary
	for offset := 0; ; offset += rescorePageSize {
		page, err := r.scanRepo.ListActive(ctx, offset, rescorePageSize)
		if err != nil {
			return summary, fmt.Errorf("listing active scans: %w", err)
		}
		results, err := r.rescorePage(ctx, page)
		if err != nil {
			return summary, err
		}
		for i := range results {
			summary.Checked++
			switch {
			case results[i].Err != nil:
				summary.Failed++
			case results[i].Changed:
				summary.Changed++
			}
			if emit != nil {
				emit(results[i])
			}
		}
		if len(page) < rescorePageSize {
			return summary, nil
		}
	}
}

func (r *Rescorer) rescorePage(ctx context.Context, page []domain.ScanAttempt) ([]RescoreResult, error) {
	results := make([]RescoreResult, len(page))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i := range page {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.rescore(gctx, &page[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *Rescorer) rescore(ctx context.Context, attempt *domain.ScanAttempt) RescoreResult {
	res := RescoreResult{Attempt: *attempt, PreviousValid: attempt.IsValid, PreviousScore: attempt.MatchScore}

	record, err := r.recordRepo.GetByID(ctx, attempt.DocumentID)
	if err != nil {
		res.Err = err
		return res
	}
	holder, err := r.crewRepo.GetByID(ctx, record.HolderCrewMemberID)
	if err != nil {
		res.Err = err
		return res
	}

	fields := ExtractedFieldsOf(attempt)
	res.Current = r.engine.Verify(validator.Expected{
		HolderName:   holder.FullName,
		DocumentType: record.Type,
		Record:       record,
	}, &fields, holder.Nationality)
	res.Changed = res.Current.IsValid != attempt.IsValid || res.Current.MatchScore != attempt.MatchScore
	if res.Changed {
		log.Printf("Rescorer.rescore: scan %s of document %s changed valid=%t->%t score=%d->%d",
			attempt.ID, attempt.DocumentID, attempt.IsValid, res.Current.IsValid, attempt.MatchScore, res.Current.MatchScore)
	}
	return res
}

// ExtractedFieldsOf rebuilds the raw OCR output recorded on an attempt.
func ExtractedFieldsOf(a *domain.ScanAttempt) domain.ExtractedFields {
	return domain.ExtractedFields{
		DocumentNumber:   a.ExtractedNumber,
		IssueDate:        a.ExtractedIssueDate,
		ExpiryDate:       a.ExtractedExpiryDate,
		HolderName:       a.ExtractedHolderName,
		IssuingAuthority: a.ExtractedIssuingAuthority,
		MRZValue:         a.ExtractedMRZ,
		RawText:          a.RawText,
		Confidence:       a.OCRConfidence,
	}
}
