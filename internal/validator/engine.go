package validator

import (
	"fmt"
	"math"
	"strings"
	"time"

	"seacrew/internal/domain"
	"seacrew/internal/validator/crewdoc"
)

// DefaultLowScoreThreshold is the aggregate score below which a warning is raised.
const DefaultLowScoreThreshold = 80

// Options configures an Engine.
type Options struct {
	NameThresholds     crewdoc.NameThresholds
	LowScoreThreshold  int
	ExpirySentinelYear int
	Rules              *crewdoc.RuleTable
	Months             *crewdoc.MonthTable
	// Now defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions returns the standard thresholds with the embedded rule table.
func DefaultOptions() Options {
	return Options{
		NameThresholds:     crewdoc.DefaultNameThresholds(),
		LowScoreThreshold:  DefaultLowScoreThreshold,
		ExpirySentinelYear: DefaultExpirySentinelYear,
	}
}

// Evaluation is a verdict together with the intermediate results that produced it.
type Evaluation struct {
	Verdict domain.VerificationVerdict
	MRZ     crewdoc.MRZResult
	Number  crewdoc.CorrectionResult
	Expiry  ExpiryClassification
}

// Engine compares scanned fields against the record on file. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	registry *Registry
	opts     Options
	dates    *crewdoc.DateNormalizer
	names    *crewdoc.NameMatcher
	numbers  *crewdoc.Corrector
}

// NewEngine creates a verification engine. A nil registry selects the builtin comparators.
func NewEngine(registry *Registry, opts Options) *Engine {
	if registry == nil {
		registry = NewDefaultRegistry()
	}
	if opts.NameThresholds == (crewdoc.NameThresholds{}) {
		opts.NameThresholds = crewdoc.DefaultNameThresholds()
	}
	if opts.ExpirySentinelYear == 0 {
		opts.ExpirySentinelYear = DefaultExpirySentinelYear
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{
		registry: registry,
		opts:     opts,
		dates:    crewdoc.NewDateNormalizer(opts.Months),
		names:    crewdoc.NewNameMatcher(opts.NameThresholds),
		numbers:  crewdoc.NewCorrector(opts.Rules),
	}
}

// Verify returns the verdict for one scan.
func (e *Engine) Verify(expected Expected, extracted *domain.ExtractedFields, nationality string) domain.VerificationVerdict {
	return e.Evaluate(expected, extracted, nationality).Verdict
}

// Evaluate runs every comparator and aggregates the results. It never fails:
// unusable fields are reported in the verdict.
func (e *Engine) Evaluate(expected Expected, extracted *domain.ExtractedFields, nationality string) *Evaluation {
	if extracted == nil {
		extracted = &domain.ExtractedFields{}
	}
	ev := &Evaluation{}
	var warnings []string

	if expected.DocumentType.SupportsMRZ() || strings.TrimSpace(extracted.MRZValue) != "" {
		ev.MRZ = crewdoc.ParseMRZ(extracted.MRZValue)
	}
	mrzNumber, mrzName := "", ""
	switch {
	case ev.MRZ.Trusted():
		mrzNumber = ev.MRZ.DocumentNumber
		mrzName = ev.MRZ.HolderName()
		if nationality == "" {
			nationality = ev.MRZ.Nationality
		}
	case ev.MRZ.Validation.Present:
		warnings = append(warnings, fmt.Sprintf("MRZ failed validation and was not used: %s", strings.Join(ev.MRZ.Validation.Errors, "; ")))
	}

	ev.Number = e.numbers.ValidateWithContext(crewdoc.NumberSources{
		OCR:          extracted.DocumentNumber,
		MRZ:          mrzNumber,
		Manual:       expected.ManualNumber,
		Nationality:  nationality,
		DocumentType: expected.DocumentType,
	})

	var storedExpiry *time.Time
	if expected.Record != nil {
		storedExpiry = expected.Record.ExpiryDate
	}
	ev.Expiry = ClassifyExpiry(storedExpiry, extracted.ExpiryDate, e.dates, e.opts.ExpirySentinelYear, e.opts.Now())

	in := &Input{
		Expected:      expected,
		Extracted:     extracted,
		Number:        ev.Number,
		Expiry:        ev.Expiry,
		Dates:         e.dates,
		Names:         e.names,
		SentinelYear:  e.opts.ExpirySentinelYear,
		MRZHolderName: mrzName,
	}

	v := domain.VerificationVerdict{
		IsValid:          true,
		Confidence:       ev.Number.Confidence,
		FieldComparisons: []domain.FieldComparison{},
		CriticalFields:   []string{},
		MismatchedFields: []string{},
		Corrections:      ev.Number.Corrections,
		Reasoning:        ev.Number.Reasoning,
		CorrectedNumber:  ev.Number.Corrected,
		ExpiryState:      ev.Expiry.State,
	}
	if v.Confidence == "" {
		v.Confidence = domain.ConfidenceHigh
	}

	total, scored := 0, 0
	for _, c := range e.registry.All() {
		if c.Critical() {
			v.CriticalFields = append(v.CriticalFields, c.Field())
		}
		fc, ok := c.Compare(in)
		if !ok {
			continue
		}
		fc.Critical = c.Critical()
		v.FieldComparisons = append(v.FieldComparisons, fc)
		if fc.Similarity != nil {
			total += *fc.Similarity
			scored++
		}

		switch fc.Status {
		case domain.ComparisonMismatch:
			v.MismatchedFields = append(v.MismatchedFields, fc.Field)
			if fc.Critical {
				v.IsValid = false
				warnings = append(warnings, fmt.Sprintf("%s does not match the record on file (expected %q, scanned %q)", fc.Field, fc.Expected, fc.Extracted))
			} else {
				v.Confidence = weaker(v.Confidence, domain.ConfidenceMedium)
				warnings = append(warnings, fmt.Sprintf("%s differs from the record on file (expected %q, scanned %q)", fc.Field, fc.Expected, fc.Extracted))
			}
		case domain.ComparisonWarning:
			v.Confidence = weaker(v.Confidence, domain.ConfidenceMedium)
			warnings = append(warnings, fmt.Sprintf("%s is similar but not identical to the record on file (similarity %d); review required", fc.Field, *fc.Similarity))
		case domain.ComparisonUnparseable:
			tier := domain.ConfidenceMedium
			if fc.Critical {
				tier = domain.ConfidenceLow
			}
			v.Confidence = weaker(v.Confidence, tier)
			warnings = append(warnings, fmt.Sprintf("%s could not be read from the scan (%q)", fc.Field, fc.Extracted))
		}
	}

	if scored > 0 {
		v.MatchScore = int(math.Round(float64(total) / float64(scored)))
		if v.MatchScore < e.opts.LowScoreThreshold {
			warnings = append(warnings, fmt.Sprintf("match score %d is below %d", v.MatchScore, e.opts.LowScoreThreshold))
		}
	} else {
		v.IsValid = false
		v.Confidence = domain.ConfidenceLow
		warnings = append(warnings, "no fields could be compared with the record on file")
	}

	switch ev.Expiry.State {
	case domain.ExpiryStateExpired:
		v.IsValid = false
		warnings = append(warnings, fmt.Sprintf("document expired %d days ago on %s", ev.Expiry.DaysExpired, ev.Expiry.Date.Format(dateLayout)))
	case domain.ExpiryStateToBeDecided:
		warnings = append(warnings, "expiry date is to be decided")
	}

	v.Notice = e.notice(expected, extracted, &v, ev)
	if warnings == nil {
		warnings = []string{}
	}
	v.Warnings = warnings
	ev.Verdict = v
	return ev
}

// notice picks the modal the verdict is routed to. An owner mismatch outranks
// expiry, and an undecided expiry is informational only.
func (e *Engine) notice(expected Expected, extracted *domain.ExtractedFields, v *domain.VerificationVerdict, ev *Evaluation) *domain.VerdictNotice {
	number := v.CorrectedNumber
	if number == "" && expected.Record != nil {
		number = expected.Record.DocumentNumber
	}

	if fc := v.Comparison(domain.FieldHolderName); fc != nil && fc.Status == domain.ComparisonMismatch {
		return &domain.VerdictNotice{
			Kind:          domain.NoticeOwnerMismatch,
			DocumentType:  expected.DocumentType,
			ExpectedName:  expected.HolderName,
			ExtractedName: extracted.HolderName,
			Similarity:    *fc.Similarity,
		}
	}
	switch ev.Expiry.State {
	case domain.ExpiryStateExpired:
		return &domain.VerdictNotice{
			Kind:           domain.NoticeExpired,
			DocumentType:   expected.DocumentType,
			DocumentNumber: number,
			ExpiryDate:     ev.Expiry.Date,
			DaysExpired:    ev.Expiry.DaysExpired,
		}
	case domain.ExpiryStateToBeDecided:
		return &domain.VerdictNotice{
			Kind:           domain.NoticeExpiryToBeDecided,
			DocumentType:   expected.DocumentType,
			DocumentNumber: number,
			ExpiryDate:     ev.Expiry.Date,
		}
	}
	return nil
}

func weaker(a, b domain.Confidence) domain.Confidence {
	if b.Rank() < a.Rank() {
		return b
	}
	return a
}
