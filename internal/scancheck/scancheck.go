// Package scancheck runs the verification engine over a file of recorded
// scan cases without touching any store.
package scancheck

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"seacrew/internal/domain"
	"seacrew/internal/validator"
	"seacrew/internal/validator/crewdoc"
)

// Record is the document on file for a case. Dates accept any format the
// date normalizer understands; an empty expiry stays undecided.
type Record struct {
	HolderName       string `yaml:"holder_name"`
	DocumentNumber   string `yaml:"document_number"`
	IssuingAuthority string `yaml:"issuing_authority"`
	IssueDate        string `yaml:"issue_date"`
	ExpiryDate       string `yaml:"expiry_date"`
}

// Scan is the extractor output for a case.
type Scan struct {
	DocumentNumber   string  `yaml:"document_number"`
	IssueDate        string  `yaml:"issue_date"`
	ExpiryDate       string  `yaml:"expiry_date"`
	HolderName       string  `yaml:"holder_name"`
	IssuingAuthority string  `yaml:"issuing_authority"`
	MRZ              string  `yaml:"mrz"`
	Confidence       float64 `yaml:"confidence"`
}

// Case is one recorded scan to evaluate.
type Case struct {
	Name         string              `yaml:"name"`
	DocumentType domain.DocumentType `yaml:"document_type"`
	Nationality  string              `yaml:"nationality"`
	ManualNumber string              `yaml:"manual_number"`
	Record       Record              `yaml:"record"`
	Scan         Scan                `yaml:"scan"`
	// WantValid, when set, is compared with the verdict.
	WantValid *bool `yaml:"want_valid"`
}

// CaseFile is the top-level layout of a case file.
type CaseFile struct {
	Cases []Case `yaml:"cases"`
}

// Outcome is the verdict of one case.
type Outcome struct {
	Case    Case
	Verdict domain.VerificationVerdict
	Err     error
}

// Failed reports whether the case errored or contradicted WantValid.
func (o *Outcome) Failed() bool {
	if o.Err != nil {
		return true
	}
	return o.Case.WantValid != nil && *o.Case.WantValid != o.Verdict.IsValid
}

// LoadCases reads a YAML case file.
func LoadCases(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading case file: %w", err)
	}
	return ParseCases(data)
}

// ParseCases decodes YAML case data.
func ParseCases(data []byte) ([]Case, error) {
	var file CaseFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing case file: %w", err)
	}
	for i := range file.Cases {
		c := &file.Cases[i]
		if c.Name == "" {
			c.Name = fmt.Sprintf("case %d", i+1)
		}
		if c.DocumentType == "" {
			c.DocumentType = domain.DocumentTypePassport
		}
		if !domain.ValidDocumentTypes[c.DocumentType] {
			return nil, fmt.Errorf("%s: unknown document type %q", c.Name, c.DocumentType)
		}
	}
	return file.Cases, nil
}

// Run evaluates every case with engine.
func Run(engine *validator.Engine, cases []Case) []Outcome {
	out := make([]Outcome, 0, len(cases))
	for _, c := range cases {
		out = append(out, evaluate(engine, c))
	}
	return out
}

func evaluate(engine *validator.Engine, c Case) Outcome {
	record := &domain.DocumentRecord{
		Type:             c.DocumentType,
		DocumentNumber:   c.Record.DocumentNumber,
		IssuingAuthority: c.Record.IssuingAuthority,
	}
	var err error
	if record.IssueDate, err = recordDate("issue_date", c.Record.IssueDate); err != nil {
		return Outcome{Case: c, Err: err}
	}
	if record.ExpiryDate, err = recordDate("expiry_date", c.Record.ExpiryDate); err != nil {
		return Outcome{Case: c, Err: err}
	}

	fields := domain.ExtractedFields{
		DocumentNumber:   c.Scan.DocumentNumber,
		IssueDate:        c.Scan.IssueDate,
		ExpiryDate:       c.Scan.ExpiryDate,
		HolderName:       c.Scan.HolderName,
		IssuingAuthority: c.Scan.IssuingAuthority,
		MRZValue:         c.Scan.MRZ,
		Confidence:       c.Scan.Confidence,
	}
	verdict := engine.Verify(validator.Expected{
		HolderName:   c.Record.HolderName,
		DocumentType: c.DocumentType,
		Record:       record,
		ManualNumber: c.ManualNumber,
	}, &fields, c.Nationality)
	return Outcome{Case: c, Verdict: verdict}
}

func recordDate(field, raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	d, ok := crewdoc.ParseDate(raw)
	if !ok {
		return nil, fmt.Errorf("record %s %q is not a recognised date", field, raw)
	}
	return &d, nil
}

// Printer writes outcomes as a colored report.
type Printer struct {
	w       io.Writer
	verbose bool
	ok      *color.Color
	warn    *color.Color
	bad     *color.Color
	dim     *color.Color
}

// NewPrinter creates a Printer. noColor forces plain output.
func NewPrinter(w io.Writer, verbose, noColor bool) *Printer {
	if noColor {
		color.NoColor = true
	}
	return &Printer{
		w:       w,
		verbose: verbose,
		ok:      color.New(color.FgGreen, color.Bold),
		warn:    color.New(color.FgYellow),
		bad:     color.New(color.FgRed, color.Bold),
		dim:     color.New(color.FgCyan),
	}
}

// Print writes one outcome.
func (p *Printer) Print(o *Outcome) {
	if o.Err != nil {
		p.bad.Fprintf(p.w, "ERROR  ")
		fmt.Fprintf(p.w, "%s: %v\n", o.Case.Name, o.Err)
		return
	}
	v := &o.Verdict
	switch {
	case o.Failed():
		p.bad.Fprintf(p.w, "FAIL   ")
	case v.IsValid:
		p.ok.Fprintf(p.w, "VALID  ")
	default:
		p.warn.Fprintf(p.w, "REVIEW ")
	}
	fmt.Fprintf(p.w, "%s  score=%d confidence=%s expiry=%s", o.Case.Name, v.MatchScore, v.Confidence, v.ExpiryState)
	if v.CorrectedNumber != "" {
		fmt.Fprintf(p.w, " number=%s", v.CorrectedNumber)
	}
	fmt.Fprintln(p.w)

	if len(v.MismatchedFields) > 0 {
		p.warn.Fprintf(p.w, "       mismatched: %s\n", strings.Join(v.MismatchedFields, ", "))
	}
	for _, w := range v.Warnings {
		p.warn.Fprintf(p.w, "       ! %s\n", w)
	}
	if !p.verbose {
		return
	}
	for _, c := range v.Corrections {
		p.dim.Fprintf(p.w, "       %s: %s -> %s (%s, %s)\n", c.Field, c.Before, c.After, c.Confidence, c.Reason)
	}
	for _, r := range v.Reasoning {
		p.dim.Fprintf(p.w, "       - %s\n", r)
	}
}

// Summary writes the totals line and reports whether every case passed.
func (p *Printer) Summary(outcomes []Outcome) bool {
	var valid, failed int
	for i := range outcomes {
		if outcomes[i].Failed() {
			failed++
		}
		if outcomes[i].Err == nil && outcomes[i].Verdict.IsValid {
			valid++
		}
	}
	fmt.Fprintf(p.w, "\n%d cases, %d valid, %d need review, ", len(outcomes), valid, len(outcomes)-valid)
	if failed > 0 {
		p.bad.Fprintf(p.w, "%d failed\n", failed)
		return false
	}
	p.ok.Fprintf(p.w, "0 failed\n")
	return true
}
