package crewdoc

import (
	"fmt"
	"regexp"
	"strings"

	"seacrew/internal/domain"
)

// MRZFormat identifies the ICAO 9303 layout of a machine-readable zone.
type MRZFormat string

const (
	MRZFormatTD3  MRZFormat = "TD3"
	MRZFormatTD1  MRZFormat = "TD1"
	MRZFormatBare MRZFormat = "bare"
)

var bareMRZNumber = regexp.MustCompile(`^[A-Z0-9]{5,12}$`)

// MRZResult holds the fields read from a machine-readable zone.
type MRZResult struct {
	Format         MRZFormat
	DocumentNumber string
	Nationality    string
	Surname        string
	GivenNames     string
	Validation     domain.MRZValidation
}

// HolderName is the MRZ name in reading order ("GIVEN NAMES SURNAME").
func (r *MRZResult) HolderName() string {
	return strings.TrimSpace(r.GivenNames + " " + r.Surname)
}

// Trusted reports whether the MRZ document number may override OCR text.
func (r *MRZResult) Trusted() bool {
	return r.DocumentNumber != "" && r.Validation.IsValid
}

// ParseMRZ reads a TD3 (2x44) or TD1 (3x30) zone and verifies its check digits.
// A single short alphanumeric value is taken as an already-decoded MRZ document
// number without checksum.
func ParseMRZ(raw string) MRZResult {
	var lines []string
	for _, l := range strings.Split(strings.ToUpper(raw), "\n") {
		l = strings.ReplaceAll(strings.TrimSpace(l), " ", "")
		if l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return MRZResult{Validation: domain.MRZValidation{Errors: []string{}}}
	}

	switch {
	case len(lines) == 2 && len(lines[0]) >= 44 && len(lines[1]) >= 44:
		return parseTD3(padMRZ(lines[0], 44), padMRZ(lines[1], 44))
	case len(lines) == 3 && len(lines[0]) >= 30 && len(lines[1]) >= 30:
		return parseTD1(padMRZ(lines[0], 30), padMRZ(lines[1], 30), padMRZ(lines[2], 30))
	case len(lines) == 1 && bareMRZNumber.MatchString(lines[0]):
		return MRZResult{
			Format:         MRZFormatBare,
			DocumentNumber: lines[0],
			Validation:     domain.MRZValidation{Present: true, IsValid: true, Errors: []string{}},
		}
	default:
		return MRZResult{Validation: domain.MRZValidation{
			Present: true,
			Errors:  []string{"unrecognized MRZ layout: expected TD3 (2x44) or TD1 (3x30)"},
		}}
	}
}

// Line 2: number(0-8) check(9) nationality(10-12) birth(13-18) check(19)
// sex(20) expiry(21-26) check(27) optional(28-41) check(42) composite(43)
func parseTD3(line1, line2 string) MRZResult {
	res := MRZResult{
		Format:         MRZFormatTD3,
		DocumentNumber: cleanMRZField(line2[0:9]),
		Nationality:    cleanMRZField(line2[10:13]),
	}
	res.Surname, res.GivenNames = splitMRZName(line1[5:])

	var errs []string
	errs = checkField(errs, "document number", line2[0:9], line2[9])
	errs = checkField(errs, "birth date", line2[13:19], line2[19])
	errs = checkField(errs, "expiry date", line2[21:27], line2[27])
	if line2[42] != '<' || strings.Trim(line2[28:42], "<") != "" {
		errs = checkField(errs, "personal number", line2[28:42], line2[42])
	}
	errs = checkField(errs, "composite", line2[0:10]+line2[13:20]+line2[21:43], line2[43])
	res.Validation = validation(errs)
	return res
}

// Line 1: type(0-1) state(2-4) number(5-13) check(14) optional(15-29)
// Line 2: birth(0-5) check(6) sex(7) expiry(8-13) check(14) nationality(15-17) optional(18-28) composite(29)
func parseTD1(line1, line2, line3 string) MRZResult {
	res := MRZResult{
		Format:         MRZFormatTD1,
		DocumentNumber: cleanMRZField(line1[5:14]),
		Nationality:    cleanMRZField(line2[15:18]),
	}
	res.Surname, res.GivenNames = splitMRZName(line3)

	var errs []string
	errs = checkField(errs, "document number", line1[5:14], line1[14])
	errs = checkField(errs, "birth date", line2[0:6], line2[6])
	errs = checkField(errs, "expiry date", line2[8:14], line2[14])
	errs = checkField(errs, "composite", line1[5:30]+line2[0:7]+line2[8:15]+line2[18:29], line2[29])
	res.Validation = validation(errs)
	return res
}

func validation(errs []string) domain.MRZValidation {
	if errs == nil {
		errs = []string{}
	}
	return domain.MRZValidation{Present: true, IsValid: len(errs) == 0, Errors: errs}
}

func checkField(errs []string, name, field string, check byte) []string {
	want, ok := MRZCheckDigit(field)
	if !ok {
		return append(errs, fmt.Sprintf("%s contains characters outside the MRZ alphabet", name))
	}
	if check < '0' || check > '9' || int(check-'0') != want {
		return append(errs, fmt.Sprintf("%s check digit mismatch: expected %d, found %c", name, want, check))
	}
	return errs
}

// MRZCheckDigit computes the ICAO 9303 check digit of s (weights 7, 3, 1).
func MRZCheckDigit(s string) (int, bool) {
	weights := [3]int{7, 3, 1}
	sum := 0
	for i := 0; i < len(s); i++ {
		var v int
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			v = int(c - '0')
		case c >= 'A' && c <= 'Z':
			v = int(c-'A') + 10
		case c == '<':
			v = 0
		default:
			return 0, false
		}
		sum += v * weights[i%3]
	}
	return sum % 10, true
}

func padMRZ(line string, length int) string {
	if len(line) >= length {
		return line[:length]
	}
	return line + strings.Repeat("<", length-len(line))
}

func cleanMRZField(s string) string {
	return strings.Trim(s, "<")
}

func splitMRZName(s string) (surname, given string) {
	parts := strings.SplitN(s, "<<", 2)
	surname = strings.TrimSpace(strings.ReplaceAll(strings.TrimRight(parts[0], "<"), "<", " "))
	if len(parts) == 2 {
		given = strings.TrimSpace(strings.ReplaceAll(strings.TrimRight(parts[1], "<"), "<", " "))
	}
	return surname, given
}
