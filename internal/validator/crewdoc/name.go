package crewdoc

import (
	"math"
	"strings"
	"unicode"

	"seacrew/internal/domain"
)

// MatchFormat names the strategy that produced a name similarity score.
type MatchFormat string

const (
	MatchDirect   MatchFormat = "direct"
	MatchReversed MatchFormat = "reversed"
	MatchSurname  MatchFormat = "surname_boost"
)

const (
	surnameAgreement = 90
	surnameFloor     = 70
	surnameBonus     = 10
)

// NameMatch is the best similarity found between two names.
type NameMatch struct {
	Similarity int         `json:"similarity"`
	Format     MatchFormat `json:"format"`
}

// NameThresholds are the similarity cut-offs for the match and warning tiers.
type NameThresholds struct {
	Match   int
	Warning int
}

// DefaultNameThresholds returns the standard 85/70 tiers.
func DefaultNameThresholds() NameThresholds {
	return NameThresholds{Match: 85, Warning: 70}
}

// NameValidation classifies a holder-name comparison.
type NameValidation struct {
	IsValid    bool                   `json:"is_valid"`
	Similarity int                    `json:"similarity"`
	Status     domain.NameMatchStatus `json:"status"`
	Confidence domain.Confidence      `json:"confidence"`
	Format     MatchFormat            `json:"format"`
}

// NormalizeName uppercases s, keeps only letters and spaces, and collapses whitespace.
func NormalizeName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Levenshtein returns the edit distance between a and b, counted in runes.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// Similarity scores two names from 0 to 100 after normalization.
func Similarity(name1, name2 string) int {
	return normalizedSimilarity(NormalizeName(name1), NormalizeName(name2))
}

func normalizedSimilarity(a, b string) int {
	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 0
	}
	if a == b {
		return 100
	}
	dist := Levenshtein(a, b)
	return int(math.Round(100 * float64(maxLen-dist) / float64(maxLen)))
}

// BestMatch compares two names directly, with name1's word order reversed,
// and boosts the result when the surnames agree strongly.
func BestMatch(name1, name2 string) NameMatch {
	a, b := NormalizeName(name1), NormalizeName(name2)
	best := NameMatch{Similarity: normalizedSimilarity(a, b), Format: MatchDirect}

	partsA, partsB := strings.Fields(a), strings.Fields(b)
	if len(partsA) >= 2 && len(partsB) >= 2 {
		reversed := make([]string, len(partsA))
		for i, p := range partsA {
			reversed[len(partsA)-1-i] = p
		}
		if s := normalizedSimilarity(strings.Join(reversed, " "), b); s > best.Similarity {
			best = NameMatch{Similarity: s, Format: MatchReversed}
		}
	}

	if len(partsA) > 0 && len(partsB) > 0 && best.Similarity < 100 {
		surname := normalizedSimilarity(partsA[len(partsA)-1], partsB[len(partsB)-1])
		if surname >= surnameAgreement && best.Similarity >= surnameFloor {
			best = NameMatch{Similarity: min(100, best.Similarity+surnameBonus), Format: MatchSurname}
		}
	}
	return best
}

// NameMatcher classifies name comparisons against configured thresholds.
type NameMatcher struct {
	thresholds NameThresholds
}

// NewNameMatcher creates a NameMatcher.
func NewNameMatcher(t NameThresholds) *NameMatcher {
	return &NameMatcher{thresholds: t}
}

// ValidateNameMatch classifies with the default thresholds.
func ValidateNameMatch(expected, extracted string) NameValidation {
	return NewNameMatcher(DefaultNameThresholds()).Validate(expected, extracted)
}

// Validate compares the expected holder name to the extracted one.
// Only the match tier is valid; the warning tier requires human review.
func (m *NameMatcher) Validate(expected, extracted string) NameValidation {
	best := BestMatch(expected, extracted)
	v := NameValidation{Similarity: best.Similarity, Format: best.Format}
	switch {
	case best.Similarity >= m.thresholds.Match:
		v.IsValid = true
		v.Status = domain.NameMatchStatusMatch
		v.Confidence = domain.ConfidenceHigh
	case best.Similarity >= m.thresholds.Warning:
		v.Status = domain.NameMatchStatusWarning
		v.Confidence = domain.ConfidenceMedium
	default:
		v.Status = domain.NameMatchStatusMismatch
		v.Confidence = domain.ConfidenceLow
	}
	return v
}
