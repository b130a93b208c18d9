package crewdoc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"seacrew/internal/domain"
	"seacrew/internal/validator/crewdoc"
)

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "JOHN SMITH", crewdoc.NormalizeName("  john   smith "))
	assert.Equal(t, "OBRIEN PATRICK", crewdoc.NormalizeName("O'Brien, Patrick"))
	assert.Equal(t, "JOSE MUNOZ", crewdoc.NormalizeName("Jose\tMunoz3"))
	assert.Equal(t, "", crewdoc.NormalizeName("123 ., "))
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, crewdoc.Levenshtein("SMITH", "SMITH"))
	assert.Equal(t, 1, crewdoc.Levenshtein("SMITH", "SMYTH"))
	assert.Equal(t, 3, crewdoc.Levenshtein("KITTEN", "SITTING"))
	assert.Equal(t, 5, crewdoc.Levenshtein("", "SMITH"))
	assert.Equal(t, 1, crewdoc.Levenshtein("JOSÉ", "JOSE"))
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"JOHN SMITH", "JOHN SMITH", 100},
		{"john smith", "JOHN  SMITH", 100},
		{"JOHN SMITH", "JON SMITH", 90},
		{"JOHN SMITH", "JOHN SMYTH", 90},
		{"PRIYA NAIR", "PRIYA NAIK", 90},
		{"", "", 0},
		{"", "JOHN", 0},
	}
	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, crewdoc.Similarity(tt.a, tt.b))
		})
	}
	assert.Less(t, crewdoc.Similarity("JOHN SMITH", "JANE DOE"), 40)
}

func TestBestMatch_Reversed(t *testing.T) {
	m := crewdoc.BestMatch("JOHN SMITH", "SMITH JOHN")
	assert.GreaterOrEqual(t, m.Similarity, 90)
	assert.Equal(t, crewdoc.MatchReversed, m.Format)
}

func TestBestMatch_Direct(t *testing.T) {
	m := crewdoc.BestMatch("JOHN SMITH", "JOHN SMITH")
	assert.Equal(t, 100, m.Similarity)
	assert.Equal(t, crewdoc.MatchDirect, m.Format)
}

func TestBestMatch_SurnameBoost(t *testing.T) {
	// Direct similarity is 67 for MOHAMMED ALI vs MOHD ALI; too low for the boost.
	m := crewdoc.BestMatch("MOHAMMED ALI", "MOHD ALI")
	assert.Equal(t, 67, m.Similarity)
	assert.Equal(t, crewdoc.MatchDirect, m.Format)

	m = crewdoc.BestMatch("RAVI KUMAR", "RAVI KUMAR SINGH")
	assert.Equal(t, 63, m.Similarity)

	m = crewdoc.BestMatch("JOHN SMITH", "JON SMITH")
	assert.Equal(t, 100, m.Similarity)
	assert.Equal(t, crewdoc.MatchSurname, m.Format)

	m = crewdoc.BestMatch("ALICE WONG", "ALISE WONG")
	assert.Equal(t, 100, m.Similarity)
	assert.Equal(t, crewdoc.MatchSurname, m.Format)

	// NAIR vs NAIK agrees only 75%, below the surname threshold.
	m = crewdoc.BestMatch("PRIYA NAIR", "PRIYA NAIK")
	assert.Equal(t, 90, m.Similarity)
	assert.Equal(t, crewdoc.MatchDirect, m.Format)
}

func TestBestMatch_SingleTokenSkipsReversal(t *testing.T) {
	m := crewdoc.BestMatch("SMITH", "SMITH JOHN")
	assert.NotEqual(t, crewdoc.MatchReversed, m.Format)
}

func TestValidateNameMatch_Tiers(t *testing.T) {
	match := crewdoc.ValidateNameMatch("John Smith", "JOHN SMITH")
	assert.True(t, match.IsValid)
	assert.Equal(t, domain.NameMatchStatusMatch, match.Status)
	assert.Equal(t, domain.ConfidenceHigh, match.Confidence)

	mismatch := crewdoc.ValidateNameMatch("John Smith", "Jane Doe")
	assert.False(t, mismatch.IsValid)
	assert.Equal(t, domain.NameMatchStatusMismatch, mismatch.Status)
	assert.Equal(t, domain.ConfidenceLow, mismatch.Confidence)
}

func TestNameMatcher_WarningTier(t *testing.T) {
	// 67 direct; a matcher with a 60 warning floor places it in the warning tier.
	m := crewdoc.NewNameMatcher(crewdoc.NameThresholds{Match: 85, Warning: 60})
	v := m.Validate("MOHAMMED ALI", "MOHD ALI")
	assert.False(t, v.IsValid)
	assert.Equal(t, 67, v.Similarity)
	assert.Equal(t, domain.NameMatchStatusWarning, v.Status)
	assert.Equal(t, domain.ConfidenceMedium, v.Confidence)
}

func TestNameMatcher_CustomMatchThreshold(t *testing.T) {
	m := crewdoc.NewNameMatcher(crewdoc.NameThresholds{Match: 95, Warning: 70})
	v := m.Validate("ANNA MARIA", "ANNA MARIE")
	assert.Equal(t, 90, v.Similarity)
	assert.False(t, v.IsValid)
	assert.Equal(t, domain.NameMatchStatusWarning, v.Status)

	v = crewdoc.ValidateNameMatch("ANNA MARIA", "ANNA MARIE")
	assert.True(t, v.IsValid)
}
