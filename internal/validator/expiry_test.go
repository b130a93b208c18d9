package validator_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seacrew/internal/domain"
	"seacrew/internal/validator"
	"seacrew/internal/validator/crewdoc"
)

func TestClassifyExpiry(t *testing.T) {
	dates := crewdoc.NewDateNormalizer(nil)
	tests := []struct {
		name      string
		stored    *time.Time
		extracted string
		state     domain.ExpiryState
		days      int
		fromScan  bool
	}{
		{"future scan", nil, "2030-01-01", domain.ExpiryStateValid, 0, true},
		{"expires today", nil, "14-10-2026", domain.ExpiryStateValid, 0, true},
		{"expired yesterday", nil, "13-10-2026", domain.ExpiryStateExpired, 1, true},
		{"sentinel year", nil, "01-01-1899", domain.ExpiryStateToBeDecided, 0, true},
		{"sentinel boundary", nil, "31-12-1900", domain.ExpiryStateToBeDecided, 0, true},
		{"first real year", nil, "01-01-1901", domain.ExpiryStateExpired, 45942, true},
		{"nothing known", nil, "", domain.ExpiryStateToBeDecided, 0, false},
		{"stored fallback", date(2020, time.October, 14), "garbled", domain.ExpiryStateExpired, 2191, false},
		{"scan wins over stored", date(2020, time.October, 14), "2031-05-05", domain.ExpiryStateValid, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validator.ClassifyExpiry(tt.stored, tt.extracted, dates, validator.DefaultExpirySentinelYear, fixedNow)
			assert.Equal(t, tt.state, c.State)
			assert.Equal(t, tt.days, c.DaysExpired)
			assert.Equal(t, tt.fromScan, c.FromScan)
			if tt.state != domain.ExpiryStateToBeDecided || tt.extracted != "" {
				require.NotNil(t, c.Date)
			}
		})
	}
}
