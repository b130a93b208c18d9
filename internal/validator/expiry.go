package validator

import (
	"time"

	"seacrew/internal/domain"
	"seacrew/internal/validator/crewdoc"
)

// DefaultExpirySentinelYear is the latest year treated as a placeholder rather than a real expiry.
const DefaultExpirySentinelYear = 1900

// ExpiryClassification is the expiry state of a document as of a given day.
type ExpiryClassification struct {
	State       domain.ExpiryState
	Date        *time.Time
	DaysExpired int
	// FromScan is true when Date came from the scanned document rather than the record.
	FromScan bool
}

// ClassifyExpiry decides whether a document is valid, expired or awaiting a decision.
// A parseable scanned expiry takes precedence over the stored one. Missing dates and
// dates in or before sentinelYear are to be decided.
func ClassifyExpiry(stored *time.Time, extracted string, dates *crewdoc.DateNormalizer, sentinelYear int, now time.Time) ExpiryClassification {
	var c ExpiryClassification
	if d, ok := dates.ParseDate(extracted); ok {
		c.Date, c.FromScan = &d, true
	} else if stored != nil && !stored.IsZero() {
		d := truncateDay(*stored)
		c.Date = &d
	}

	if c.Date == nil || c.Date.Year() <= sentinelYear {
		c.State = domain.ExpiryStateToBeDecided
		return c
	}

	today := truncateDay(now)
	if c.Date.Before(today) {
		c.State = domain.ExpiryStateExpired
		c.DaysExpired = int(today.Sub(*c.Date).Hours() / 24)
		return c
	}
	c.State = domain.ExpiryStateValid
	return c
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsSentinelDate reports whether t is a placeholder expiry.
func IsSentinelDate(t time.Time, sentinelYear int) bool {
	return t.Year() <= sentinelYear
}
