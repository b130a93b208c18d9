package extractor

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const defaultRetryAfter = 60 * time.Second

// ErrNoUsableFields marks a provider reply that parsed but named no document field.
var ErrNoUsableFields = errors.New("no document fields in extractor output")

// RateLimitError indicates an extraction provider returned HTTP 429.
type RateLimitError struct {
	Provider   string
	RetryAfter time.Duration
	Err        error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited (retry after %s): %v", e.Provider, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// NewRateLimitError creates a RateLimitError. A non-positive retryAfterSecs means 60s.
func NewRateLimitError(provider string, err error, retryAfterSecs int) *RateLimitError {
	wait := time.Duration(retryAfterSecs) * time.Second
	if wait <= 0 {
		wait = defaultRetryAfter
	}
	return &RateLimitError{Provider: provider, RetryAfter: wait, Err: err}
}

// ParseRetryAfterHeader returns the wait in whole seconds named by a Retry-After
// header, given either as delay-seconds or as an HTTP date. Missing, malformed
// or past values give 0.
func ParseRetryAfterHeader(val string) int {
	val = strings.TrimSpace(val)
	if val == "" {
		return 0
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return max(secs, 0)
	}
	at, err := http.ParseTime(val)
	if err != nil {
		return 0
	}
	wait := time.Until(at)
	if wait <= 0 {
		return 0
	}
	return int((wait + time.Second - 1) / time.Second)
}

// ExtractionError is a transport, malformed-response or empty-response failure of one provider.
type ExtractionError struct {
	Provider string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s extraction failed: %v", e.Provider, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Failed wraps err as an ExtractionError for provider.
func Failed(provider string, err error) error {
	return &ExtractionError{Provider: provider, Err: err}
}
