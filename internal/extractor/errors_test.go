package extractor_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"seacrew/internal/extractor"
)

func TestNewRateLimitError_DefaultRetryAfter(t *testing.T) {
	err := extractor.NewRateLimitError("claude", errors.New("429"), 0)

	assert.Equal(t, 60*time.Second, err.RetryAfter)
	assert.Contains(t, err.Error(), "claude rate limited")
}

func TestParseRetryAfterHeader(t *testing.T) {
	assert.Equal(t, 0, extractor.ParseRetryAfterHeader(""))
	assert.Equal(t, 0, extractor.ParseRetryAfterHeader("Wed, 21 Oct 2015 07:28:00 GMT"))
	assert.Equal(t, 30, extractor.ParseRetryAfterHeader("30"))
	assert.Equal(t, 0, extractor.ParseRetryAfterHeader("-5"))
}

func TestParseRetryAfterHeader_HTTPDate(t *testing.T) {
	at := time.Now().Add(90 * time.Second).UTC().Format(http.TimeFormat)

	secs := extractor.ParseRetryAfterHeader(at)

	assert.GreaterOrEqual(t, secs, 85)
	assert.LessOrEqual(t, secs, 91)
}

func TestExtractionError_Unwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := extractor.Failed("gemini", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "gemini extraction failed: connection reset", err.Error())
}
