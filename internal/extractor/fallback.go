package extractor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"seacrew/internal/port"
)

// link is one provider of a FallbackExtractor and its rate-limit cooldown.
type link struct {
	name      string
	extractor port.DocumentExtractor

	mu        sync.Mutex
	coolUntil time.Time
}

func (l *link) cooling(now time.Time) (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.coolUntil, now.Before(l.coolUntil)
}

func (l *link) coolDown(until time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.coolUntil = until
}

// FallbackExtractor reads a scan with each provider in order until one returns
// document fields it is confident about. Providers that were rate limited are
// skipped until their Retry-After passes. A reply with no document fields counts
// as a provider failure. When every reply is below the confidence floor, the
// reply with the most document fields wins. It implements port.DocumentExtractor.
type FallbackExtractor struct {
	links         []*link
	minConfidence float64
	now           func() time.Time
}

// NewFallbackExtractor creates a FallbackExtractor from an ordered list of extractors and their names.
func NewFallbackExtractor(extractors []port.DocumentExtractor, names []string) *FallbackExtractor {
	links := make([]*link, len(extractors))
	for i, e := range extractors {
		links[i] = &link{name: names[i], extractor: e}
	}
	return &FallbackExtractor{links: links, now: time.Now}
}

// WithMinConfidence sets the OCR confidence below which the next provider is
// also consulted. A reply reporting no confidence (0) is taken at face value.
func (f *FallbackExtractor) WithMinConfidence(c float64) *FallbackExtractor {
	f.minConfidence = c
	return f
}

func (f *FallbackExtractor) confident(out *port.ExtractOutput) bool {
	c := out.Fields.Confidence
	return f.minConfidence <= 0 || c == 0 || c >= f.minConfidence
}

func (f *FallbackExtractor) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	now := f.now()
	var (
		best      *port.ExtractOutput
		lastErr   error
		limited   int
		nextReset time.Time
	)
	noteReset := func(at time.Time) {
		limited++
		if nextReset.IsZero() || at.Before(nextReset) {
			nextReset = at
		}
	}

	for _, l := range f.links {
		if until, ok := l.cooling(now); ok {
			log.Printf("extractor.FallbackExtractor: skipping %s (rate limited until %s)", l.name, until.Format(time.RFC3339))
			noteReset(until)
			continue
		}

		out, err := l.extractor.Extract(ctx, input)
		if err == nil && (out == nil || out.Fields.PopulatedFields() == 0) {
			err = Failed(l.name, ErrNoUsableFields)
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Printf("extractor.FallbackExtractor: %s failed: %v", l.name, err)
			lastErr = err
			var rl *RateLimitError
			if errors.As(err, &rl) {
				until := now.Add(rl.RetryAfter)
				l.coolDown(until)
				noteReset(until)
			}
			continue
		}

		if f.confident(out) {
			return out, nil
		}
		log.Printf("extractor.FallbackExtractor: %s confidence %.2f below %.2f, trying next provider",
			l.name, out.Fields.Confidence, f.minConfidence)
		if best == nil || out.Fields.PopulatedFields() > best.Fields.PopulatedFields() {
			best = out
		}
	}

	if best != nil {
		return best, nil
	}
	if limited == len(f.links) {
		wait := max(nextReset.Sub(now), time.Second)
		return nil, NewRateLimitError("all", errors.New("all extractors rate limited"), int(wait.Seconds()))
	}
	return nil, fmt.Errorf("all extractors failed: %w", lastErr)
}
