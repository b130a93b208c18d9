package crewdoc

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	dateNoise      = regexp.MustCompile(`[^0-9A-Za-z\-/. ]`)
	dateSeparators = regexp.MustCompile(`[\-/. ]+`)
	digitConfusion = strings.NewReplacer("O", "0", "I", "1", "l", "1")
)

// isoLayouts are the layouts accepted by the direct parse step.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// monthPrefix resolves damaged month words by their first two letters. When
// Contains is set the token must also contain that letter.
type monthPrefix struct {
	Prefix   string
	Contains string
	Month    time.Month
}

// MonthTable holds the month vocabulary used by the date normalizer.
// It is built once and never mutated.
type MonthTable struct {
	names    map[string]time.Month
	prefixes []monthPrefix
}

// DefaultMonthTable returns the English month vocabulary.
func DefaultMonthTable() *MonthTable {
	names := make(map[string]time.Month, 30)
	for m := time.January; m <= time.December; m++ {
		full := strings.ToUpper(m.String())
		names[full] = m
		names[full[:3]] = m
	}
	names["SEPT"] = time.September
	return &MonthTable{
		names: names,
		prefixes: []monthPrefix{
			{Prefix: "JA", Month: time.January},
			{Prefix: "FE", Month: time.February},
			{Prefix: "MA", Contains: "R", Month: time.March},
			{Prefix: "MA", Month: time.May},
			{Prefix: "AP", Month: time.April},
			{Prefix: "JU", Contains: "N", Month: time.June},
			{Prefix: "JU", Contains: "L", Month: time.July},
			{Prefix: "AU", Month: time.August},
			{Prefix: "SE", Month: time.September},
			{Prefix: "OC", Month: time.October},
			{Prefix: "NO", Month: time.November},
			{Prefix: "DE", Month: time.December},
		},
	}
}

// lookup resolves an alphabetic month token.
func (t *MonthTable) lookup(token string) (time.Month, bool) {
	word := strings.ReplaceAll(strings.ToUpper(token), "0", "O")
	if m, ok := t.names[word]; ok {
		return m, true
	}
	if len(word) < 2 {
		return 0, false
	}
	for _, p := range t.prefixes {
		if !strings.HasPrefix(word, p.Prefix) {
			continue
		}
		if p.Contains != "" && !strings.Contains(word[len(p.Prefix):], p.Contains) {
			continue
		}
		return p.Month, true
	}
	return 0, false
}

// DateNormalizer parses OCR-damaged date strings into calendar dates.
type DateNormalizer struct {
	months *MonthTable
}

// NewDateNormalizer creates a DateNormalizer. A nil table selects DefaultMonthTable.
func NewDateNormalizer(months *MonthTable) *DateNormalizer {
	if months == nil {
		months = DefaultMonthTable()
	}
	return &DateNormalizer{months: months}
}

var defaultDates = NewDateNormalizer(nil)

// ParseDate parses raw with the default month vocabulary.
func ParseDate(raw string) (time.Time, bool) {
	return defaultDates.ParseDate(raw)
}

// ParseDate returns the calendar date encoded in raw as UTC midnight.
// The boolean is false when no valid date could be recovered.
func (n *DateNormalizer) ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if t, ok := parseISO(raw); ok {
		return t, true
	}

	cleaned := strings.TrimSpace(dateNoise.ReplaceAllString(raw, ""))
	if t, ok := parseISO(digitConfusion.Replace(cleaned)); ok {
		return t, true
	}

	tokens := splitDateTokens(cleaned)
	if len(tokens) < 3 {
		return time.Time{}, false
	}
	first, second, third := tokens[0], tokens[1], tokens[2]

	var dayTok, monthTok, yearTok string
	switch {
	case isYearToken(third):
		// A leading month word means month-day-year; otherwise day-month-year.
		if _, numeric := numericToken(first); numeric {
			dayTok, monthTok = first, second
		} else {
			monthTok, dayTok = first, second
		}
		yearTok = third
	case isYearToken(first):
		yearTok, monthTok, dayTok = first, second, third
	default:
		return time.Time{}, false
	}

	month, ok := n.resolveMonth(monthTok)
	if !ok {
		return time.Time{}, false
	}
	if !isNumber(dayTok, 2) {
		return time.Time{}, false
	}
	day, _ := numericToken(dayTok)
	year, _ := numericToken(yearTok)
	return buildDate(year, month, day)
}

func (n *DateNormalizer) resolveMonth(token string) (time.Month, bool) {
	if v, ok := numericToken(token); ok {
		if !isNumber(token, 2) || v < 1 || v > 12 {
			return 0, false
		}
		return time.Month(v), true
	}
	return n.months.lookup(token)
}

// SameCalendarDay reports whether a and b fall on the same year, month and day.
// Zero times never compare equal.
func SameCalendarDay(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func parseISO(s string) (time.Time, bool) {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

func splitDateTokens(s string) []string {
	parts := dateSeparators.Split(s, -1)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// numericToken parses a token as a number after undoing letter/digit confusion.
func numericToken(token string) (int, bool) {
	fixed := digitConfusion.Replace(token)
	if fixed == "" {
		return 0, false
	}
	for _, r := range fixed {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	v, err := strconv.Atoi(fixed)
	if err != nil {
		return 0, false
	}
	return v, true
}

func isNumber(token string, maxLen int) bool {
	_, ok := numericToken(token)
	return ok && len(digitConfusion.Replace(token)) <= maxLen
}

func isYearToken(token string) bool {
	_, ok := numericToken(token)
	return ok && len(digitConfusion.Replace(token)) == 4
}

func buildDate(year int, month time.Month, day int) (time.Time, bool) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}
