package extract

import (
	"time"

	"github.com/oncall-labs/triagem/internal/patterns"
)

// ExtractFallback runs the deterministic pattern-based extraction against
// the raw text. Every field fails closed to its sentinel; the impact field
// degrades to a truncated copy of the text instead.
func ExtractFallback(text string, now time.Time) IncidentRecord {
	return IncidentRecord{
		OccurredAt:   extractDate(text, now),
		Location:     extractLocation(text),
		IncidentType: extractIncidentType(text),
		Impact:       extractImpact(text),
	}
}

// extractDate resolves a relative-date word against now, then overlays the
// first explicit clock time. A day-part word (pela manhã, à tarde, à noite)
// supplies a default hour only when no clock time is present; otherwise the
// time defaults to 00:00.
func extractDate(text string, now time.Time) string {
	base := now.AddDate(0, 0, patterns.DateOffset(text))

	hour, minute, ok := patterns.FindClockTime(text)
	if !ok {
		if h, found := patterns.FindDayPart(text); found {
			hour = h
		}
	}

	ts := time.Date(base.Year(), base.Month(), base.Day(), hour, minute, 0, 0, base.Location())
	return ts.Format("2006-01-02 15:04")
}

func extractLocation(text string) string {
	if loc, ok := patterns.FirstMatch(patterns.Location, text); ok {
		return loc
	}
	return LocationUnknown
}

func extractIncidentType(text string) string {
	if typ, ok := patterns.FirstMatch(patterns.IncidentType, text); ok {
		return capitalize(typ)
	}
	return TypeUnknown
}

func extractImpact(text string) string {
	if impact, ok := patterns.FirstMatch(patterns.Impact, text); ok {
		return impact
	}
	return truncate(text, maxImpactRunes)
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	first := runes[0]
	if 'a' <= first && first <= 'z' {
		runes[0] = first - ('a' - 'A')
	}
	return string(runes)
}
