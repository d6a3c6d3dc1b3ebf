// Package patterns holds the ordered extraction rules for each incident
// field. Order is precedence: the first matching pattern wins, there is no
// scoring across patterns. Changing the order of any table changes which
// value is extracted for ambiguous inputs, so the tables are pinned by tests.
package patterns

import (
	"regexp"
	"strconv"
	"strings"
)

// Entry pairs a compiled expression with the capture group holding the value.
type Entry struct {
	Re    *regexp.Regexp
	Group int
}

// Location patterns, tried in order: facility possessive phrase, locative
// preposition followed by a capitalized phrase, explicit "local:" label.
var Location = []Entry{
	{regexp.MustCompile(`(?i)(?:no|na|em|do|da)\s+(escritório|filial|sede|unidade)\s+(?:de|do|da)?\s*([^,.\s]+)`), 2},
	{regexp.MustCompile(`(?i)(?:em|na|no)\s+([A-Z][a-záêçõ\s]+?)(?:\s*,|\s*\.|\s*que|\s*houve)`), 1},
	{regexp.MustCompile(`(?i)local[:\s]+([^,.]+)`), 1},
}

// IncidentType patterns: failure stems followed by a preposition and the
// rest of the clause.
var IncidentType = []Entry{
	{regexp.MustCompile(`(?i)(falha\s+(?:no|na|do|da)\s+[^,.]+)`), 1},
	{regexp.MustCompile(`(?i)(erro\s+(?:no|na|do|da)\s+[^,.]+)`), 1},
	{regexp.MustCompile(`(?i)(problema\s+(?:no|na|do|da)\s+[^,.]+)`), 1},
	{regexp.MustCompile(`(?i)(interrupção\s+(?:no|na|do|da)\s+[^,.]+)`), 1},
	{regexp.MustCompile(`(?i)(pane\s+(?:no|na|do|da)\s+[^,.]+)`), 1},
}

// Impact patterns: affected-systems and duration phrasings.
var Impact = []Entry{
	{regexp.MustCompile(`(?i)(afetou\s+[^,.]+(?:\s+por\s+[^,.]+)?)`), 1},
	{regexp.MustCompile(`(?i)(indisponível\s+por\s+[^,.]+)`), 1},
	{regexp.MustCompile(`(?i)(duração\s+de\s+[^,.]+)`), 1},
	{regexp.MustCompile(`(?i)(por\s+\d+\s+(?:horas?|minutos?|dias?))`), 1},
	{regexp.MustCompile(`(?i)(ficou\s+[^,.]+\s+por\s+[^,.]+)`), 1},
}

// clockPatterns capture an hour and an optional minute: "14h", "14h30",
// "14:00", "às 14".
var clockPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{1,2})h(\d{2})?`),
	regexp.MustCompile(`(\d{1,2}):(\d{2})`),
	regexp.MustCompile(`às (\d{1,2})`),
}

// dayPart maps a day-part word to its default hour, used only when no clock
// pattern matched.
type dayPart struct {
	re   *regexp.Regexp
	hour int
}

var dayParts = []dayPart{
	{regexp.MustCompile(`(?i)pela manhã`), 8},
	{regexp.MustCompile(`(?i)à tarde`), 14},
	{regexp.MustCompile(`(?i)à noite`), 20},
}

// relativeDate maps a relative-date word to a day offset from today. Word
// boundaries keep "anteontem" from matching the "ontem" rule.
type relativeDate struct {
	re     *regexp.Regexp
	offset int
}

var relativeDates = []relativeDate{
	{regexp.MustCompile(`(?i)\bontem\b|\byesterday\b`), -1},
	{regexp.MustCompile(`(?i)\bhoje\b|\btoday\b`), 0},
	{regexp.MustCompile(`(?i)\banteontem\b`), -2},
}

// FirstMatch scans the entries in order and returns the trimmed capture of
// the first one that matches.
func FirstMatch(entries []Entry, text string) (string, bool) {
	for _, e := range entries {
		if m := e.Re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[e.Group]), true
		}
	}
	return "", false
}

// FindClockTime returns the first explicit hour/minute mentioned in text.
func FindClockTime(text string) (hour, minute int, ok bool) {
	lower := strings.ToLower(text)
	for _, re := range clockPatterns {
		m := re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		hour, _ = strconv.Atoi(m[1])
		if len(m) > 2 && m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		return hour, minute, true
	}
	return 0, 0, false
}

// FindDayPart returns the default hour for the first day-part word in text.
func FindDayPart(text string) (hour int, ok bool) {
	for _, dp := range dayParts {
		if dp.re.MatchString(text) {
			return dp.hour, true
		}
	}
	return 0, false
}

// DateOffset returns the day offset implied by the first relative-date word
// in text, or zero (today) when none is present.
func DateOffset(text string) int {
	for _, rd := range relativeDates {
		if rd.re.MatchString(text) {
			return rd.offset
		}
	}
	return 0
}

// HasRelativeDate reports whether text mentions a relative-date word.
func HasRelativeDate(text string) bool {
	for _, rd := range relativeDates {
		if rd.re.MatchString(text) {
			return true
		}
	}
	return false
}
