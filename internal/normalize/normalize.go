// Package normalize cleans raw incident text before extraction. The
// transform is pure and idempotent: re-normalizing its own output is a
// fixed point, which keeps injected markers from stacking up.
package normalize

import (
	"regexp"
	"strings"
	"time"

	"github.com/oncall-labs/triagem/internal/patterns"
)

// TimeUnspecifiedMarker is appended when a relative date carries no time
// indicator, so the model does not invent one.
const TimeUnspecifiedMarker = "(horário não especificado)"

var (
	spaceRe     = regexp.MustCompile(`\s+`)
	commaRe     = regexp.MustCompile(`\s*,\s*`)
	periodRe    = regexp.MustCompile(`\s*\.\s*`)
	referenceRe = regexp.MustCompile(`\[Referência: \d{4}-\d{2}-\d{2}\]`)

	// Time indicators: explicit clocks plus day-part words. Presence of any
	// of these suppresses the time-unspecified marker.
	timeIndicatorRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\d{1,2}h`),
		regexp.MustCompile(`(?i)\d{1,2}:\d{2}`),
		regexp.MustCompile(`(?i)às \d+`),
		regexp.MustCompile(`(?i)pela manhã`),
		regexp.MustCompile(`(?i)à tarde`),
		regexp.MustCompile(`(?i)à noite`),
	}
)

// Normalize cleans whitespace and punctuation, guarantees a sentence
// terminator, and annotates relative dates with a time-unspecified marker
// and a reference date anchored at now.
func Normalize(text string, now time.Time) string {
	t := strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
	t = commaRe.ReplaceAllString(t, ", ")
	t = periodRe.ReplaceAllString(t, ". ")
	t = strings.TrimSpace(t)

	if t != "" && !strings.HasSuffix(t, ".") && !strings.HasSuffix(t, ")") && !strings.HasSuffix(t, "]") {
		t += "."
	}

	if patterns.HasRelativeDate(t) {
		if !hasTimeIndicator(t) && !strings.Contains(t, TimeUnspecifiedMarker) {
			t += " " + TimeUnspecifiedMarker
		}
		if !referenceRe.MatchString(t) {
			t += " [Referência: " + now.Format("2006-01-02") + "]"
		}
	}

	return t
}

func hasTimeIndicator(text string) bool {
	for _, re := range timeIndicatorRes {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
