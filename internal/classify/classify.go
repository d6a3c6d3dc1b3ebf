// Package classify decides whether a message should go through incident
// extraction at all. The gate lives at the boundary (HTTP handler, REPL),
// never inside the engine, so the engine's output shape is identical
// whichever classifier is wired in.
package classify

import "strings"

const parsePrefix = "Parse:"

// Classifier is the pluggable "should I parse this?" gate.
type Classifier interface {
	// ShouldParse reports whether message looks like an incident report or
	// an explicit parsing command.
	ShouldParse(message string) bool
	// ExtractText strips any parsing-command wrapper and returns the text
	// to feed the engine.
	ExtractText(message string) string
}

// incidentIndicators are words that mark a message as an incident report.
var incidentIndicators = []string{
	"falha", "erro", "problema", "incidente", "pane",
	"indisponível", "offline", "parou", "caiu",
	"failure", "error", "issue", "down", "crash",
}

// parsingKeywords are explicit commands asking for structured extraction.
var parsingKeywords = []string{
	"parse", "estruturar", "extrair", "parsear", "analisar",
	"structure", "extract", "analyze",
}

// Keyword is the rule-based default: a small indicator list plus the
// "Parse:" prefix convention.
type Keyword struct{}

func (Keyword) ShouldParse(message string) bool {
	if strings.HasPrefix(message, parsePrefix) {
		return true
	}
	lower := strings.ToLower(message)
	for _, kw := range []string{"falha", "erro", "problema", "incidente", "servidor", "rede", "sistema"} {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func (Keyword) ExtractText(message string) string {
	if strings.HasPrefix(message, parsePrefix) {
		return strings.TrimSpace(strings.TrimPrefix(message, parsePrefix))
	}
	return message
}

// Instruction is the enhanced gate: it accepts explicit parsing commands in
// both languages and the wider incident-indicator set, and strips command
// text before extraction.
type Instruction struct{}

func (Instruction) ShouldParse(message string) bool {
	if strings.HasPrefix(message, parsePrefix) {
		return true
	}
	lower := strings.ToLower(message)
	for _, kw := range parsingKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	for _, ind := range incidentIndicators {
		if strings.Contains(lower, ind) {
			return true
		}
	}
	return false
}

func (Instruction) ExtractText(message string) string {
	if strings.HasPrefix(message, parsePrefix) {
		return strings.TrimSpace(strings.TrimPrefix(message, parsePrefix))
	}

	lower := strings.ToLower(message)
	for _, kw := range parsingKeywords {
		idx := strings.Index(lower, kw)
		if idx < 0 {
			continue
		}
		rest := strings.TrimSpace(message[idx+len(kw):])
		rest = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
		if rest != "" {
			return rest
		}
	}
	return message
}
