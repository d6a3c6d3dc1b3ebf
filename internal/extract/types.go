package extract

import (
	"time"

	"github.com/google/uuid"
)

// Sentinel values for fields that could not be determined. The impact field
// has no sentinel: it degrades to a truncated copy of the source text.
const (
	LocationUnknown = "N/A"
	TypeUnknown     = "Incidente não especificado"
	TypeError       = "Erro no processamento"
)

// maxImpactRunes bounds the truncated-source fallback for the impact field.
const maxImpactRunes = 100

// IncidentRecord is the four-field structured result. The JSON keys are the
// compatibility contract for every consumer and must not change.
type IncidentRecord struct {
	OccurredAt   string `json:"data_ocorrencia"`
	Location     string `json:"local"`
	IncidentType string `json:"tipo_incidente"`
	Impact       string `json:"impacto"`
}

type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

type Method string

const (
	MethodGenerative Method = "generative"
	MethodFallback   Method = "fallback"
)

// Outcome wraps a record with diagnostics about how it was produced. The
// record is always populated, whatever the status.
type Outcome struct {
	ID      uuid.UUID      `json:"id"`
	Status  Status         `json:"status"`
	Method  Method         `json:"method,omitempty"`
	Record  IncidentRecord `json:"incident"`
	Message string         `json:"message,omitempty"`
}

// NewErrorOutcome builds the degraded record returned when extraction itself
// fails: sentinels everywhere except impact, which keeps a bounded prefix of
// the original text.
func NewErrorOutcome(text, message string, now time.Time) Outcome {
	return Outcome{
		ID:      uuid.New(),
		Status:  StatusError,
		Message: message,
		Record: IncidentRecord{
			OccurredAt:   sentinelTimestamp(now),
			Location:     LocationUnknown,
			IncidentType: TypeError,
			Impact:       truncate(text, maxImpactRunes),
		},
	}
}

func sentinelTimestamp(now time.Time) string {
	return now.Format("2006-01-02") + " 00:00"
}

func truncate(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
