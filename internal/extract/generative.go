package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// modelPayload is the structured object the model is instructed to return.
// A type mismatch on any field makes the whole payload malformed, which is
// treated as a generative failure.
type modelPayload struct {
	DataOcorrencia string `json:"data_ocorrencia"`
	Local          string `json:"local"`
	TipoIncidente  string `json:"tipo_incidente"`
	Impacto        string `json:"impacto"`
}

// extractGenerative builds the constrained prompt for normalized, asks the
// model, and validates the payload. Missing fields are repaired with their
// sentinels rather than rejected; source is the raw text used for the
// impact field's truncated-copy repair.
func (e *Engine) extractGenerative(ctx context.Context, normalized, source, model string) (IncidentRecord, error) {
	prompt := fmt.Sprintf(parsingPrompt, e.now().Format("2006-01-02"), normalized)

	raw, err := e.llm.Generate(ctx, model, prompt)
	if err != nil {
		return IncidentRecord{}, fmt.Errorf("generate: %w", err)
	}

	var payload modelPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &payload); err != nil {
		return IncidentRecord{}, fmt.Errorf("parse model output: %w", err)
	}

	rec := IncidentRecord{
		OccurredAt:   payload.DataOcorrencia,
		Location:     payload.Local,
		IncidentType: payload.TipoIncidente,
		Impact:       payload.Impacto,
	}
	if rec.OccurredAt == "" {
		rec.OccurredAt = sentinelTimestamp(e.now())
	}
	if rec.Location == "" {
		rec.Location = LocationUnknown
	}
	if rec.IncidentType == "" {
		rec.IncidentType = TypeUnknown
	}
	if rec.Impact == "" {
		rec.Impact = truncate(source, maxImpactRunes)
	}
	return rec, nil
}
