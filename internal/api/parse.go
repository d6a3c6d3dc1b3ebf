package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/oncall-labs/triagem/internal/extract"
)

// ParseRequest is one incident description to extract. Model overrides the
// configured default for this request only.
type ParseRequest struct {
	Description string `json:"description"`
	Model       string `json:"model,omitempty"`
}

// helpPayload is returned when the classifier gate decides the input is not
// an incident description.
var helpPayload = map[string]any{
	"message": "Please provide an incident description to parse",
	"examples": []string{
		"Parse: Ontem às 14h houve falha no servidor de São Paulo",
		"Falha na rede durou 2 horas no escritório RJ",
		"Sistema de banco indisponível por 30 minutos",
	},
	"expected_output": map[string]string{
		"data_ocorrencia": "YYYY-MM-DD HH:MM",
		"local":           "Location",
		"tipo_incidente":  "Incident type",
		"impacto":         "Impact description",
	},
}

func (s *Server) parse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		respondError(w, http.StatusBadRequest, "description cannot be empty")
		return
	}

	if !s.classifier.ShouldParse(req.Description) {
		respondJSON(w, http.StatusOK, helpPayload)
		return
	}

	text := s.classifier.ExtractText(req.Description)
	out := s.engine.ParseWithModel(r.Context(), text, req.Model)
	s.deliver(r, out, text)
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) parseBatch(w http.ResponseWriter, r *http.Request) {
	var reqs []ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(reqs) > extract.BatchLimit {
		respondError(w, http.StatusBadRequest, "maximum 100 incidents per batch")
		return
	}

	outcomes := make([]extract.Outcome, 0, len(reqs))
	for _, req := range reqs {
		if err := r.Context().Err(); err != nil {
			s.logger.Warn("batch cancelled", "completed", len(outcomes), "error", err)
			break
		}
		outcomes = append(outcomes, s.parseOne(r, req))
	}
	respondJSON(w, http.StatusOK, outcomes)
}

// parseOne applies the same gate and extraction as the single-parse
// endpoint but keeps batch output uniform: gated or blank items become
// error-status outcomes with a degraded record instead of a help payload.
func (s *Server) parseOne(r *http.Request, req ParseRequest) extract.Outcome {
	if strings.TrimSpace(req.Description) == "" {
		return extract.NewErrorOutcome(req.Description, "description cannot be empty", s.engine.Now())
	}
	if !s.classifier.ShouldParse(req.Description) {
		return extract.NewErrorOutcome(req.Description, "not recognized as an incident description", s.engine.Now())
	}

	text := s.classifier.ExtractText(req.Description)
	out := s.engine.ParseWithModel(r.Context(), text, req.Model)
	s.deliver(r, out, text)
	return out
}

// deliver forwards a successful outcome to the optional downstream
// collaborators. Failures are logged, never surfaced to the caller.
func (s *Server) deliver(r *http.Request, out extract.Outcome, text string) {
	if out.Status != extract.StatusSuccess {
		return
	}
	if s.publisher != nil {
		if err := s.publisher.PublishParsed(out, len(text)); err != nil {
			s.logger.Warn("failed to publish parsed incident", "outcome_id", out.ID, "error", err)
		}
	}
	if s.archive != nil {
		if err := s.archive.SaveIncident(r.Context(), out, text); err != nil {
			s.logger.Warn("failed to archive incident", "outcome_id", out.ID, "error", err)
		}
	}
}
