package api

import (
	"net/http"

	"github.com/oncall-labs/triagem/internal/extract"
)

func (s *Server) models(w http.ResponseWriter, r *http.Request) {
	names, err := s.llm.ListModels(r.Context())
	if err != nil {
		s.logger.Warn("failed to list models", "error", err)
		respondJSON(w, http.StatusBadGateway, map[string]string{
			"status": "error",
			"error":  "could not fetch models from the completion service",
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"models": names,
	})
}

type example struct {
	Input          string                 `json:"input"`
	ExpectedOutput extract.IncidentRecord `json:"expected_output"`
}

// examples documents the extraction contract with canonical fixtures. The
// timestamps are computed against the engine clock so relative dates in the
// inputs stay truthful.
func (s *Server) examples(w http.ResponseWriter, r *http.Request) {
	now := s.engine.Now()
	yesterday := now.AddDate(0, 0, -1).Format("2006-01-02")
	today := now.Format("2006-01-02")

	respondJSON(w, http.StatusOK, map[string]any{
		"examples": []example{
			{
				Input: "Ontem às 14h, no escritório de São Paulo, houve uma falha no servidor principal que afetou o sistema de faturamento por 2 horas.",
				ExpectedOutput: extract.IncidentRecord{
					OccurredAt:   yesterday + " 14:00",
					Location:     "São Paulo",
					IncidentType: "Falha no servidor principal",
					Impact:       "afetou o sistema de faturamento por 2 horas",
				},
			},
			{
				Input: "Hoje pela manhã ocorreu um problema na rede da filial Rio de Janeiro que deixou o sistema indisponível por 30 minutos.",
				ExpectedOutput: extract.IncidentRecord{
					OccurredAt:   today + " 08:00",
					Location:     "Rio de Janeiro",
					IncidentType: "Problema na rede",
					Impact:       "sistema indisponível por 30 minutos",
				},
			},
			{
				Input: "Falha no banco de dados em Brasília durou 1 hora e afetou todas as operações.",
				ExpectedOutput: extract.IncidentRecord{
					OccurredAt:   today + " 00:00",
					Location:     "Brasília",
					IncidentType: "Falha no banco de dados",
					Impact:       "durou 1 hora e afetou todas as operações",
				},
			},
		},
	})
}

func (s *Server) incidents(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		respondError(w, http.StatusServiceUnavailable, "incident archive not configured")
		return
	}

	recent, err := s.archive.RecentIncidents(r.Context(), 50)
	if err != nil {
		s.logger.Error("failed to query archived incidents", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to query archived incidents")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"incidents": recent,
		"count":     len(recent),
	})
}
