package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oncall-labs/triagem/internal/extract"
)

// ArchivedIncident is one archived extraction result.
type ArchivedIncident struct {
	ID         uuid.UUID              `json:"id"`
	Record     extract.IncidentRecord `json:"incident"`
	Method     extract.Method         `json:"method"`
	SourceText string                 `json:"source_text"`
	CreatedAt  time.Time              `json:"created_at"`
}

// SaveIncident archives one successful extraction outcome.
func (s *Store) SaveIncident(ctx context.Context, out extract.Outcome, sourceText string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO incidents (id, data_ocorrencia, local, tipo_incidente, impacto, method, source_text)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		out.ID, out.Record.OccurredAt, out.Record.Location, out.Record.IncidentType,
		out.Record.Impact, string(out.Method), sourceText,
	)
	if err != nil {
		return fmt.Errorf("insert incident: %w", err)
	}
	return nil
}

// RecentIncidents returns the newest archived incidents, most recent first.
func (s *Store) RecentIncidents(ctx context.Context, limit int) ([]ArchivedIncident, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, data_ocorrencia, local, tipo_incidente, impacto, method, source_text, created_at
		FROM incidents
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query incidents: %w", err)
	}
	defer rows.Close()

	var incidents []ArchivedIncident
	for rows.Next() {
		var inc ArchivedIncident
		var method string
		err := rows.Scan(&inc.ID, &inc.Record.OccurredAt, &inc.Record.Location,
			&inc.Record.IncidentType, &inc.Record.Impact, &method, &inc.SourceText, &inc.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan incident row: %w", err)
		}
		inc.Method = extract.Method(method)
		incidents = append(incidents, inc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate incident rows: %w", err)
	}
	return incidents, nil
}
