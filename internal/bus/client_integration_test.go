//go:build integration

package bus

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/oncall-labs/triagem/internal/extract"
)

func setupTestClient(t *testing.T) *Client {
	t.Helper()
	url := os.Getenv("NATS_URL")
	if url == "" {
		t.Skip("NATS_URL not set, skipping integration test")
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := NewClient(url, os.Getenv("NATS_TOKEN"), logger)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestIntegration_PublishParsed(t *testing.T) {
	c := setupTestClient(t)
	p := NewPublisher(c)

	sub, err := c.conn.SubscribeSync(SubjectIncidentParsed)
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer sub.Unsubscribe()

	out := extract.Outcome{
		ID:     uuid.New(),
		Status: extract.StatusSuccess,
		Method: extract.MethodGenerative,
		Record: extract.IncidentRecord{
			OccurredAt:   "2025-09-06 14:00",
			Location:     "São Paulo",
			IncidentType: "Falha no servidor principal",
			Impact:       "faturamento fora por 2 horas",
		},
	}
	if err := p.PublishParsed(out, 58); err != nil {
		t.Fatalf("PublishParsed failed: %v", err)
	}

	msg, err := sub.NextMsg(5 * time.Second)
	if err != nil {
		t.Fatalf("no message received: %v", err)
	}

	var event IncidentParsedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if event.OutcomeID != out.ID {
		t.Errorf("OutcomeID = %s, want %s", event.OutcomeID, out.ID)
	}
	if event.Method != extract.MethodGenerative {
		t.Errorf("Method = %q, want generative", event.Method)
	}
	if event.Record != out.Record {
		t.Errorf("Record = %+v, want %+v", event.Record, out.Record)
	}
	if event.SourceLen != 58 {
		t.Errorf("SourceLen = %d, want 58", event.SourceLen)
	}
	if event.Timestamp.IsZero() {
		t.Error("Timestamp not populated")
	}
}
