package bus

import (
	"time"

	"github.com/google/uuid"
	"github.com/oncall-labs/triagem/internal/extract"
)

// SubjectIncidentParsed carries every successfully parsed incident record.
const SubjectIncidentParsed = "triagem.incident.parsed"

// IncidentParsedEvent is the payload downstream consumers receive. The
// record inside uses the same four-key JSON contract as the API.
type IncidentParsedEvent struct {
	OutcomeID uuid.UUID              `json:"outcome_id"`
	Method    extract.Method         `json:"method"`
	Record    extract.IncidentRecord `json:"incident"`
	SourceLen int                    `json:"source_len"`
	Timestamp time.Time              `json:"timestamp"`
}

// Publisher emits parsed-incident events.
type Publisher struct {
	client *Client
}

func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

// PublishParsed publishes the outcome of one extraction. sourceLen is the
// length of the original text; the text itself is not republished.
func (p *Publisher) PublishParsed(out extract.Outcome, sourceLen int) error {
	event := IncidentParsedEvent{
		OutcomeID: out.ID,
		Method:    out.Method,
		Record:    out.Record,
		SourceLen: sourceLen,
		Timestamp: time.Now().UTC(),
	}
	return p.client.Publish(SubjectIncidentParsed, event)
}
