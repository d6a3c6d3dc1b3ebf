// Package extract turns free-form incident text into a structured
// four-field record. The generative model is tried first; any failure on
// that path falls through to the deterministic pattern extractor, so the
// caller always receives a populated record.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/oncall-labs/triagem/internal/normalize"
	"github.com/oncall-labs/triagem/internal/ollama"
)

// BatchLimit caps the number of texts accepted in a single batch call.
const BatchLimit = 100

// ErrBatchLimit is returned before any item is processed when a batch
// exceeds BatchLimit.
var ErrBatchLimit = errors.New("batch size exceeds limit")

// Engine orchestrates the two extraction strategies. It is stateless per
// invocation and safe for concurrent use.
type Engine struct {
	llm    *ollama.Client
	logger *slog.Logger
	now    func() time.Time
}

func New(llm *ollama.Client, logger *slog.Logger) *Engine {
	return &Engine{llm: llm, logger: logger, now: time.Now}
}

// Now returns the engine's clock reading. The boundary layer uses it so
// degraded records carry the same reference time as extracted ones.
func (e *Engine) Now() time.Time {
	return e.now()
}

// Parse extracts a structured record from text using the default model.
func (e *Engine) Parse(ctx context.Context, text string) Outcome {
	return e.ParseWithModel(ctx, text, "")
}

// ParseWithModel tries the generative path once, then the deterministic
// fallback once. A panic during extraction is converted into an
// error-status outcome carrying a degraded record; no error ever escapes.
func (e *Engine) ParseWithModel(ctx context.Context, text, model string) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("extraction panicked", "panic", r)
			out = NewErrorOutcome(text, fmt.Sprintf("parsing failed: %v", r), e.now())
		}
	}()

	out = Outcome{ID: uuid.New()}

	normalized := normalize.Normalize(text, e.now())

	rec, err := e.extractGenerative(ctx, normalized, text, model)
	if err == nil {
		out.Status = StatusSuccess
		out.Method = MethodGenerative
		out.Record = rec
		return out
	}

	e.logger.Warn("generative extraction failed, using pattern fallback", "error", err)

	out.Status = StatusSuccess
	out.Method = MethodFallback
	out.Record = ExtractFallback(text, e.now())
	return out
}

// ParseBatch processes texts sequentially in input order, one isolated
// outcome per text. Batches over BatchLimit are rejected before any item is
// processed. Cancellation stops before the next item's generative call;
// outcomes already produced are returned alongside the context error.
func (e *Engine) ParseBatch(ctx context.Context, texts []string) ([]Outcome, error) {
	if len(texts) > BatchLimit {
		return nil, fmt.Errorf("%w: %d items, maximum %d", ErrBatchLimit, len(texts), BatchLimit)
	}

	outcomes := make([]Outcome, 0, len(texts))
	for _, text := range texts {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, e.Parse(ctx, text))
	}
	return outcomes, nil
}
