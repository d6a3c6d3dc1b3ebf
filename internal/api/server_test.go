package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/oncall-labs/triagem/internal/classify"
	"github.com/oncall-labs/triagem/internal/extract"
	"github.com/oncall-labs/triagem/internal/ollama"
)

const modelPayload = `{"data_ocorrencia":"2025-09-06 14:00","local":"São Paulo","tipo_incidente":"Falha no servidor principal","impacto":"faturamento fora por 2 horas"}`

// workingOllama fakes a healthy completion service: tags lists one model and
// generate always returns modelPayload.
func workingOllama() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"models":[{"name":"tinyllama"}]}`))
	})
	mux.HandleFunc("/api/generate", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"response": modelPayload, "done": true})
	})
	return mux
}

func brokenOllama() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusInternalServerError)
	})
}

func newTestServer(t *testing.T, backend http.Handler, apiToken string) *Server {
	t.Helper()
	fake := httptest.NewServer(backend)
	t.Cleanup(fake.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	llm := ollama.NewClient(fake.URL, "tinyllama")
	engine := extract.New(llm, logger)
	return NewServer(8760, apiToken, engine, llm, classify.Instruction{}, nil, nil, logger)
}

func doJSON(t *testing.T, s *Server, method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, workingOllama(), "")
	w := doJSON(t, s, http.MethodGet, "/health", nil, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["status"] != "healthy" || resp["ollama_status"] != "connected" {
		t.Errorf("resp = %v", resp)
	}
}

func TestHealth_OllamaDown(t *testing.T) {
	s := newTestServer(t, brokenOllama(), "")
	w := doJSON(t, s, http.MethodGet, "/health", nil, nil)

	// Degraded, not dead: the fallback path still serves requests.
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["status"] != "unhealthy" || resp["ollama_status"] != "error" {
		t.Errorf("resp = %v", resp)
	}
}

func TestParse(t *testing.T) {
	s := newTestServer(t, workingOllama(), "")
	w := doJSON(t, s, http.MethodPost, "/api/v1/parse",
		ParseRequest{Description: "Parse: Ontem às 14h houve falha no servidor de São Paulo"}, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var out extract.Outcome
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Status != extract.StatusSuccess || out.Method != extract.MethodGenerative {
		t.Errorf("status/method = %q/%q", out.Status, out.Method)
	}
	if out.Record.Location != "São Paulo" {
		t.Errorf("Location = %q", out.Record.Location)
	}
}

func TestParse_AccentsNotEscaped(t *testing.T) {
	s := newTestServer(t, workingOllama(), "")
	w := doJSON(t, s, http.MethodPost, "/api/v1/parse",
		ParseRequest{Description: "Parse: falha no servidor de São Paulo"}, nil)

	if !strings.Contains(w.Body.String(), "São Paulo") {
		t.Errorf("body escaped accented characters: %s", w.Body.String())
	}
}

func TestParse_EmptyDescription(t *testing.T) {
	s := newTestServer(t, workingOllama(), "")
	w := doJSON(t, s, http.MethodPost, "/api/v1/parse", ParseRequest{Description: "   "}, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestParse_InvalidBody(t *testing.T) {
	s := newTestServer(t, workingOllama(), "")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse", strings.NewReader("not json"))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestParse_NonIncidentGetsHelp(t *testing.T) {
	s := newTestServer(t, workingOllama(), "")
	w := doJSON(t, s, http.MethodPost, "/api/v1/parse", ParseRequest{Description: "Hello world"}, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["message"] != "Please provide an incident description to parse" {
		t.Errorf("expected help payload, got %v", resp)
	}
}

func TestParseBatch(t *testing.T) {
	s := newTestServer(t, workingOllama(), "")
	w := doJSON(t, s, http.MethodPost, "/api/v1/parse/batch", []ParseRequest{
		{Description: "Parse: falha no servidor ontem"},
		{Description: "Hello world"},
	}, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var outcomes []extract.Outcome
	if err := json.Unmarshal(w.Body.Bytes(), &outcomes); err != nil {
		t.Fatal(err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("len(outcomes) = %d, want 2", len(outcomes))
	}
	if outcomes[0].Status != extract.StatusSuccess {
		t.Errorf("outcomes[0].Status = %q, want success", outcomes[0].Status)
	}
	if outcomes[1].Status != extract.StatusError {
		t.Errorf("outcomes[1].Status = %q, want error for a gated item", outcomes[1].Status)
	}
	if outcomes[1].Record.IncidentType != extract.TypeError {
		t.Errorf("outcomes[1].Record.IncidentType = %q, want %q", outcomes[1].Record.IncidentType, extract.TypeError)
	}
}

func TestParseBatch_OverLimit(t *testing.T) {
	s := newTestServer(t, workingOllama(), "")
	reqs := make([]ParseRequest, extract.BatchLimit+1)
	for i := range reqs {
		reqs[i] = ParseRequest{Description: "falha no servidor"}
	}
	w := doJSON(t, s, http.MethodPost, "/api/v1/parse/batch", reqs, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "maximum 100 incidents per batch") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestBearerAuth(t *testing.T) {
	s := newTestServer(t, workingOllama(), "secret")

	w := doJSON(t, s, http.MethodPost, "/api/v1/parse",
		ParseRequest{Description: "Parse: falha no servidor"}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status without token = %d, want 401", w.Code)
	}

	header := http.Header{"Authorization": {"Bearer secret"}}
	w = doJSON(t, s, http.MethodPost, "/api/v1/parse",
		ParseRequest{Description: "Parse: falha no servidor"}, header)
	if w.Code != http.StatusOK {
		t.Fatalf("status with token = %d, want 200", w.Code)
	}

	// Health stays open for probes.
	w = doJSON(t, s, http.MethodGet, "/health", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d, want 200", w.Code)
	}
}

func TestModels(t *testing.T) {
	s := newTestServer(t, workingOllama(), "")
	w := doJSON(t, s, http.MethodGet, "/api/v1/models", nil, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Status string   `json:"status"`
		Models []string `json:"models"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Status != "success" || len(resp.Models) != 1 || resp.Models[0] != "tinyllama" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestModels_ServiceDown(t *testing.T) {
	s := newTestServer(t, brokenOllama(), "")
	w := doJSON(t, s, http.MethodGet, "/api/v1/models", nil, nil)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
}

func TestExamples(t *testing.T) {
	s := newTestServer(t, workingOllama(), "")
	w := doJSON(t, s, http.MethodGet, "/api/v1/examples", nil, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Examples []example `json:"examples"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Examples) != 3 {
		t.Fatalf("len(examples) = %d, want 3", len(resp.Examples))
	}
	if resp.Examples[0].ExpectedOutput.Location != "São Paulo" {
		t.Errorf("examples[0].Location = %q", resp.Examples[0].ExpectedOutput.Location)
	}
	for i, ex := range resp.Examples {
		if ex.Input == "" || ex.ExpectedOutput.OccurredAt == "" {
			t.Errorf("examples[%d] incomplete: %+v", i, ex)
		}
	}
}

func TestIncidents_NoArchive(t *testing.T) {
	s := newTestServer(t, workingOllama(), "")
	w := doJSON(t, s, http.MethodGet, "/api/v1/incidents", nil, nil)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
}
