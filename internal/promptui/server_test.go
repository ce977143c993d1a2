package promptui

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"promstack/pkg/types"
)

type stubLLM struct {
	replies []string
	err     error
	prompts []string
}

func (s *stubLLM) Generate(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	reply := s.replies[0]
	if len(s.replies) > 1 {
		s.replies = s.replies[1:]
	}
	return reply, nil
}

type stubMetrics struct {
	names    []string
	namesErr error
	result   json.RawMessage
	queryErr error
	queries  []string
}

func (s *stubMetrics) MetricNames(ctx context.Context, limit int) ([]string, error) {
	return s.names, s.namesErr
}

func (s *stubMetrics) Query(ctx context.Context, promql string) (json.RawMessage, error) {
	s.queries = append(s.queries, promql)
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	return s.result, nil
}

func testService(llm *stubLLM, metrics *stubMetrics) *Service {
	return &Service{
		LLM:           llm,
		Metrics:       metrics,
		Model:         "llama3.2:1b",
		PrometheusURL: "http://prometheus:9090",
		MCPServerURL:  "http://mcp:8080",
		Log:           zerolog.Nop(),
	}
}

func TestTranslate_HappyPath(t *testing.T) {
	llm := &stubLLM{replies: []string{"```rate(demo_requests_total[5m])```", "Requests are steady."}}
	metrics := &stubMetrics{
		names:  []string{"process_cpu_seconds_total", "demo_requests_total"},
		result: json.RawMessage(`{"status":"success"}`),
	}
	svc := testService(llm, metrics)

	res := svc.Translate(context.Background(), "request rate")
	if res.Error != "" {
		t.Fatalf("unexpected error: %s", res.Error)
	}
	if res.Query != "rate(demo_requests_total[5m])" {
		t.Fatalf("fences not stripped: %q", res.Query)
	}
	if res.NaturalAnswer != "Requests are steady." {
		t.Fatalf("unexpected answer: %q", res.NaturalAnswer)
	}
	if len(metrics.queries) != 1 || metrics.queries[0] != res.Query {
		t.Fatalf("query not executed: %v", metrics.queries)
	}
	// the translation prompt carried the prioritized metric hint
	if !strings.Contains(llm.prompts[0], "demo_requests_total") {
		t.Fatalf("metric hint missing from prompt")
	}
}

func TestTranslate_EmptyLLMReply(t *testing.T) {
	llm := &stubLLM{replies: []string{"   "}}
	svc := testService(llm, &stubMetrics{})

	res := svc.Translate(context.Background(), "anything")
	if res.Error == "" || res.Query != "" {
		t.Fatalf("expected empty-reply error, got %+v", res)
	}
}

func TestTranslate_MetricNamesFailureIsNotFatal(t *testing.T) {
	llm := &stubLLM{replies: []string{"up", "All targets are up."}}
	metrics := &stubMetrics{
		namesErr: errors.New("prometheus down"),
		result:   json.RawMessage(`{"status":"success"}`),
	}
	svc := testService(llm, metrics)

	res := svc.Translate(context.Background(), "are we up")
	if res.Error != "" {
		t.Fatalf("metric-name failure should not be fatal: %s", res.Error)
	}
	if res.Query != "up" {
		t.Fatalf("unexpected query: %q", res.Query)
	}
}

func TestTranslate_QueryFailureSurfaces(t *testing.T) {
	llm := &stubLLM{replies: []string{"up"}}
	metrics := &stubMetrics{queryErr: errors.New("prometheus query failed")}
	svc := testService(llm, metrics)

	res := svc.Translate(context.Background(), "are we up")
	if res.Error == "" || res.Query != "up" {
		t.Fatalf("expected query error with query preserved, got %+v", res)
	}
	if res.NaturalAnswer != "" {
		t.Fatalf("explanation should be skipped after a failed query")
	}
}

func TestHealthEndpoint(t *testing.T) {
	svc := testService(&stubLLM{replies: []string{""}}, &stubMetrics{})
	h := NewMux(svc)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("health: %d", rr.Code)
	}
	var out types.UIHealthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Status != "ok" || out.Prometheus != "http://prometheus:9090" || out.MCPServer != "http://mcp:8080" {
		t.Fatalf("unexpected health payload: %+v", out)
	}

	// the mcp_server key stays in the payload when no MCP server is set
	svc.MCPServerURL = ""
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if !strings.Contains(rr.Body.String(), `"mcp_server":""`) {
		t.Fatalf("mcp_server key missing: %s", rr.Body.String())
	}
}

func TestIndexRenders(t *testing.T) {
	svc := testService(&stubLLM{replies: []string{""}}, &stubMetrics{})
	h := NewMux(svc)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("index: %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "llama3.2:1b") || !strings.Contains(body, "http://prometheus:9090") {
		t.Fatalf("index missing config labels: %.200s", body)
	}
}

func TestPromptEndpoint(t *testing.T) {
	llm := &stubLLM{replies: []string{"up", "Everything is up."}}
	metrics := &stubMetrics{result: json.RawMessage(`{"status":"success","data":{"result":[]}}`)}
	svc := testService(llm, metrics)
	h := NewMux(svc)

	form := url.Values{"prompt": {"are all targets up"}}
	req := httptest.NewRequest(http.MethodPost, "/prompt", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("prompt: %d body=%s", rr.Code, rr.Body.String())
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Everything is up.") {
		t.Fatalf("answer missing from page: %.300s", body)
	}
	if !strings.Contains(body, "up") {
		t.Fatalf("query missing from page")
	}

	// missing prompt is a client error
	req = httptest.NewRequest(http.MethodPost, "/prompt", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("empty prompt: got %d", rr.Code)
	}
}

func TestPromptEndpoint_ErrorRendered(t *testing.T) {
	llm := &stubLLM{err: errors.New("ollama unreachable")}
	svc := testService(llm, &stubMetrics{})
	h := NewMux(svc)

	form := url.Values{"prompt": {"anything"}}
	req := httptest.NewRequest(http.MethodPost, "/prompt", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("errors render in-page: %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "ollama unreachable") {
		t.Fatalf("error missing from page: %.300s", rr.Body.String())
	}
}
