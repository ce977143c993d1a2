package promptui

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"promstack/pkg/types"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html"))

const metricSampleLimit = 30

// Service holds the UI's collaborators and the static labels it renders.
type Service struct {
	LLM           LLM
	Metrics       Metrics
	Model         string
	PrometheusURL string
	MCPServerURL  string
	Log           zerolog.Logger
}

type pageData struct {
	Prompt        string
	Query         string
	Result        string
	NaturalAnswer string
	Error         string
	PrometheusURL string
	MCPServerURL  string
	Model         string
}

// Translate turns a natural-language prompt into PromQL, runs it, and asks
// the model for a one-line reading of the result. Stages after a failure are
// skipped; the partial result plus the error are returned for rendering.
func (s *Service) Translate(ctx context.Context, prompt string) types.PromptResult {
	res := types.PromptResult{Prompt: prompt}

	// Metric-name grounding is best effort; translation proceeds unhinted
	// when Prometheus is unreachable.
	var names []string
	if got, err := s.Metrics.MetricNames(ctx, metricSampleLimit); err == nil {
		names = prioritizeMetrics(got)
	} else {
		s.Log.Warn().Err(err).Msg("metric name fetch failed; translating without hint")
	}

	raw, err := s.LLM.Generate(ctx, buildTranslationPrompt(prompt, names))
	if err != nil {
		res.Error = err.Error()
		return res
	}
	query := extractQuery(raw)
	if query == "" {
		res.Error = "the LLM did not return a query"
		return res
	}
	res.Query = query

	result, err := s.Metrics.Query(ctx, query)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Result = result

	answer, err := s.LLM.Generate(ctx, buildExplainPrompt(prompt, query, string(result)))
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.NaturalAnswer = extractQuery(answer)
	return res
}

// NewMux builds the UI router.
func NewMux(s *Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(types.UIHealthResponse{
			Status:     "ok",
			Prometheus: s.PrometheusURL,
			MCPServer:  s.MCPServerURL,
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		s.render(w, pageData{
			PrometheusURL: s.PrometheusURL,
			MCPServerURL:  s.MCPServerURL,
			Model:         s.Model,
		})
	})

	r.Post("/prompt", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		prompt := r.PostFormValue("prompt")
		if prompt == "" {
			http.Error(w, "prompt is required", http.StatusBadRequest)
			return
		}
		res := s.Translate(r.Context(), prompt)
		if res.Error != "" {
			s.Log.Warn().Str("prompt", prompt).Str("error", res.Error).Msg("prompt failed")
		} else {
			s.Log.Info().Str("prompt", prompt).Str("query", res.Query).Msg("prompt answered")
		}
		s.render(w, pageData{
			Prompt:        res.Prompt,
			Query:         res.Query,
			Result:        prettyJSON(res.Result),
			NaturalAnswer: res.NaturalAnswer,
			Error:         res.Error,
			PrometheusURL: s.PrometheusURL,
			MCPServerURL:  s.MCPServerURL,
			Model:         s.Model,
		})
	})

	return r
}

func (s *Service) render(w http.ResponseWriter, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, data); err != nil {
		s.Log.Error().Err(err).Msg("template render failed")
	}
}

func prettyJSON(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var buf any
	if err := json.Unmarshal(raw, &buf); err != nil {
		return string(raw)
	}
	out, err := json.MarshalIndent(buf, "", "  ")
	if err != nil {
		return string(raw)
	}
	return string(out)
}
