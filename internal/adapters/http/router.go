package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kirillkom/hadith-assistant/internal/config"
	"github.com/kirillkom/hadith-assistant/internal/core/domain"
	"github.com/kirillkom/hadith-assistant/internal/core/ports"
	"github.com/kirillkom/hadith-assistant/internal/observability/metrics"
)

const (
	metricsService = "api"
	maxBodyBytes   = 64 << 10
	maxSearchTopK  = 50
)

type Router struct {
	answerer ports.QuestionAnswerer
	metrics  *metrics.HTTPServerMetrics
	breakers func() map[string]string

	rateLimitRPS   float64
	rateLimitBurst int
	maxInFlight    int
	waitTimeout    time.Duration
	defaultTopK    int
}

// NewRouter wires the question answering endpoints. metrics and breakers may
// be nil.
func NewRouter(
	cfg config.Config,
	answerer ports.QuestionAnswerer,
	httpMetrics *metrics.HTTPServerMetrics,
	breakers func() map[string]string,
) *Router {
	return &Router{
		answerer:       answerer,
		metrics:        httpMetrics,
		breakers:       breakers,
		rateLimitRPS:   cfg.APIRateLimitRPS,
		rateLimitBurst: cfg.APIRateLimitBurst,
		maxInFlight:    cfg.APIBackpressureMaxInFlight,
		waitTimeout:    time.Duration(cfg.APIBackpressureWaitMS) * time.Millisecond,
		defaultTopK:    cfg.RAGTopK,
	}
}

func (rt *Router) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/api/ask", rt.ask)
	api.HandleFunc("/api/hadith_search", rt.search)

	guarded := backpressureMiddleware(api, rt.maxInFlight, rt.waitTimeout)
	guarded = rateLimitMiddleware(guarded, rt.rateLimitRPS, rt.rateLimitBurst)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}
	mux.Handle("/api/", guarded)

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(metricsService, handler)
	}
	return requestIDMiddleware(accessLogMiddleware(handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	payload := map[string]any{"status": "ok"}
	if rt.breakers != nil {
		states := rt.breakers()
		for _, state := range states {
			if state == "open" {
				payload["status"] = "degraded"
				break
			}
		}
		payload["breakers"] = states
	}
	writeJSON(w, http.StatusOK, payload)
}

func (rt *Router) ask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	start := time.Now()
	answer, err := rt.answerer.Answer(r.Context(), req.Question)
	if err != nil {
		rt.writeDomainError(w, r, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordAnswer(metricsService, "ask", answer, time.Since(start))
	}
	annotateRequest(r.Context(),
		"provenance", answer.Provenance,
		"used_fallback", answer.UsedFallback,
		"tier", answer.Tier,
		"candidates", answer.Candidates,
	)
	writeJSON(w, http.StatusOK, answer)
}

type searchHit struct {
	ID            string           `json:"id"`
	Text          string           `json:"text"`
	Source        string           `json:"source,omitempty"`
	Reference     string           `json:"reference,omitempty"`
	FullReference string           `json:"full_reference"`
	Score         float64          `json:"score"`
	Tier          domain.MatchTier `json:"tier"`
}

func (rt *Router) search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}
	topK := rt.defaultTopK
	if raw := r.URL.Query().Get("top_k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "top_k must be a positive integer")
			return
		}
		topK = min(n, maxSearchTopK)
	}

	candidates, err := rt.answerer.Search(r.Context(), query, topK)
	if err != nil {
		rt.writeDomainError(w, r, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordRetrieval(metricsService, "hadith_search", domain.CandidateTier(candidates), len(candidates))
	}
	annotateRequest(r.Context(), "tier", domain.CandidateTier(candidates), "results", len(candidates))

	hits := make([]searchHit, 0, len(candidates))
	for _, c := range candidates {
		hits = append(hits, searchHit{
			ID:            c.Record.ID,
			Text:          c.Record.PrimaryText,
			Source:        c.Record.Source,
			Reference:     c.Record.Reference,
			FullReference: c.Record.FullReference(),
			Score:         c.Score,
			Tier:          c.Tier,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"query":   query,
		"tier":    domain.CandidateTier(candidates),
		"results": hits,
	})
}

func (rt *Router) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request_failed", "request_id", requestIDFromContext(r.Context()), "path", r.URL.Path, "error", err)
		writeError(w, status, http.StatusText(status))
		return
	}
	writeError(w, status, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
