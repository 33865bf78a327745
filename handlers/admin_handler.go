// handlers/admin_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/clearglobal/hdx-scraper/models"
	"github.com/clearglobal/hdx-scraper/services"
)

// Runner performs one pipeline run.
type Runner interface {
	Run(ctx context.Context) (*services.RunSummary, error)
}

// StateReader exposes the persisted run state.
type StateReader interface {
	Load(ctx context.Context) (models.RunState, error)
	Ping(ctx context.Context) error
}

type AdminHandler struct {
	runner  Runner
	state   StateReader
	metrics http.Handler
}

func NewAdminHandler(runner Runner, state StateReader, metrics http.Handler) *AdminHandler {
	return &AdminHandler{runner: runner, state: state, metrics: metrics}
}

// Routes registers the admin endpoints on a new mux.
func (h *AdminHandler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.Health)
	mux.HandleFunc("POST /api/admin/run", h.Run)
	mux.HandleFunc("GET /api/admin/state", h.State)
	if h.metrics != nil {
		mux.Handle("GET /metrics", h.metrics)
	}
	return mux
}

// Helper to respond with JSON
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Error("failed to marshal JSON response", "err", err)
		http.Error(w, `{"error":"Failed to marshal JSON response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	slog.Warn("api error", "status", code, "message", message)
	respondWithJSON(w, code, map[string]string{"error": message})
}

func (h *AdminHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.state.Ping(r.Context()); err != nil {
		respondWithError(w, http.StatusInternalServerError, "database connection error")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type skipResponse struct {
	Country string `json:"country"`
	Reason  string `json:"reason"`
	Error   string `json:"error"`
}

type runResponse struct {
	Detected  []string       `json:"detected"`
	Published []string       `json:"published"`
	Skipped   []skipResponse `json:"skipped"`
	Seconds   float64        `json:"seconds"`
}

// Run triggers a pipeline run and waits for it to finish.
func (h *AdminHandler) Run(w http.ResponseWriter, r *http.Request) {
	summary, err := h.runner.Run(r.Context())
	if errors.Is(err, services.ErrRunInProgress) {
		respondWithError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "pipeline run failed: "+err.Error())
		return
	}

	resp := runResponse{
		Detected:  nonNil(summary.Detected),
		Published: nonNil(summary.Published),
		Skipped:   []skipResponse{},
		Seconds:   summary.Finished.Sub(summary.Started).Seconds(),
	}
	for _, s := range summary.Skipped {
		resp.Skipped = append(resp.Skipped, skipResponse{Country: s.Country, Reason: s.Reason, Error: s.Err.Error()})
	}
	respondWithJSON(w, http.StatusOK, resp)
}

type watermarkResponse struct {
	Location  string    `json:"location"`
	Watermark time.Time `json:"watermark"`
}

// State lists stored watermarks ordered by location code.
func (h *AdminHandler) State(w http.ResponseWriter, r *http.Request) {
	state, err := h.state.Load(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load run state")
		return
	}
	codes := make([]string, 0, len(state))
	for code := range state {
		codes = append(codes, code)
	}
	slices.Sort(codes)

	out := make([]watermarkResponse, 0, len(codes))
	for _, code := range codes {
		out = append(out, watermarkResponse{Location: code, Watermark: state[code]})
	}
	respondWithJSON(w, http.StatusOK, out)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
