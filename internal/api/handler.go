package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gyaneshwarpardhi/announcer/internal/assets"
	"github.com/gyaneshwarpardhi/announcer/internal/config"
	"github.com/gyaneshwarpardhi/announcer/internal/engine"
	"github.com/gyaneshwarpardhi/announcer/internal/gamestate"
	"github.com/gyaneshwarpardhi/announcer/internal/metrics"
)

// Game state bodies are a few KB; settings documents smaller still.
const maxBodyBytes = 1 << 20

// Handler holds all HTTP handler dependencies.
type Handler struct {
	eng   *engine.Engine
	store *config.Store
	token string
	mux   *http.ServeMux

	// saveMu keeps the file on disk and the engine's settings in step.
	saveMu sync.Mutex
}

// New creates an HTTP handler and registers all routes. When token is not
// empty, game state posts must carry it in auth.token.
func New(eng *engine.Engine, store *config.Store, token string) http.Handler {
	h := &Handler{eng: eng, store: store, token: token, mux: http.NewServeMux()}

	h.mux.HandleFunc("POST /{$}", h.ingestGameState)
	h.mux.HandleFunc("GET /api/settings", h.getSettings)
	h.mux.HandleFunc("POST /api/settings", h.replaceSettings)
	h.mux.HandleFunc("POST /api/trigger", h.trigger)
	h.mux.HandleFunc("POST /api/volume", h.setVolume)
	h.mux.HandleFunc("GET /api/upcoming", h.upcoming)
	h.mux.HandleFunc("GET /healthz", h.healthz)
	h.mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(h.mux)
}

// POST /: game state integration endpoint. The game only cares about the
// status code, so the body is empty.
func (h *Handler) ingestGameState(w http.ResponseWriter, r *http.Request) {
	s, err := gamestate.Decode(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		metrics.SnapshotsSkipped.WithLabelValues("malformed").Inc()
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if h.token != "" && s.Auth.Token != h.token {
		metrics.SnapshotsSkipped.WithLabelValues("unauthorized").Inc()
		writeError(w, http.StatusUnauthorized, "invalid auth token")
		return
	}
	h.eng.EvaluateAndDispatch(s)
	w.WriteHeader(http.StatusOK)
}

// GET /api/settings
func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.eng.Settings())
}

// POST /api/settings: replace, persist and apply. Fields missing from the
// body take their default values. Validation problems are returned as
// warnings; the settings are applied regardless.
func (h *Handler) replaceSettings(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	cfg, err := config.Decode(data, "request.json")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid settings: %s", err))
		return
	}

	var warnings []string
	if err := config.Validate(cfg); err != nil {
		warnings = append(warnings, err.Error())
		slog.Warn("settings saved with warnings", "err", err)
	}

	h.saveMu.Lock()
	err = h.store.Save(cfg)
	if err == nil {
		h.eng.Replace(cfg)
	}
	h.saveMu.Unlock()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"saved":    true,
		"path":     h.store.Path(),
		"warnings": warnings,
	})
}

// POST /api/trigger: play a NotifyAction now, bypassing every rule.
func (h *Handler) trigger(w http.ResponseWriter, r *http.Request) {
	var a config.NotifyAction
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&a); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid action: %s", err))
		return
	}
	h.eng.Trigger(a)
	writeJSON(w, http.StatusAccepted, map[string]string{"queued": a.String()})
}

type volumeRequest struct {
	Level *float32 `json:"level"`
}

// POST /api/volume: set output volume for this session. 1.0 = 100%.
func (h *Handler) setVolume(w http.ResponseWriter, r *http.Request) {
	var req volumeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return
	}
	if req.Level == nil {
		writeError(w, http.StatusBadRequest, "level is required")
		return
	}
	if *req.Level < 0 {
		writeError(w, http.StatusBadRequest, "level must not be negative")
		return
	}
	h.eng.SetVolume(*req.Level)
	writeJSON(w, http.StatusOK, map[string]float32{"level": *req.Level})
}

// GET /api/upcoming?clock=N: next notification of every periodic rule.
func (h *Handler) upcoming(w http.ResponseWriter, r *http.Request) {
	clock, err := strconv.Atoi(r.URL.Query().Get("clock"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "clock must be an integer number of seconds")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"clock_time": clock,
		"upcoming":   h.eng.Upcoming(clock),
	})
}

// GET /healthz: always 200 (liveness probe).
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "ok",
		"suspend_all":   h.eng.Settings().Global.SuspendAll,
		"settings_path": h.store.Path(),
		"sounds":        assets.Names(),
	})
}
