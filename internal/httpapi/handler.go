package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"aquascope/overview-go/internal/metrics"
	"aquascope/overview-go/internal/overview"
	"aquascope/overview-go/internal/session"
)

// OverviewView is the display-state surface the handler drives.
// *overview.View satisfies this.
type OverviewView interface {
	Select(ctx context.Context, sess session.Session, node *overview.OrgNode) (bool, error)
	Refresh(ctx context.Context, sess session.Session) error
	Snapshot() *overview.Snapshot
	Stats() overview.Stats
}

// Pinger checks that the upstream API accepts the session. *upstream.Client
// satisfies this.
type Pinger interface {
	Ping(ctx context.Context, sess session.Session) error
}

type Handler struct {
	log     zerolog.Logger
	view    OverviewView
	pinger  Pinger
	sess    session.Session
	metrics *metrics.Metrics
}

func NewHandler(log zerolog.Logger, view OverviewView, pinger Pinger, sess session.Session, m *metrics.Metrics) *Handler {
	return &Handler{log: log, view: view, pinger: pinger, sess: sess, metrics: m}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Use(h.accessLog)

	// Health
	r.Get("/healthz", h.handleHealthz)
	r.Get("/readyz", h.handleReadyZ)

	// Observability
	r.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	// API
	r.Route("/api", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			r.Get("/overview", h.handleGetOverview)
		})
	})

	return r
}

func (h *Handler) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		routePattern := chi.RouteContext(r.Context()).RoutePattern()
		if routePattern == "" {
			routePattern = r.URL.Path
		}
		h.metrics.ObserveHTTPRequest(r.Method, routePattern, ww.Status(), time.Since(start))

		h.log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("http_request")
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, msg string, details map[string]any) {
	resp := map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": msg,
		},
	}
	if details != nil {
		resp["error"].(map[string]any)["details"] = details
	}
	h.writeJSON(w, status, resp)
}

func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) handleReadyZ(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.pinger == nil {
		h.writeError(w, http.StatusServiceUnavailable, "upstream_unavailable", "upstream not configured", nil)
		return
	}

	if err := h.pinger.Ping(ctx, h.sess); err != nil {
		h.writeError(w, http.StatusServiceUnavailable, "upstream_unavailable", "upstream not ready", map[string]any{"error": err.Error()})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"ready": true})
}
