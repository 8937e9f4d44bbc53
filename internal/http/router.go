// Package httpx exposes the webhook, health, and metrics endpoints.
package httpx

import (
	"io"
	"net/http"
	"sync"

	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SCE-Development/sce-cicd/internal/metrics"
	"github.com/SCE-Development/sce-cicd/internal/service/dispatch"
)

const maxWebhookBody = 1 << 20

// Router wires HTTP endpoints to the dispatcher.
type Router struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	dispatch *dispatch.Service
	sink     metrics.Sink
	devMode  bool

	metricsOnce        sync.Once
	metricsInitialized bool
	requestTotal       *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
}

// New creates and registers handlers.
func New(logger *slog.Logger, dispatchSvc *dispatch.Service, sink metrics.Sink, devMode bool) *Router {
	r := &Router{
		mux:      http.NewServeMux(),
		logger:   logger,
		dispatch: dispatchSvc,
		sink:     sink,
		devMode:  devMode,
	}
	r.initMetrics()
	r.routes()
	return r
}

// ServeHTTP satisfies http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Router) routes() {
	r.mux.HandleFunc("/metrics", promhttp.Handler().ServeHTTP)
	r.mux.HandleFunc("/webhook", r.instrument("/webhook", r.handleWebhook))
	r.mux.HandleFunc("/", r.instrument("/", r.handleHealth))
}

func (r *Router) handleHealth(w http.ResponseWriter, req *http.Request) {
	if req.URL.Path != "/" {
		r.writeError(w, http.StatusNotFound, "not found")
		return
	}
	if req.Method != http.MethodGet {
		r.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	r.writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "dev_mode": r.devMode})
}

// handleWebhook always answers 200 once the delivery is readable;
// acceptance, skips, and ignores are reported in-band.
func (r *Router) handleWebhook(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	r.sink.WebhookReceived()

	body, err := io.ReadAll(io.LimitReader(req.Body, maxWebhookBody))
	if err != nil {
		r.writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}
	decision := r.dispatch.Handle(req.Context(), req.Header.Get("X-GitHub-Event"), body)
	r.writeJSON(w, http.StatusOK, decision)
}
