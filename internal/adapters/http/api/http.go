// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/ticketscan/internal/domain/model"
	"github.com/okian/ticketscan/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the ticket service.
type Dependencies interface {
	ProcessTicket(ctx context.Context, image []byte) (model.TicketResult, error)
	ProcessText(ctx context.Context, text string) (model.TicketResult, error)

	// Read operations expose ticket history.
	History(ctx context.Context, limit int) ([]model.HistoryRecord, error)
	Record(ctx context.Context, id string) (model.HistoryRecord, error)

	Winning() model.WinningNumbers
	Ping(ctx context.Context) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	ticketsHandler *TicketsHandler
	historyHandler *HistoryHandler
	winningHandler *WinningHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	cfg := settings{
		maxUploadBytes: DefaultMaxUploadBytes,
		logger:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Server{
		healthHandler:  NewHealthHandler(deps),
		statsHandler:   NewStatsHandler(statsProvider),
		ticketsHandler: NewTicketsHandler(deps, cfg.maxUploadBytes, cfg.logger),
		historyHandler: NewHistoryHandler(deps),
		winningHandler: NewWinningHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("GET /metrics", MetricsHandler())
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("POST /tickets", MetricsMiddleware(s.ticketsHandler.HandleUpload, "tickets"))
	mux.HandleFunc("POST /tickets/text", MetricsMiddleware(s.ticketsHandler.HandleText, "tickets_text"))
	mux.HandleFunc("GET /winning-numbers", MetricsMiddleware(s.winningHandler.HandleWinning, "winning_numbers"))
	mux.HandleFunc("GET /history", MetricsMiddleware(s.historyHandler.HandleList, "history"))
	mux.HandleFunc("GET /history/export.xlsx", MetricsMiddleware(s.historyHandler.HandleExport, "history_export"))
	mux.HandleFunc("GET /history/{id}", MetricsMiddleware(s.historyHandler.HandleGet, "history_record"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders err in the caller's language. Rejections carry their
// reason code; everything else is described by the response code.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusOf(err)
	reason := model.ReasonOf(err).String()
	key := code
	if reason != "" {
		key = reason
	}
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: Localize(Locale(r), key),
		Reason:  reason,
	})
}
