package api

import (
	"net/http"
	"strconv"

	"github.com/okian/ticketscan/internal/domain/model"
	"github.com/okian/ticketscan/internal/export"
)

// HistoryHandler serves recorded tickets.
type HistoryHandler struct {
	deps Dependencies
}

// NewHistoryHandler creates a history handler.
func NewHistoryHandler(deps Dependencies) *HistoryHandler {
	return &HistoryHandler{deps: deps}
}

type historyResponse struct {
	Records []model.HistoryRecord `json:"records"`
	Count   int                   `json:"count"`
}

// HandleList handles GET /history?limit=N, newest first.
func (h *HistoryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "list history"
	recs, err := h.list(r)
	if err != nil {
		writeError(w, r, kindOf(op, err))
		return
	}
	if recs == nil {
		recs = []model.HistoryRecord{}
	}
	writeJSON(w, http.StatusOK, historyResponse{Records: recs, Count: len(recs)})
}

// HandleGet handles GET /history/{id}.
func (h *HistoryHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "get record"
	rec, err := h.deps.Record(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, kindOf(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// HandleExport handles GET /history/export.xlsx. It takes the same limit
// parameter as HandleList.
func (h *HistoryHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	const op = "export history"
	recs, err := h.list(r)
	if err != nil {
		writeError(w, r, kindOf(op, err))
		return
	}
	data, err := export.HistoryXLSX(recs)
	if err != nil {
		writeError(w, r, WrapKind(op, ErrInternal, err))
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="ticket-history.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *HistoryHandler) list(r *http.Request) ([]model.HistoryRecord, error) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, WrapKind("parse limit", ErrBadRequest, err)
		}
		limit = n
	}
	return h.deps.History(r.Context(), limit)
}
