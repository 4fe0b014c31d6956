package api

import "net/http"

// WinningHandler serves the configured draw.
type WinningHandler struct {
	deps Dependencies
}

// NewWinningHandler creates a winning numbers handler.
func NewWinningHandler(deps Dependencies) *WinningHandler {
	return &WinningHandler{deps: deps}
}

// HandleWinning handles GET /winning-numbers. 4D numbers are zero-padded.
func (h *WinningHandler) HandleWinning(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Winning())
}
