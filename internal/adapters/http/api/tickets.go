package api

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/okian/ticketscan/internal/domain/model"
	"github.com/okian/ticketscan/pkg/logger"
)

// uploadField is the multipart form field carrying the ticket image.
const uploadField = "file"

// TicketsHandler handles ticket submissions.
type TicketsHandler struct {
	deps     Dependencies
	maxBytes int64
	logger   logger.Logger
}

// NewTicketsHandler creates a tickets handler accepting bodies up to maxBytes.
func NewTicketsHandler(deps Dependencies, maxBytes int64, l logger.Logger) *TicketsHandler {
	return &TicketsHandler{deps: deps, maxBytes: maxBytes, logger: l}
}

// HandleUpload handles POST /tickets. The image arrives either as the
// multipart field "file" or as a raw image/* body.
func (h *TicketsHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	const op = "upload ticket"
	if r.ContentLength > h.maxBytes {
		writeError(w, r, NewKind(op, ErrTooLarge))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	image, err := h.readImage(r)
	if err != nil {
		writeError(w, r, kindOf(op, err))
		return
	}
	h.respond(w, r, op, func() (model.TicketResult, error) {
		return h.deps.ProcessTicket(r.Context(), image)
	})
}

type textRequest struct {
	Text string `json:"text"`
}

// HandleText handles POST /tickets/text with already recognized text.
func (h *TicketsHandler) HandleText(w http.ResponseWriter, r *http.Request) {
	const op = "check text"
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, WrapKind(op, ErrTooLarge, err))
			return
		}
		writeError(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	h.respond(w, r, op, func() (model.TicketResult, error) {
		return h.deps.ProcessText(r.Context(), req.Text)
	})
}

func (h *TicketsHandler) respond(w http.ResponseWriter, r *http.Request, op string, process func() (model.TicketResult, error)) {
	res, err := process()
	if err != nil {
		err = kindOf(op, err)
		if errors.Is(err, ErrInternal) {
			h.logger.Error(r.Context(), "ticket processing failed", logger.String("op", op), logger.Error(err))
		}
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *TicketsHandler) readImage(r *http.Request) ([]byte, error) {
	const op = "read upload"
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return nil, WrapKind(op, ErrBadRequest, err)
	}

	var body io.Reader
	switch {
	case mediaType == "multipart/form-data":
		file, _, err := r.FormFile(uploadField)
		if err != nil {
			if isTooLarge(err) {
				return nil, WrapKind(op, ErrTooLarge, err)
			}
			return nil, WrapKind(op, ErrBadRequest, err)
		}
		defer file.Close()
		body = file
	case strings.HasPrefix(mediaType, "image/"):
		body = r.Body
	default:
		return nil, NewKind(op, ErrBadRequest)
	}

	image, err := io.ReadAll(body)
	if err != nil {
		if isTooLarge(err) {
			return nil, WrapKind(op, ErrTooLarge, err)
		}
		return nil, WrapKind(op, ErrBadRequest, err)
	}
	// The declared type is not trusted; the bytes must sniff as an image.
	if len(image) > 0 && !strings.HasPrefix(http.DetectContentType(image), "image/") {
		return nil, NewKind(op, ErrBadRequest)
	}
	return image, nil
}

// isTooLarge reports whether err came from the body size limit. Multipart
// parsing does not always wrap the reader's error.
func isTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large")
}
