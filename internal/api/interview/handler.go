package interview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/HIMASAKTA-DEV/project-wizard/internal/entity"
	"github.com/HIMASAKTA-DEV/project-wizard/internal/pkg/logger"
	"github.com/HIMASAKTA-DEV/project-wizard/internal/pkg/validator"
)

type Handler struct {
	usecase   WizardUsecase
	validator *validator.Validator
}

func NewHandler(usecase WizardUsecase, validator *validator.Validator) *Handler {
	return &Handler{
		usecase:   usecase,
		validator: validator,
	}
}

// Start handles POST /interview/start - Begin the interview
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Start")

	iv := h.usecase.Start(ctx)

	ctxzap.Info(ctx, "interview state served",
		zap.String("session_id", iv.SessionID),
		zap.String("status", string(iv.Status)),
	)
	h.respondJSON(w, http.StatusOK, toInterviewDTO(iv))
}

// Get handles GET /interview - Current interview state
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Get")

	iv := h.usecase.Get(ctx)
	h.respondJSON(w, http.StatusOK, toInterviewDTO(iv))
}

// SubmitAnswer handles POST /interview/answer - Submit one answer.
// When the client accepts text/event-stream the raw model fragments are
// relayed as "delta" events, followed by a single "outcome" event.
func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "SubmitAnswer")

	var req entity.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateSubmitAnswer(&req); err != nil {
		ctxzap.Error(ctx, "failed to validate request", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "validation failed", err)
		return
	}

	ctxzap.Info(ctx, "submitting answer",
		zap.Bool("force_finish", req.ForceFinish),
	)

	if wantsEventStream(r) {
		h.submitStreaming(ctx, w, &req)
		return
	}

	outcome, err := h.usecase.SubmitAnswer(ctx, &req, nil)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	sessionID := h.usecase.Get(ctx).SessionID
	h.respondJSON(w, http.StatusOK, toOutcomeDTO(sessionID, outcome))
}

// submitStreaming relays model fragments over SSE while the round trip
// runs. Errors after the stream opened are reported as an "error" event
// because the status line is already on the wire.
func (h *Handler) submitStreaming(ctx context.Context, w http.ResponseWriter, req *entity.SubmitAnswerRequest) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		h.respondError(ctx, w, http.StatusInternalServerError, "streaming unsupported", errors.New("response writer is not a flusher"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	onFragment := func(fragment string) {
		writeSSE(w, "delta", fragment)
		flusher.Flush()
	}

	outcome, err := h.usecase.SubmitAnswer(ctx, req, onFragment)
	if err != nil {
		ctxzap.Error(ctx, "answer round trip failed", zap.Error(err))
		writeSSE(w, "error", err.Error())
		flusher.Flush()
		return
	}

	sessionID := h.usecase.Get(ctx).SessionID
	payload, err := json.Marshal(toOutcomeDTO(sessionID, outcome))
	if err != nil {
		ctxzap.Error(ctx, "failed to encode outcome", zap.Error(err))
		writeSSE(w, "error", "failed to encode outcome")
		flusher.Flush()
		return
	}
	writeSSE(w, "outcome", string(payload))
	flusher.Flush()
}

// Reset handles POST /interview/reset - Discard and start over
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Reset")

	iv, err := h.usecase.Reset(ctx)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "interview reset",
		zap.String("session_id", iv.SessionID),
	)
	h.respondJSON(w, http.StatusOK, toInterviewDTO(iv))
}

// LoadEntry handles POST /interview/load/{id} - Restore an archived interview
func (h *Handler) LoadEntry(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("entry_id", entryID),
		zap.String("action", "LoadEntry"),
	)

	iv, err := h.usecase.LoadEntry(ctx, entryID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "archived interview loaded")
	h.respondJSON(w, http.StatusOK, toInterviewDTO(iv))
}

// RenderResult handles GET /interview/result/{format} - Download the blueprint
func (h *Handler) RenderResult(w http.ResponseWriter, r *http.Request) {
	formatParam := chi.URLParam(r, "format")
	ctx := logger.AddFields(r.Context(),
		zap.String("format", formatParam),
		zap.String("action", "RenderResult"),
	)

	format, err := h.validator.ValidateFormat(formatParam)
	if err != nil {
		ctxzap.Warn(ctx, "invalid format parameter", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "invalid format parameter",
			fmt.Errorf("format must be one of: markdown, pdf, docx"))
		return
	}

	doc, err := h.usecase.RenderResult(ctx, format)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "blueprint rendered",
		zap.String("filename", doc.Filename),
		zap.Int("size_bytes", len(doc.Data)),
	)
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(doc.Data)
}

// Resend handles POST /interview/resend - Push the blueprint to the sink again
func (h *Handler) Resend(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Resend")

	if err := h.usecase.Resend(ctx); err != nil {
		if errors.Is(err, entity.ErrDeliveryFailed) {
			h.respondJSON(w, http.StatusOK, entity.ResendResponse{
				Delivered: false,
				Notice:    "Gagal mengirim laporan. Silakan coba lagi.",
			})
			return
		}
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, entity.ResendResponse{Delivered: true})
}

func wantsEventStream(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/event-stream")
}

// writeSSE emits one event; multi-line data gets one data: field per line
// so the frame stays valid.
func writeSSE(w http.ResponseWriter, event, data string) {
	fmt.Fprintf(w, "event: %s\n", event)
	for _, line := range strings.Split(data, "\n") {
		fmt.Fprintf(w, "data: %s\n", line)
	}
	fmt.Fprint(w, "\n")
}

// Helper methods
func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	ctxzap.Error(ctx, message, zap.Error(err))
	h.respondJSON(w, status, entity.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrEntryNotFound):
		h.respondError(ctx, w, http.StatusNotFound, "resource not found", err)
	case errors.Is(err, entity.ErrMissingField) || errors.Is(err, entity.ErrAnswerTooLong) || errors.Is(err, entity.ErrUnsupportedFormat):
		h.respondError(ctx, w, http.StatusBadRequest, "invalid parameter", err)
	case errors.Is(err, entity.ErrForceFinishTooEarly):
		h.respondError(ctx, w, http.StatusUnprocessableEntity, "not enough answers to finish early", err)
	case errors.Is(err, entity.ErrInterviewNotActive) || errors.Is(err, entity.ErrAnswerInFlight) ||
		errors.Is(err, entity.ErrNoQuestionPending) || errors.Is(err, entity.ErrInterviewNotComplete) ||
		errors.Is(err, entity.ErrInterviewReset):
		h.respondError(ctx, w, http.StatusConflict, "invalid interview state", err)
	case errors.Is(err, entity.ErrModelUnavailable) || errors.Is(err, entity.ErrTransportInterrupted):
		h.respondError(ctx, w, http.StatusBadGateway, "model gateway unavailable", err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
