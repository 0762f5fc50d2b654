package history

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/HIMASAKTA-DEV/project-wizard/internal/entity"
	"github.com/HIMASAKTA-DEV/project-wizard/internal/pkg/logger"
)

type Handler struct {
	usecase HistoryUsecase
}

func NewHandler(usecase HistoryUsecase) *Handler {
	return &Handler{usecase: usecase}
}

// List handles GET /history - Condensed archive listing, newest first
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListHistory")

	entries, err := h.usecase.History(ctx)
	if err != nil {
		h.respondError(ctx, w, http.StatusInternalServerError, "failed to list history", err)
		return
	}

	dtos := make([]*entity.HistoryEntryDTO, 0, len(entries))
	for i := range entries {
		dtos = append(dtos, toHistoryEntryDTO(&entries[i]))
	}

	ctxzap.Debug(ctx, "history listed", zap.Int("entries", len(dtos)))
	h.respondJSON(w, http.StatusOK, dtos)
}

// Get handles GET /history/{id} - Full archived entry
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("entry_id", entryID),
		zap.String("action", "GetHistoryEntry"),
	)

	entry, err := h.usecase.HistoryEntry(ctx, entryID)
	if err != nil {
		if errors.Is(err, entity.ErrEntryNotFound) {
			h.respondError(ctx, w, http.StatusNotFound, "history entry not found", err)
			return
		}
		h.respondError(ctx, w, http.StatusInternalServerError, "failed to fetch history entry", err)
		return
	}

	h.respondJSON(w, http.StatusOK, entry)
}

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
