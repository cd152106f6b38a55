package delete_calendar_block

import (
	"errors"
	"net/http"

	"github.com/m04kA/atelier-scheduling/internal/api/handlers"
	"github.com/m04kA/atelier-scheduling/internal/api/middleware"
	"github.com/m04kA/atelier-scheduling/internal/service/calendar"
)

const (
	msgInvalidBlockID = "некорректный ID события"
	msgMissingUserID  = "отсутствует ID пользователя"
	msgNotFound       = "событие не найдено"
	msgForbidden      = "доступ запрещен"
)

type Handler struct {
	service CalendarService
	logger  Logger
}

func NewHandler(service CalendarService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/calendar/blocks/{blockId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	blockID, err := handlers.PathID(r, "blockId")
	if err != nil {
		h.logger.Warn("DELETE /calendar/blocks/{id} - Invalid block ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBlockID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("DELETE /calendar/blocks/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.DeleteBlock(r.Context(), blockID, actor); err != nil {
		switch {
		case errors.Is(err, calendar.ErrEventNotFound):
			h.logger.Warn("DELETE /calendar/blocks/{id} - Block not found: block_id=%d", blockID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, calendar.ErrAccessDenied):
			h.logger.Warn("DELETE /calendar/blocks/{id} - Access denied: block_id=%d, user_id=%d", blockID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /calendar/blocks/{id} - Failed to delete block: block_id=%d, error=%v", blockID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /calendar/blocks/{id} - Block deleted successfully: block_id=%d, user_id=%d", blockID, actor.UserID)
	w.WriteHeader(http.StatusNoContent)
}
