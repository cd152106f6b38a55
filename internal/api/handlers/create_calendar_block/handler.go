package create_calendar_block

import (
	"errors"
	"net/http"

	"github.com/m04kA/atelier-scheduling/internal/api/handlers"
	"github.com/m04kA/atelier-scheduling/internal/api/middleware"
	"github.com/m04kA/atelier-scheduling/internal/service/calendar"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgInvalidTime   = "некорректное время, ожидается RFC3339"
	msgForbidden     = "нельзя изменять календарь другого сотрудника"
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

// Handle POST /api/v1/calendar/blocks
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /calendar/blocks - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBlockRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		h.logger.Warn("POST /calendar/blocks - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	serviceReq, err := req.ToServiceRequest(actor)
	if err != nil {
		h.logger.Warn("POST /calendar/blocks - Failed to parse time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.service.CreateBlock(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, calendar.ErrInvalidInput):
			h.logger.Warn("POST /calendar/blocks - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, calendar.ErrAccessDenied):
			h.logger.Warn("POST /calendar/blocks - Access denied: user_id=%d", actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /calendar/blocks - Failed to create block: user_id=%d, error=%v", actor.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /calendar/blocks - Block created successfully: block_id=%d, owner=%d", result.ID, result.OwnerUserID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
