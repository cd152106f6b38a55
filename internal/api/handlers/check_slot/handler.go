package check_slot

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/atelier-scheduling/internal/api/handlers"
	createBooking "github.com/m04kA/atelier-scheduling/internal/usecase/create_booking"
)

const (
	msgInvalidStart = "некорректное время начала, ожидается RFC3339"
	msgUnavailable  = "не удалось проверить время, повторите запрос"
)

type Handler struct {
	useCase ReserveUseCase
	logger  Logger
}

func NewHandler(useCase ReserveUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/check
// Проверяет, свободен ли интервал, ничего не бронируя
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CheckSlotRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		h.logger.Warn("POST /appointments/check - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	start, err := time.Parse(time.RFC3339, req.Start)
	if err != nil {
		h.logger.Warn("POST /appointments/check - Failed to parse start: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStart)
		return
	}

	available, err := h.useCase.Reserve(r.Context(), start, req.DurationMinutes)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /appointments/check - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, createBooking.ErrConcurrentModification), errors.Is(err, createBooking.ErrInternal):
			h.logger.Error("POST /appointments/check - Store unavailable: start=%s, error=%v", req.Start, err)
			handlers.RespondServiceUnavailable(w, msgUnavailable)

		default:
			h.logger.Error("POST /appointments/check - Failed to check slot: start=%s, error=%v", req.Start, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/check - start=%s, duration=%d, available=%t", req.Start, req.DurationMinutes, available)
	handlers.RespondJSON(w, http.StatusOK, &CheckSlotResponse{
		Start:           req.Start,
		DurationMinutes: req.DurationMinutes,
		Available:       available,
	})
}
