package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/atelier-scheduling/internal/api/handlers"
	createBooking "github.com/m04kA/atelier-scheduling/internal/usecase/create_booking"
)

const (
	msgInvalidStart         = "некорректное время начала, ожидается RFC3339"
	msgSlotNotAvailable     = "выбранное время уже занято"
	msgSlotBusy             = "время сейчас бронирует другой клиент, повторите запрос"
	msgConcurrentMod        = "запись не удалась из-за параллельного изменения, повторите запрос"
	msgStartInPast          = "нельзя записаться на прошедшее время"
	msgOutsideBusinessHours = "визит должен помещаться в часы работы бутика"
	msgStoreUnavailable     = "хранилище временно недоступно, повторите запрос"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse start: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStart)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /appointments - Slot not available: start=%s", req.Start)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrSlotBusy):
			h.logger.Warn("POST /appointments - Slot busy: start=%s", req.Start)
			handlers.RespondServiceUnavailable(w, msgSlotBusy)

		case errors.Is(err, createBooking.ErrConcurrentModification):
			h.logger.Warn("POST /appointments - Concurrent modification: start=%s", req.Start)
			handlers.RespondServiceUnavailable(w, msgConcurrentMod)

		case errors.Is(err, createBooking.ErrStartInPast):
			h.logger.Warn("POST /appointments - Start in past: start=%s", req.Start)
			handlers.RespondBadRequest(w, msgStartInPast)

		case errors.Is(err, createBooking.ErrOutsideBusinessHours):
			h.logger.Warn("POST /appointments - Outside business hours: start=%s", req.Start)
			handlers.RespondBadRequest(w, msgOutsideBusinessHours)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, createBooking.ErrInternal):
			h.logger.Error("POST /appointments - Store unavailable: start=%s, error=%v", req.Start, err)
			handlers.RespondServiceUnavailable(w, msgStoreUnavailable)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: start=%s, error=%v", req.Start, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, start=%s",
		result.ID, req.Start)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
