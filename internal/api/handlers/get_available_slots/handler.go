package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/atelier-scheduling/internal/api/handlers"
	"github.com/m04kA/atelier-scheduling/internal/api/middleware"
	getAvailableSlots "github.com/m04kA/atelier-scheduling/internal/usecase/get_available_slots"
)

const (
	msgMissingDate    = "дата обязательна"
	msgInvalidDate    = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidStaffID = "некорректный ID сотрудника"
	msgMineNeedsAuth  = "для mine=true требуется X-User-ID"
	msgConflictScope  = "нельзя одновременно указывать staffId и mine=true"
	msgUnavailable    = "расписание временно недоступно, повторите запрос"
)

type Handler struct {
	useCase  GetAvailableSlotsUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/available-slots
// Query params: date (required, YYYY-MM-DD), staffId, mine, onlyAvailable
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	// Календарь конкретного сотрудника: staffId или свой (mine=true)
	var scopeUserID *int64

	if staffIDStr := query.Get("staffId"); staffIDStr != "" {
		staffID, err := strconv.ParseInt(staffIDStr, 10, 64)
		if err != nil || staffID <= 0 {
			h.logger.Warn("GET /available-slots - Invalid staff ID: %s", staffIDStr)
			handlers.RespondBadRequest(w, msgInvalidStaffID)
			return
		}
		scopeUserID = &staffID
	}

	if query.Get("mine") == "true" {
		if scopeUserID != nil {
			handlers.RespondBadRequest(w, msgConflictScope)
			return
		}
		actor, ok := middleware.GetActor(r.Context())
		if !ok {
			h.logger.Warn("GET /available-slots - mine=true without user")
			handlers.RespondUnauthorized(w, msgMineNeedsAuth)
			return
		}
		userID := actor.UserID
		scopeUserID = &userID
	}

	onlyAvailable := query.Get("onlyAvailable") == "true"

	useCaseReq, err := ToUseCaseRequest(dateStr, scopeUserID, h.location)
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, getAvailableSlots.ErrInternal):
			h.logger.Error("GET /available-slots - Store unavailable: date=%s, error=%v", dateStr, err)
			handlers.RespondServiceUnavailable(w, msgUnavailable)

		default:
			h.logger.Error("GET /available-slots - Failed to get slots: date=%s, error=%v", dateStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result, onlyAvailable)

	h.logger.Info("GET /available-slots - Slots retrieved successfully: date=%s, closed=%t, slots_count=%d",
		dateStr, result.Closed, len(response.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
