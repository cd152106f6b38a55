package get_business_hours

import (
	"net/http"
	"time"

	"github.com/m04kA/atelier-scheduling/internal/api/handlers"
	"github.com/m04kA/atelier-scheduling/internal/domain"
)

type Handler struct {
	response *BusinessHoursResponse
	logger   Logger
}

// NewHandler рабочие часы неизменяемы после старта, ответ собирается один раз
func NewHandler(hours domain.BusinessHours, policy domain.SlotPolicy, location *time.Location, logger Logger) *Handler {
	return &Handler{
		response: FromDomain(hours, policy, location),
		logger:   logger,
	}
}

// Handle GET /api/v1/business-hours
// Публичный endpoint - без авторизации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("GET /business-hours - Business hours retrieved: days=%d", len(h.response.Days))
	handlers.RespondJSON(w, http.StatusOK, h.response)
}
