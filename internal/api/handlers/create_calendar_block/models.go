package create_calendar_block

import (
	"time"

	"github.com/m04kA/atelier-scheduling/internal/domain"
	"github.com/m04kA/atelier-scheduling/internal/service/calendar/models"
)

// CreateBlockRequest HTTP request model
type CreateBlockRequest struct {
	OwnerUserID *int64 `json:"ownerUserId,omitempty" validate:"omitempty,gt=0"`
	Title       string `json:"title" validate:"required,max=200"`
	Start       string `json:"start" validate:"required"` // RFC3339
	End         string `json:"end" validate:"required"`   // RFC3339
	Type        string `json:"type,omitempty"`            // BLOCKED (по умолчанию), PERSONAL, APPOINTMENT
}

// ToServiceRequest конвертирует HTTP запрос в запрос сервиса
func (r *CreateBlockRequest) ToServiceRequest(actor domain.Actor) (*models.CreateBlockRequest, error) {
	start, err := time.Parse(time.RFC3339, r.Start)
	if err != nil {
		return nil, err
	}
	end, err := time.Parse(time.RFC3339, r.End)
	if err != nil {
		return nil, err
	}

	return &models.CreateBlockRequest{
		Actor:       actor,
		OwnerUserID: r.OwnerUserID,
		Title:       r.Title,
		Start:       start,
		End:         end,
		Type:        r.Type,
	}, nil
}
