package create_appointment

import (
	"time"

	createBooking "github.com/m04kA/atelier-scheduling/internal/usecase/create_booking"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	CustomerName    string  `json:"customerName" validate:"required,max=200"`
	CustomerPhone   *string `json:"customerPhone,omitempty" validate:"omitempty,max=32"`
	CustomerEmail   *string `json:"customerEmail,omitempty" validate:"omitempty,email"`
	Notes           *string `json:"notes,omitempty" validate:"omitempty,max=500"`
	Start           string  `json:"start" validate:"required"` // RFC3339
	DurationMinutes int     `json:"durationMinutes,omitempty" validate:"gte=0,lte=480"`
	AssignedUserID  *int64  `json:"assignedUserId,omitempty" validate:"omitempty,gt=0"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              int64     `json:"id"`
	CustomerName    string    `json:"customerName"`
	CustomerPhone   *string   `json:"customerPhone,omitempty"`
	CustomerEmail   *string   `json:"customerEmail,omitempty"`
	Notes           *string   `json:"notes,omitempty"`
	DatetimeStart   time.Time `json:"datetimeStart"`
	DatetimeEnd     time.Time `json:"datetimeEnd"`
	DurationMinutes int       `json:"durationMinutes"`
	Status          string    `json:"status"`
	AssignedUserID  *int64    `json:"assignedUserId,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// Время начала в RFC3339 однозначно задает момент, независимо от часового пояса клиента
func (r *CreateAppointmentRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	start, err := time.Parse(time.RFC3339, r.Start)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		CustomerName:    r.CustomerName,
		CustomerPhone:   r.CustomerPhone,
		CustomerEmail:   r.CustomerEmail,
		Notes:           r.Notes,
		Start:           start,
		DurationMinutes: r.DurationMinutes,
		AssignedUserID:  r.AssignedUserID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              resp.ID,
		CustomerName:    resp.CustomerName,
		CustomerPhone:   resp.CustomerPhone,
		CustomerEmail:   resp.CustomerEmail,
		Notes:           resp.Notes,
		DatetimeStart:   resp.DatetimeStart,
		DatetimeEnd:     resp.DatetimeEnd,
		DurationMinutes: int(resp.DatetimeEnd.Sub(resp.DatetimeStart).Minutes()),
		Status:          resp.Status,
		AssignedUserID:  resp.AssignedUserID,
		CreatedAt:       resp.CreatedAt,
		UpdatedAt:       resp.UpdatedAt,
	}
}
