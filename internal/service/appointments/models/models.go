package models

import (
	"time"

	"github.com/m04kA/atelier-scheduling/internal/domain"
)

// Request модели

// ListRequest запрос на получение записей
type ListRequest struct {
	Actor  domain.Actor
	From   *time.Time // Начало периода (опционально)
	To     *time.Time // Конец периода (опционально)
	Status *string    // Фильтр по статусу (опционально)
	All    bool       // Все календари (только ADMIN/MANAGER); иначе только свои записи
}

// UpdateStatusRequest запрос на смену статуса записи
type UpdateStatusRequest struct {
	Actor  domain.Actor
	Status string
}

// Response модели

// AppointmentResponse ответ с данными записи
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

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	return &AppointmentResponse{
		ID:              a.ID,
		CustomerName:    a.CustomerName,
		CustomerPhone:   a.CustomerPhone,
		CustomerEmail:   a.CustomerEmail,
		Notes:           a.Notes,
		DatetimeStart:   a.DatetimeStart,
		DatetimeEnd:     a.DatetimeEnd,
		DurationMinutes: a.DurationMinutes(),
		Status:          string(a.Status),
		AssignedUserID:  a.AssignedUserID,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(list []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(list)),
	}
	for _, a := range list {
		resp.Appointments = append(resp.Appointments, *FromDomainAppointment(a))
	}
	return resp
}
