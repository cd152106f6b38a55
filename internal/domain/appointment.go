package domain

import (
	"fmt"
	"strings"
	"time"
)

// AppointmentStatus статус записи клиента
type AppointmentStatus string

const (
	StatusPending     AppointmentStatus = "PENDING"
	StatusConfirmed   AppointmentStatus = "CONFIRMED"
	StatusRescheduled AppointmentStatus = "RESCHEDULED"
	StatusCancelled   AppointmentStatus = "CANCELLED"
	StatusCompleted   AppointmentStatus = "COMPLETED"
	StatusNoShow      AppointmentStatus = "NO_SHOW"
)

// Appointment запись клиента на визит в бутик
type Appointment struct {
	ID             int64
	CustomerName   string
	CustomerPhone  *string
	CustomerEmail  *string
	Notes          *string
	DatetimeStart  time.Time
	DatetimeEnd    time.Time // DatetimeStart + длительность услуги
	Status         AppointmentStatus
	AssignedUserID *int64 // сотрудник, в чьем календаре занято время

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive true, если запись занимает время в календаре.
// Только PENDING и CONFIRMED блокируют слот
func (a *Appointment) IsActive() bool {
	return a.Status.IsActive()
}

// Overlaps проверяет пересечение полуоткрытых интервалов [start, end)
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return a.DatetimeStart.Before(end) && a.DatetimeEnd.After(start)
}

// DurationMinutes длительность записи в минутах
func (a *Appointment) DurationMinutes() int {
	return int(a.DatetimeEnd.Sub(a.DatetimeStart) / time.Minute)
}

// IsActive true для PENDING и CONFIRMED
func (s AppointmentStatus) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// CanTransitionTo проверяет допустимость смены статуса сотрудником
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled, StatusRescheduled},
	StatusConfirmed: {StatusCompleted, StatusNoShow, StatusCancelled, StatusRescheduled},
}

// ParseAppointmentStatus разбирает статус без учета регистра
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	status := AppointmentStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch status {
	case StatusPending, StatusConfirmed, StatusRescheduled, StatusCancelled, StatusCompleted, StatusNoShow:
		return status, nil
	default:
		return "", fmt.Errorf("unknown appointment status %q", s)
	}
}
