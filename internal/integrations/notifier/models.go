package notifier

import (
	"time"

	"github.com/m04kA/atelier-scheduling/internal/domain"
)

// Типы событий
const (
	EventAppointmentBooked        = "appointment.booked"
	EventAppointmentStatusChanged = "appointment.status_changed"
)

// Event тело сообщения о записи клиента
type Event struct {
	Event          string    `json:"event"`
	AppointmentID  int64     `json:"appointmentId"`
	Status         string    `json:"status"`
	DatetimeStart  time.Time `json:"datetimeStart"`
	DatetimeEnd    time.Time `json:"datetimeEnd"`
	AssignedUserID *int64    `json:"assignedUserId,omitempty"`
	OccurredAt     time.Time `json:"occurredAt"`
}

func newEvent(name string, appt *domain.Appointment, occurredAt time.Time) Event {
	return Event{
		Event:          name,
		AppointmentID:  appt.ID,
		Status:         string(appt.Status),
		DatetimeStart:  appt.DatetimeStart,
		DatetimeEnd:    appt.DatetimeEnd,
		AssignedUserID: appt.AssignedUserID,
		OccurredAt:     occurredAt,
	}
}
