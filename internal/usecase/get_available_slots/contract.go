package get_available_slots

import (
	"context"

	"github.com/m04kA/atelier-scheduling/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Find(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
}

// CalendarRepository интерфейс репозитория событий календаря
type CalendarRepository interface {
	Find(ctx context.Context, filter domain.CalendarEventFilter) ([]*domain.CalendarEvent, error)
}

// Metrics учет запросов слотов
type Metrics interface {
	ObserveSlotQuery(closed bool)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
