package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/atelier-scheduling/internal/domain"
	"github.com/m04kA/atelier-scheduling/pkg/slotlock"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	FindOverlapping(ctx context.Context, start, end time.Time, statuses []domain.AppointmentStatus) ([]*domain.Appointment, error)
}

// CalendarRepository интерфейс репозитория событий календаря
type CalendarRepository interface {
	Find(ctx context.Context, filter domain.CalendarEventFilter) ([]*domain.CalendarEvent, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Locker взаимное исключение по ключу слота
type Locker interface {
	Acquire(ctx context.Context, key string) (slotlock.Release, error)
}

// Notifier публикация событий о записях
type Notifier interface {
	AppointmentBooked(ctx context.Context, appt *domain.Appointment) error
}

// Metrics учет попыток записи
type Metrics interface {
	ObserveBooking(outcome string)
	ObserveLockWait(d time.Duration)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
