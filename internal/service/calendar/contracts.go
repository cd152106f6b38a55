package calendar

import (
	"context"

	"github.com/m04kA/atelier-scheduling/internal/domain"
)

// CalendarRepository интерфейс репозитория событий календаря
type CalendarRepository interface {
	Create(ctx context.Context, event *domain.CalendarEvent) (*domain.CalendarEvent, error)
	GetByID(ctx context.Context, id int64) (*domain.CalendarEvent, error)
	Find(ctx context.Context, filter domain.CalendarEventFilter) ([]*domain.CalendarEvent, error)
	Delete(ctx context.Context, id int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
