package delete_calendar_block

import (
	"context"

	"github.com/m04kA/atelier-scheduling/internal/domain"
)

type CalendarService interface {
	DeleteBlock(ctx context.Context, id int64, actor domain.Actor) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
