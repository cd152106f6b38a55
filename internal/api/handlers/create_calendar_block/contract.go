package create_calendar_block

import (
	"context"

	"github.com/m04kA/atelier-scheduling/internal/service/calendar/models"
)

type CalendarService interface {
	CreateBlock(ctx context.Context, req *models.CreateBlockRequest) (*models.BlockResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
