package list_calendar_blocks

import (
	"context"

	"github.com/m04kA/atelier-scheduling/internal/service/calendar/models"
)

type CalendarService interface {
	ListBlocks(ctx context.Context, req *models.ListBlocksRequest) (*models.BlockListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
