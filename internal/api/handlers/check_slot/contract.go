package check_slot

import (
	"context"
	"time"
)

type ReserveUseCase interface {
	Reserve(ctx context.Context, candidateStart time.Time, durationMinutes int) (bool, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
