package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/atelier-scheduling/internal/domain"
	"github.com/m04kA/atelier-scheduling/pkg/types"
)

// validateRequest валидирует входные данные запроса и возвращает длительность визита
func validateRequest(req *Request, defaultDuration int) (int, error) {
	if req == nil {
		return 0, fmt.Errorf("%w: request is required", ErrInvalidInput)
	}

	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return 0, fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}
	if len(name) > domain.MaxCustomerNameLength {
		return 0, fmt.Errorf("%w: customer name exceeds %d characters", ErrInvalidInput, domain.MaxCustomerNameLength)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return 0, fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	if req.AssignedUserID != nil && *req.AssignedUserID <= 0 {
		return 0, fmt.Errorf("%w: assigned user id must be positive", ErrInvalidInput)
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = defaultDuration
	}
	if err := validateInterval(req.Start, duration); err != nil {
		return 0, err
	}

	return duration, nil
}

// validateInterval проверяет кандидата на запись: время начала и длительность
func validateInterval(start time.Time, durationMinutes int) error {
	if start.IsZero() {
		return fmt.Errorf("%w: start is required", ErrInvalidInput)
	}

	if durationMinutes <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %d", ErrInvalidInput, durationMinutes)
	}

	if durationMinutes > domain.MaxSlotDurationMinutes {
		return fmt.Errorf("%w: duration must not exceed %d minutes", ErrInvalidInput, domain.MaxSlotDurationMinutes)
	}

	return nil
}

// validateWithinBusinessHours проверяет, что визит целиком попадает в рабочие часы дня
func validateWithinBusinessHours(hours domain.BusinessHours, start, end time.Time, loc *time.Location) error {
	localStart := start.In(loc)

	day, open := hours.HoursFor(localStart.Weekday())
	if !open {
		return fmt.Errorf("%w: closed on %s", ErrOutsideBusinessHours, localStart.Format(domain.DateFormat))
	}

	startTime := types.NewTimeString(localStart)
	if startTime.IsBefore(day.Open) {
		return fmt.Errorf("%w: opens at %s", ErrOutsideBusinessHours, day.Open)
	}

	endMinutes := startTime.Minutes() + int(end.Sub(start)/time.Minute)
	if endMinutes > day.Close.Minutes() {
		return fmt.Errorf("%w: closes at %s", ErrOutsideBusinessHours, day.Close)
	}

	return nil
}

// overlapsBlock проверяет пересечение [start, end) с блокировками календаря
func overlapsBlock(blocks []*domain.CalendarEvent, start, end time.Time) *domain.CalendarEvent {
	for _, block := range blocks {
		if !block.IsBlocking() {
			continue
		}
		// Строгие неравенства: соседние интервалы не пересекаются
		if block.Start.Before(end) && block.End.After(start) {
			return block
		}
	}
	return nil
}

// lockKey ключ блокировки: все записи одного рабочего дня сериализуются
func lockKey(start time.Time, loc *time.Location) string {
	return "appointments:" + start.In(loc).Format(domain.DateFormat)
}

// dayStart начало рабочего дня, к которому относится момент t
func dayStart(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
