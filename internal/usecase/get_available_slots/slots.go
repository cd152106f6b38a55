package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/atelier-scheduling/internal/domain"
	"github.com/m04kA/atelier-scheduling/pkg/types"
)

// GenerateSlots строит сетку времен начала визитов на день.
// Слоты идут от открытия с шагом Duration+Buffer; слот, который закончился бы
// после закрытия, не предлагается. Для выходного или ненастроенного дня - пустая сетка.
// Сетка ничего не знает о занятом времени
func GenerateSlots(day *domain.BusinessDay, policy domain.SlotPolicy) ([]types.TimeString, error) {
	if day == nil || day.Closed {
		return []types.TimeString{}, nil
	}

	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPolicy, err)
	}

	openMinutes := day.Open.Minutes()
	closeMinutes := day.Close.Minutes()

	slots := make([]types.TimeString, 0, (closeMinutes-openMinutes)/policy.Step()+1)
	for current := openMinutes; current+policy.DurationMinutes <= closeMinutes; current += policy.Step() {
		slot, err := types.NewTimeStringFromMinutes(current)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPolicy, err)
		}
		slots = append(slots, slot)
	}

	return slots, nil
}

// markTakenSlots помечает слоты сетки, чье HH:MM совпадает с началом активной записи
// или блокировки календаря.
//
// Это грубое сравнение по корзинам времени для отображения: запись, начавшаяся
// не на границе сетки (например, в 10:07 при слотах 10:00/10:45), конфликтом не считается.
// Точная проверка пересечения интервалов выполняется только при создании записи
func markTakenSlots(
	grid []types.TimeString,
	appointments []*domain.Appointment,
	blocks []*domain.CalendarEvent,
	loc *time.Location,
) []domain.Slot {
	taken := make(map[types.TimeString]struct{}, len(appointments)+len(blocks))

	for _, appt := range appointments {
		taken[types.NewTimeString(appt.DatetimeStart.In(loc))] = struct{}{}
	}
	for _, block := range blocks {
		taken[types.NewTimeString(block.Start.In(loc))] = struct{}{}
	}

	slots := make([]domain.Slot, len(grid))
	for i, t := range grid {
		_, isTaken := taken[t]
		slots[i] = domain.Slot{Time: t, Available: !isTaken}
	}

	return slots
}

// dayBounds возвращает границы календарного дня date в часовом поясе loc:
// [00:00:00.000, 23:59:59.999]
func dayBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	y, m, d := date.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1).Add(-time.Millisecond)
	return start, end
}
