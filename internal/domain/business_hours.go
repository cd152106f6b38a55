package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/atelier-scheduling/pkg/types"
)

// ErrInvalidBusinessHours некорректная таблица рабочих часов
var ErrInvalidBusinessHours = errors.New("invalid business hours")

// BusinessDay рабочие часы бутика в один день недели
type BusinessDay struct {
	DayOfWeek time.Weekday // 0 = воскресенье .. 6 = суббота
	Open      types.TimeString
	Close     types.TimeString
	Closed    bool
}

// BusinessHours неизменяемая таблица рабочих часов по дням недели.
// Загружается один раз при старте и передается явно
type BusinessHours struct {
	days [7]*BusinessDay
}

// NewBusinessHours собирает таблицу и проверяет ее корректность.
// Отсутствующий день недели считается выходным
func NewBusinessHours(days []BusinessDay) (BusinessHours, error) {
	var hours BusinessHours

	for i := range days {
		day := days[i]

		if day.DayOfWeek < time.Sunday || day.DayOfWeek > time.Saturday {
			return BusinessHours{}, fmt.Errorf("%w: day of week %d out of range", ErrInvalidBusinessHours, day.DayOfWeek)
		}
		if hours.days[day.DayOfWeek] != nil {
			return BusinessHours{}, fmt.Errorf("%w: duplicate entry for %s", ErrInvalidBusinessHours, day.DayOfWeek)
		}
		if !day.Closed && !day.Open.IsBefore(day.Close) {
			return BusinessHours{}, fmt.Errorf("%w: %s opens at %s but closes at %s",
				ErrInvalidBusinessHours, day.DayOfWeek, day.Open, day.Close)
		}

		hours.days[day.DayOfWeek] = &day
	}

	return hours, nil
}

// HoursFor возвращает рабочие часы дня недели.
// ok == false, если день не настроен или помечен как выходной
func (h BusinessHours) HoursFor(dayOfWeek time.Weekday) (*BusinessDay, bool) {
	if dayOfWeek < time.Sunday || dayOfWeek > time.Saturday {
		return nil, false
	}
	day := h.days[dayOfWeek]
	if day == nil || day.Closed {
		return day, false
	}
	return day, true
}

// Days возвращает настроенные дни по порядку (воскресенье..суббота)
func (h BusinessHours) Days() []BusinessDay {
	result := make([]BusinessDay, 0, len(h.days))
	for _, day := range h.days {
		if day != nil {
			result = append(result, *day)
		}
	}
	return result
}

// SlotPolicy параметры сетки слотов
type SlotPolicy struct {
	DurationMinutes int // длительность визита
	BufferMinutes   int // перерыв между визитами
}

// Step шаг сетки слотов в минутах
func (p SlotPolicy) Step() int {
	return p.DurationMinutes + p.BufferMinutes
}

// Validate проверяет, что сетка может быть построена
func (p SlotPolicy) Validate() error {
	if p.DurationMinutes < MinSlotDurationMinutes || p.DurationMinutes > MaxSlotDurationMinutes {
		return fmt.Errorf("slot duration must be between %d and %d minutes, got %d",
			MinSlotDurationMinutes, MaxSlotDurationMinutes, p.DurationMinutes)
	}
	if p.BufferMinutes < 0 {
		return fmt.Errorf("slot buffer must not be negative, got %d", p.BufferMinutes)
	}
	return nil
}
