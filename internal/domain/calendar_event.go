package domain

import (
	"fmt"
	"strings"
	"time"
)

// CalendarEventType тип события в календаре сотрудника
type CalendarEventType string

const (
	EventTypeBlocked     CalendarEventType = "BLOCKED"
	EventTypeAppointment CalendarEventType = "APPOINTMENT"
	EventTypePersonal    CalendarEventType = "PERSONAL"
)

// CalendarEvent событие календаря сотрудника.
// Препятствием для записи является только тип BLOCKED
type CalendarEvent struct {
	ID          int64
	OwnerUserID int64
	Title       string
	Start       time.Time
	End         time.Time
	Type        CalendarEventType

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBlocking true, если событие закрывает время для записи клиентов
func (e *CalendarEvent) IsBlocking() bool {
	return e.Type == EventTypeBlocked
}

// ParseCalendarEventType разбирает тип события без учета регистра
func ParseCalendarEventType(s string) (CalendarEventType, error) {
	t := CalendarEventType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case EventTypeBlocked, EventTypeAppointment, EventTypePersonal:
		return t, nil
	default:
		return "", fmt.Errorf("unknown calendar event type %q", s)
	}
}
