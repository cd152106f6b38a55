package domain

import "time"

// AppointmentFilter фильтр выборки записей.
// Все поля опциональны: nil/пустое значение означает отсутствие ограничения
type AppointmentFilter struct {
	From           *time.Time          // DatetimeStart >= From
	To             *time.Time          // DatetimeStart <= To
	Statuses       []AppointmentStatus // статус входит в список
	AssignedUserID *int64              // запись в календаре конкретного сотрудника
}

// CalendarEventFilter фильтр выборки событий календаря
type CalendarEventFilter struct {
	From        *time.Time // Start >= From
	To          *time.Time // Start <= To
	Types       []CalendarEventType
	OwnerUserID *int64
}
