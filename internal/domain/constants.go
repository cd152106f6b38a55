package domain

// Значения по умолчанию
const (
	DefaultSlotDurationMinutes = 30
	DefaultSlotBufferMinutes   = 15
	DefaultTimezone            = "Europe/Moscow"
)

// Константы бизнес-валидации
const (
	MinSlotDurationMinutes = 5
	MaxSlotDurationMinutes = 480 // 8 часов
	MaxNotesLength         = 500
	MaxCustomerNameLength  = 200
	MaxBlockTitleLength    = 200
)

// Форматы времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы, занимающие время в календаре.
// Используется и для сетки слотов, и для проверки пересечений при записи
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
}

// InactiveStatuses статусы, не влияющие на расписание
var InactiveStatuses = []AppointmentStatus{
	StatusRescheduled,
	StatusCancelled,
	StatusCompleted,
	StatusNoShow,
}
