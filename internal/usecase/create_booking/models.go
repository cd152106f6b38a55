package create_booking

import (
	"time"
)

// Request модель запроса на создание записи
type Request struct {
	CustomerName    string
	CustomerPhone   *string
	CustomerEmail   *string
	Notes           *string
	Start           time.Time // Абсолютное время начала визита
	DurationMinutes int       // 0 - длительность слота по умолчанию
	AssignedUserID  *int64    // Сотрудник, за которым закреплена запись (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID             int64
	CustomerName   string
	CustomerPhone  *string
	CustomerEmail  *string
	Notes          *string
	DatetimeStart  time.Time
	DatetimeEnd    time.Time
	Status         string
	AssignedUserID *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}
