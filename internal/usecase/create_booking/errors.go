package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrStartInPast возвращается, когда время начала уже прошло
	ErrStartInPast = errors.New("create_booking: start time is in the past")

	// ErrSlotNotAvailable возвращается, когда интервал пересекается с активной записью или блокировкой
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrSlotBusy возвращается, когда блокировку слота не удалось получить вовремя.
	// Повторная попытка допустима
	ErrSlotBusy = errors.New("create_booking: slot is being booked by another request")

	// ErrConcurrentModification возвращается при конфликте сериализуемой транзакции.
	// Повторять запрос нужно после повторного получения свободных слотов
	ErrConcurrentModification = errors.New("create_booking: concurrent modification, retry")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

// ErrOutsideBusinessHours возвращается, когда визит не помещается в рабочие часы
var ErrOutsideBusinessHours = errors.New("create_booking: outside business hours")
