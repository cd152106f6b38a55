package get_available_slots

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInvalidPolicy возвращается, когда параметры сетки не позволяют построить слоты
	ErrInvalidPolicy = errors.New("get_available_slots: invalid slot policy")

	// ErrInternal возвращается при внутренних ошибках usecase (в т.ч. недоступности хранилища)
	ErrInternal = errors.New("get_available_slots: internal error")
)
