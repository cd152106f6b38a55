package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrStatusConflict возвращается, когда статус записи изменился с момента чтения
	ErrStatusConflict = errors.New("appointment.repository: appointment status changed concurrently")

	// ErrOverlap возвращается, когда вставка нарушает ограничение исключения по интервалу времени
	ErrOverlap = errors.New("appointment.repository: overlapping active appointment exists")

	// ErrSerialization возвращается, когда сериализуемая транзакция проиграла конкурентной
	ErrSerialization = errors.New("appointment.repository: serialization failure")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
