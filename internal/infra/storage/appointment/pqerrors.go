package appointment

import (
	"errors"

	"github.com/lib/pq"
)

// Коды ошибок PostgreSQL
const (
	pqExclusionViolation   = pq.ErrorCode("23P01")
	pqSerializationFailure = pq.ErrorCode("40001")
)

// IsOverlapViolation true, если ошибка - нарушение EXCLUDE-ограничения на интервалы записей
func IsOverlapViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqExclusionViolation
}

// IsSerializationFailure true, если сериализуемая транзакция должна быть повторена
func IsSerializationFailure(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqSerializationFailure
}
