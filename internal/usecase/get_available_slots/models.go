package get_available_slots

import (
	"time"

	"github.com/m04kA/atelier-scheduling/internal/domain"
)

// Request модель запроса на получение слотов
type Request struct {
	Date        time.Time // Дата (время суток игнорируется)
	ScopeUserID *int64    // Календарь конкретного сотрудника; nil - все календари
}

// Response модель ответа: полная сетка дня с признаком доступности
type Response struct {
	Date   time.Time
	Closed bool
	Slots  []domain.Slot
}

// AvailableOnly проекция сетки только на свободные слоты
func (r *Response) AvailableOnly() []domain.Slot {
	free := make([]domain.Slot, 0, len(r.Slots))
	for _, slot := range r.Slots {
		if slot.Available {
			free = append(free, slot)
		}
	}
	return free
}
