package get_available_slots

import (
	"time"

	"github.com/m04kA/atelier-scheduling/internal/domain"
	getAvailableSlots "github.com/m04kA/atelier-scheduling/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date   string `json:"date"`
	Closed bool   `json:"closed"`
	Slots  []Slot `json:"slots"`
}

// Slot модель временного слота
type Slot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response.
// onlyAvailable оставляет только свободные слоты
func FromUseCaseResponse(resp *getAvailableSlots.Response, onlyAvailable bool) *AvailableSlotsResponse {
	source := resp.Slots
	if onlyAvailable {
		source = resp.AvailableOnly()
	}

	slots := make([]Slot, len(source))
	for i, slot := range source {
		slots[i] = Slot{
			Time:      slot.Time.String(),
			Available: slot.Available,
		}
	}

	return &AvailableSlotsResponse{
		Date:   resp.Date.Format(domain.DateFormat),
		Closed: resp.Closed,
		Slots:  slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров.
// Дата интерпретируется в часовом поясе бутика
func ToUseCaseRequest(dateStr string, scopeUserID *int64, loc *time.Location) (*getAvailableSlots.Request, error) {
	date, err := time.ParseInLocation(domain.DateFormat, dateStr, loc)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		Date:        date,
		ScopeUserID: scopeUserID,
	}, nil
}
