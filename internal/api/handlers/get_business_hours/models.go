package get_business_hours

import (
	"strings"
	"time"

	"github.com/m04kA/atelier-scheduling/internal/domain"
)

// BusinessHoursResponse HTTP response model
type BusinessHoursResponse struct {
	Timezone            string        `json:"timezone"`
	SlotDurationMinutes int           `json:"slotDurationMinutes"`
	SlotBufferMinutes   int           `json:"slotBufferMinutes"`
	Days                []BusinessDay `json:"days"`
}

// BusinessDay рабочие часы одного дня недели
type BusinessDay struct {
	DayOfWeek int     `json:"dayOfWeek"`
	Day       string  `json:"day"`
	Open      *string `json:"open,omitempty"`
	Close     *string `json:"close,omitempty"`
	Closed    bool    `json:"closed"`
}

// FromDomain конвертирует таблицу рабочих часов в HTTP response.
// Не настроенные дни недели отдаются как выходные
func FromDomain(hours domain.BusinessHours, policy domain.SlotPolicy, location *time.Location) *BusinessHoursResponse {
	days := make([]BusinessDay, 0, 7)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		day := BusinessDay{
			DayOfWeek: int(wd),
			Day:       strings.ToLower(wd.String()),
			Closed:    true,
		}

		if bd, open := hours.HoursFor(wd); open {
			openStr := bd.Open.String()
			closeStr := bd.Close.String()
			day.Open = &openStr
			day.Close = &closeStr
			day.Closed = false
		}

		days = append(days, day)
	}

	return &BusinessHoursResponse{
		Timezone:            location.String(),
		SlotDurationMinutes: policy.DurationMinutes,
		SlotBufferMinutes:   policy.BufferMinutes,
		Days:                days,
	}
}
