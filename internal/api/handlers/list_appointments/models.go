package list_appointments

import (
	"net/url"
	"time"

	"github.com/m04kA/atelier-scheduling/internal/domain"
	"github.com/m04kA/atelier-scheduling/internal/service/appointments/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров.
// from/to принимают дату (YYYY-MM-DD, в часовом поясе бутика) или RFC3339.
// Дата в to означает конец этого дня
func ToServiceRequest(actor domain.Actor, query url.Values, loc *time.Location) (*models.ListRequest, error) {
	req := &models.ListRequest{
		Actor: actor,
		All:   query.Get("all") == "true",
	}

	if fromStr := query.Get("from"); fromStr != "" {
		from, _, err := parseBound(fromStr, loc)
		if err != nil {
			return nil, err
		}
		req.From = &from
	}

	if toStr := query.Get("to"); toStr != "" {
		to, isDate, err := parseBound(toStr, loc)
		if err != nil {
			return nil, err
		}
		if isDate {
			to = to.AddDate(0, 0, 1).Add(-time.Millisecond)
		}
		req.To = &to
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	return req, nil
}

func parseBound(s string, loc *time.Location) (time.Time, bool, error) {
	if t, err := time.ParseInLocation(domain.DateFormat, s, loc); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	return t, false, err
}
