package list_calendar_blocks

import (
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/atelier-scheduling/internal/domain"
	"github.com/m04kA/atelier-scheduling/internal/service/calendar/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров.
// from/to - даты в часовом поясе бутика, to включительно
func ToServiceRequest(actor domain.Actor, query url.Values, loc *time.Location) (*models.ListBlocksRequest, error) {
	req := &models.ListBlocksRequest{Actor: actor}

	if fromStr := query.Get("from"); fromStr != "" {
		from, err := time.ParseInLocation(domain.DateFormat, fromStr, loc)
		if err != nil {
			return nil, err
		}
		req.From = &from
	}

	if toStr := query.Get("to"); toStr != "" {
		to, err := time.ParseInLocation(domain.DateFormat, toStr, loc)
		if err != nil {
			return nil, err
		}
		to = to.AddDate(0, 0, 1).Add(-time.Millisecond)
		req.To = &to
	}

	if ownerStr := query.Get("ownerUserId"); ownerStr != "" {
		owner, err := strconv.ParseInt(ownerStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.OwnerUserID = &owner
	}

	return req, nil
}
