package get_business_hours

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/atelier-scheduling/internal/domain"
	"github.com/m04kA/atelier-scheduling/pkg/logger"
	"github.com/m04kA/atelier-scheduling/pkg/types"
)

func TestHandle(t *testing.T) {
	hours, err := domain.NewBusinessHours([]domain.BusinessDay{
		{DayOfWeek: time.Monday, Open: types.MustTimeString("10:00"), Close: types.MustTimeString("19:00")},
		{DayOfWeek: time.Sunday, Closed: true},
	})
	require.NoError(t, err)

	policy := domain.SlotPolicy{DurationMinutes: 30, BufferMinutes: 15}
	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	NewHandler(hours, policy, loc, logger.NewNop()).Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/business-hours", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body BusinessHoursResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "Europe/Moscow", body.Timezone)
	assert.Equal(t, 30, body.SlotDurationMinutes)
	assert.Equal(t, 15, body.SlotBufferMinutes)
	require.Len(t, body.Days, 7)

	assert.True(t, body.Days[0].Closed)
	assert.Equal(t, "sunday", body.Days[0].Day)

	monday := body.Days[1]
	assert.False(t, monday.Closed)
	require.NotNil(t, monday.Open)
	assert.Equal(t, "10:00", *monday.Open)
	assert.Equal(t, "19:00", *monday.Close)

	// Не настроенный день отдается как выходной
	assert.True(t, body.Days[2].Closed)
	assert.Nil(t, body.Days[2].Open)
}
