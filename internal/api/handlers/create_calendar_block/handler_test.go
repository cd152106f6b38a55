package create_calendar_block

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/atelier-scheduling/internal/api/middleware"
	"github.com/m04kA/atelier-scheduling/internal/domain"
	"github.com/m04kA/atelier-scheduling/internal/service/calendar"
	"github.com/m04kA/atelier-scheduling/internal/service/calendar/models"
	"github.com/m04kA/atelier-scheduling/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) CreateBlock(ctx context.Context, req *models.CreateBlockRequest) (*models.BlockResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.BlockResponse)
	return resp, args.Error(1)
}

var staff = domain.Actor{UserID: 7, Role: domain.RoleStaff}

func post(svc CalendarService, body string, withActor bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/calendar/blocks", strings.NewReader(body))
	if withActor {
		req = req.WithContext(middleware.WithActor(req.Context(), staff))
	}
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	svc := new(mockService)
	svc.On("CreateBlock", mock.Anything, mock.MatchedBy(func(req *models.CreateBlockRequest) bool {
		return req.Actor == staff && req.Title == "Lunch" && req.OwnerUserID == nil &&
			req.Start.Equal(time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)) &&
			req.End.Equal(time.Date(2026, 3, 16, 11, 0, 0, 0, time.UTC))
	})).Return(&models.BlockResponse{ID: 3, OwnerUserID: 7, Title: "Lunch", Type: "BLOCKED"}, nil)

	rec := post(svc, `{"title":"Lunch","start":"2026-03-16T13:00:00+03:00","end":"2026-03-16T14:00:00+03:00"}`, true)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ownerUserId":7`)
	svc.AssertExpectations(t)
}

func TestHandle_Rejected(t *testing.T) {
	t.Run("no actor", func(t *testing.T) {
		svc := new(mockService)
		assert.Equal(t, http.StatusUnauthorized, post(svc, `{}`, false).Code)
	})

	t.Run("bad time", func(t *testing.T) {
		svc := new(mockService)
		rec := post(svc, `{"title":"Lunch","start":"13:00","end":"14:00"}`, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "CreateBlock", mock.Anything, mock.Anything)
	})

	t.Run("someone else's calendar", func(t *testing.T) {
		svc := new(mockService)
		svc.On("CreateBlock", mock.Anything, mock.Anything).Return(nil, calendar.ErrAccessDenied)

		rec := post(svc, `{"ownerUserId":8,"title":"Lunch","start":"2026-03-16T13:00:00+03:00","end":"2026-03-16T14:00:00+03:00"}`, true)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("end before start", func(t *testing.T) {
		svc := new(mockService)
		svc.On("CreateBlock", mock.Anything, mock.Anything).Return(nil, calendar.ErrInvalidInput)

		rec := post(svc, `{"title":"Lunch","start":"2026-03-16T14:00:00+03:00","end":"2026-03-16T13:00:00+03:00"}`, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
