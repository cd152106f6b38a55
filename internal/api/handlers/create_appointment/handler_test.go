package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	createBooking "github.com/m04kA/atelier-scheduling/internal/usecase/create_booking"
	"github.com/m04kA/atelier-scheduling/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*createBooking.Response)
	return resp, args.Error(1)
}

const validBody = `{"customerName":"Anna","customerPhone":"+79990000000","start":"2026-03-16T10:00:00+03:00","durationMinutes":30}`

func post(h *Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body)))
	return rec
}

func TestHandle_Created(t *testing.T) {
	start := time.Date(2026, 3, 16, 7, 0, 0, 0, time.UTC)

	uc := new(mockUseCase)
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *createBooking.Request) bool {
		return req.CustomerName == "Anna" && req.Start.Equal(start) && req.DurationMinutes == 30 &&
			req.CustomerPhone != nil && *req.CustomerPhone == "+79990000000"
	})).Return(&createBooking.Response{
		ID:            42,
		CustomerName:  "Anna",
		DatetimeStart: start,
		DatetimeEnd:   start.Add(30 * time.Minute),
		Status:        "PENDING",
	}, nil)

	rec := post(NewHandler(uc, logger.NewNop()), validBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(42), body.ID)
	assert.Equal(t, "PENDING", body.Status)
	assert.Equal(t, 30, body.DurationMinutes)
	uc.AssertExpectations(t)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "taken", err: createBooking.ErrSlotNotAvailable, want: http.StatusConflict},
		{name: "lock timeout", err: createBooking.ErrSlotBusy, want: http.StatusServiceUnavailable},
		{name: "serialization", err: createBooking.ErrConcurrentModification, want: http.StatusServiceUnavailable},
		{name: "past", err: createBooking.ErrStartInPast, want: http.StatusBadRequest},
		{name: "outside hours", err: createBooking.ErrOutsideBusinessHours, want: http.StatusBadRequest},
		{name: "invalid", err: createBooking.ErrInvalidInput, want: http.StatusBadRequest},
		{name: "store unavailable", err: fmt.Errorf("%w: connection refused", createBooking.ErrInternal), want: http.StatusServiceUnavailable},
		{name: "unexpected", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(mockUseCase)
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := post(NewHandler(uc, logger.NewNop()), validBody)
			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusServiceUnavailable {
				assert.NotEmpty(t, rec.Header().Get("Retry-After"))
			}
		})
	}
}

func TestHandle_InvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "{"},
		{name: "missing name", body: `{"start":"2026-03-16T10:00:00+03:00"}`},
		{name: "unknown field", body: `{"customerName":"Anna","start":"2026-03-16T10:00:00+03:00","carId":1}`},
		{name: "bad start", body: `{"customerName":"Anna","start":"2026-03-16 10:00"}`},
		{name: "bad email", body: `{"customerName":"Anna","customerEmail":"nope","start":"2026-03-16T10:00:00+03:00"}`},
		{name: "negative duration", body: `{"customerName":"Anna","start":"2026-03-16T10:00:00+03:00","durationMinutes":-30}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(mockUseCase)

			rec := post(NewHandler(uc, logger.NewNop()), tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		})
	}
}
