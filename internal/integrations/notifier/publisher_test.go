package notifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/atelier-scheduling/internal/domain"
	"github.com/m04kA/atelier-scheduling/pkg/logger"
	"github.com/m04kA/atelier-scheduling/pkg/ptr"
)

type recordingChannel struct {
	key      string
	msg      amqp.Publishing
	deadline bool
	err      error
}

func (c *recordingChannel) PublishWithContext(ctx context.Context, _ string, key string, _ bool, _ bool, msg amqp.Publishing) error {
	c.key = key
	c.msg = msg
	_, c.deadline = ctx.Deadline()
	return c.err
}

func testAppointment() *domain.Appointment {
	start := time.Date(2026, 3, 16, 10, 45, 0, 0, time.UTC)
	return &domain.Appointment{
		ID:             42,
		CustomerName:   "Client",
		DatetimeStart:  start,
		DatetimeEnd:    start.Add(30 * time.Minute),
		Status:         domain.StatusPending,
		AssignedUserID: ptr.Ptr(int64(7)),
	}
}

func TestPublisher_AppointmentBooked(t *testing.T) {
	ch := &recordingChannel{}
	p := NewPublisher(ch, "appointments", time.Second, logger.NewNop())
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	require.NoError(t, p.AppointmentBooked(context.Background(), testAppointment()))

	assert.Equal(t, "appointments", ch.key)
	assert.True(t, ch.deadline)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)
	assert.Equal(t, EventAppointmentBooked, ch.msg.Type)
	assert.NotEmpty(t, ch.msg.MessageId)

	var event Event
	require.NoError(t, json.Unmarshal(ch.msg.Body, &event))
	assert.Equal(t, EventAppointmentBooked, event.Event)
	assert.Equal(t, int64(42), event.AppointmentID)
	assert.Equal(t, "PENDING", event.Status)
	assert.Equal(t, int64(7), *event.AssignedUserID)
	assert.True(t, event.OccurredAt.Equal(now))
}

func TestPublisher_StatusChangedBodyKeys(t *testing.T) {
	ch := &recordingChannel{}
	p := NewPublisher(ch, "appointments", 0, logger.NewNop())

	appt := testAppointment()
	appt.Status = domain.StatusCancelled
	appt.AssignedUserID = nil

	require.NoError(t, p.AppointmentStatusChanged(context.Background(), appt))
	assert.False(t, ch.deadline)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(ch.msg.Body, &body))
	assert.Equal(t, "appointment.status_changed", body["event"])
	assert.Equal(t, "CANCELLED", body["status"])
	assert.NotContains(t, body, "assignedUserId")
	assert.Contains(t, body, "datetimeStart")
	assert.Contains(t, body, "occurredAt")
}

func TestPublisher_PublishError(t *testing.T) {
	ch := &recordingChannel{err: errors.New("channel closed")}
	p := NewPublisher(ch, "appointments", time.Second, logger.NewNop())

	err := p.AppointmentBooked(context.Background(), testAppointment())
	assert.ErrorIs(t, err, ErrPublish)
}

func TestNop(t *testing.T) {
	var n Nop
	assert.NoError(t, n.AppointmentBooked(context.Background(), testAppointment()))
	assert.NoError(t, n.AppointmentStatusChanged(context.Background(), testAppointment()))
}
