package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/m04kA/atelier-scheduling/internal/domain"
)

// Channel часть *amqp.Channel, нужная для публикации
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher публикует события о записях в очередь RabbitMQ
type Publisher struct {
	channel        Channel
	queue          string
	publishTimeout time.Duration
	now            func() time.Time
	log            Logger
}

// NewPublisher создает издателя событий
func NewPublisher(channel Channel, queue string, publishTimeout time.Duration, log Logger) *Publisher {
	return &Publisher{
		channel:        channel,
		queue:          queue,
		publishTimeout: publishTimeout,
		now:            time.Now,
		log:            log,
	}
}

// Connect подключается к брокеру и объявляет durable-очередь
func Connect(url, queue string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, fmt.Errorf("failed to declare queue %q: %w", queue, err)
	}

	return conn, ch, nil
}

// AppointmentBooked сообщает о новой записи
func (p *Publisher) AppointmentBooked(ctx context.Context, appt *domain.Appointment) error {
	return p.publish(ctx, newEvent(EventAppointmentBooked, appt, p.now()))
}

// AppointmentStatusChanged сообщает о смене статуса записи
func (p *Publisher) AppointmentStatusChanged(ctx context.Context, appt *domain.Appointment) error {
	return p.publish(ctx, newEvent(EventAppointmentStatusChanged, appt, p.now()))
}

func (p *Publisher) publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}

	if p.publishTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.publishTimeout)
		defer cancel()
	}

	err = p.channel.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    event.OccurredAt,
		Type:         event.Event,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("%w: %s appointment=%d: %v", ErrPublish, event.Event, event.AppointmentID, err)
	}

	p.log.Info("Published %s for appointment id=%d", event.Event, event.AppointmentID)
	return nil
}

// Nop издатель-заглушка для окружений без брокера
type Nop struct{}

// AppointmentBooked ничего не делает
func (Nop) AppointmentBooked(context.Context, *domain.Appointment) error { return nil }

// AppointmentStatusChanged ничего не делает
func (Nop) AppointmentStatusChanged(context.Context, *domain.Appointment) error { return nil }
