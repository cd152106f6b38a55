package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/atelier-scheduling/internal/domain"
	appointmentRepo "github.com/m04kA/atelier-scheduling/internal/infra/storage/appointment"
	"github.com/m04kA/atelier-scheduling/pkg/metrics"
	"github.com/m04kA/atelier-scheduling/pkg/slotlock"
)

// UseCase use case записи клиента на визит (путь записи).
// Единственный источник истины о конфликтах: точная проверка пересечения интервалов
type UseCase struct {
	appointmentRepo AppointmentRepository
	calendarRepo    CalendarRepository
	txManager       TransactionManager
	locker          Locker
	notifier        Notifier
	hours           domain.BusinessHours
	policy          domain.SlotPolicy
	location        *time.Location
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	calendarRepo CalendarRepository,
	txManager TransactionManager,
	locker Locker,
	notifier Notifier,
	hours domain.BusinessHours,
	policy domain.SlotPolicy,
	location *time.Location,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		calendarRepo:    calendarRepo,
		txManager:       txManager,
		locker:          locker,
		notifier:        notifier,
		hours:           hours,
		policy:          policy,
		location:        location,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Reserve проверяет, свободен ли интервал [start, start+duration).
// true - пересечений с активными записями и блокировками нет на момент чтения.
// Только проверка: время не удерживается, и параллельные вызовы могут все вернуть true.
// Занимает интервал только Execute, из конкурирующих Execute успешен ровно один.
// При ошибке хранилища возвращает ошибку, а не true
func (uc *UseCase) Reserve(ctx context.Context, candidateStart time.Time, durationMinutes int) (bool, error) {
	if err := validateInterval(candidateStart, durationMinutes); err != nil {
		uc.logger.Warn("Reserve: validation failed: %v", err)
		return false, err
	}

	candidateEnd := candidateStart.Add(time.Duration(durationMinutes) * time.Minute)

	conflict, err := uc.findConflict(ctx, candidateStart, candidateEnd, nil)
	if err != nil {
		uc.logger.Error("Reserve: %v", err)
		return false, uc.classify(err)
	}

	if conflict != "" {
		uc.logger.Info("Reserve: %s - %s is taken (%s)",
			candidateStart.In(uc.location).Format(time.RFC3339), candidateEnd.In(uc.location).Format(domain.TimeFormat), conflict)
		return false, nil
	}

	return true, nil
}

// Execute выполняет use case создания записи.
// Проверка пересечений и вставка выполняются под блокировкой рабочего дня
// в одной сериализуемой транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	duration, err := validateRequest(req, uc.policy.DurationMinutes)
	if err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		uc.metrics.ObserveBooking(metrics.BookingRejected)
		return nil, err
	}

	start := req.Start
	end := start.Add(time.Duration(duration) * time.Minute)

	uc.logger.Info("CreateAppointment: start=%s, duration=%d, assigned=%v",
		start.In(uc.location).Format(time.RFC3339), duration, formatUserID(req.AssignedUserID))

	// 2. Запись в прошлое запрещена
	if start.Before(uc.timeProvider.Now()) {
		uc.logger.Warn("CreateAppointment: start %s is in the past", start.Format(time.RFC3339))
		uc.metrics.ObserveBooking(metrics.BookingRejected)
		return nil, ErrStartInPast
	}

	// 3. Визит должен помещаться в рабочие часы
	if err := validateWithinBusinessHours(uc.hours, start, end, uc.location); err != nil {
		uc.logger.Warn("CreateAppointment: %v", err)
		uc.metrics.ObserveBooking(metrics.BookingRejected)
		return nil, err
	}

	// 4. Блокировка рабочего дня. Освобождается на любом пути выхода
	waitStarted := time.Now()
	release, err := uc.locker.Acquire(ctx, lockKey(start, uc.location))
	uc.metrics.ObserveLockWait(time.Since(waitStarted))
	if err != nil {
		if errors.Is(err, slotlock.ErrLockTimeout) {
			uc.logger.Warn("CreateAppointment: lock wait timeout for %s", lockKey(start, uc.location))
			uc.metrics.ObserveBooking(metrics.BookingConflict)
			return nil, ErrSlotBusy
		}
		uc.logger.Error("CreateAppointment: failed to acquire lock: %v", err)
		uc.metrics.ObserveBooking(metrics.BookingError)
		return nil, fmt.Errorf("%w: failed to acquire lock: %v", ErrInternal, err)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			uc.logger.Warn("CreateAppointment: failed to release lock: %v", err)
		}
	}()

	var result *domain.Appointment

	// 5. Проверка и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Пересечения с активными записями (FOR UPDATE) и блокировками календаря
		conflict, err := uc.findConflict(txCtx, start, end, req.AssignedUserID)
		if err != nil {
			return err
		}
		if conflict != "" {
			uc.logger.Warn("CreateAppointment: slot not available: %s", conflict)
			return ErrSlotNotAvailable
		}

		// 5.2. Создаем запись
		created, err := uc.appointmentRepo.Create(txCtx, &domain.Appointment{
			CustomerName:   req.CustomerName,
			CustomerPhone:  req.CustomerPhone,
			CustomerEmail:  req.CustomerEmail,
			Notes:          req.Notes,
			DatetimeStart:  start,
			DatetimeEnd:    end,
			Status:         domain.StatusPending,
			AssignedUserID: req.AssignedUserID,
		})
		if err != nil {
			return fmt.Errorf("failed to create appointment: %w", err)
		}

		result = created
		return nil
	})

	if err != nil {
		err = uc.classify(err)
		switch {
		case errors.Is(err, ErrSlotNotAvailable):
			uc.metrics.ObserveBooking(metrics.BookingConflict)
		case errors.Is(err, ErrConcurrentModification):
			uc.logger.Warn("CreateAppointment: serialization conflict: %v", err)
			uc.metrics.ObserveBooking(metrics.BookingConflict)
		default:
			uc.logger.Error("CreateAppointment: %v", err)
			uc.metrics.ObserveBooking(metrics.BookingError)
		}
		return nil, err
	}

	uc.metrics.ObserveBooking(metrics.BookingCreated)
	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)

	// 6. Уведомление не влияет на результат записи
	if err := uc.notifier.AppointmentBooked(ctx, result); err != nil {
		uc.logger.Warn("CreateAppointment: failed to publish event for appointment id=%d: %v", result.ID, err)
	}

	return toResponse(result), nil
}

// findConflict возвращает описание первого найденного пересечения или пустую строку.
// Записи проверяются по всем сотрудникам, блокировки - по ownerID (nil - по всем)
func (uc *UseCase) findConflict(ctx context.Context, start, end time.Time, ownerID *int64) (string, error) {
	overlapping, err := uc.appointmentRepo.FindOverlapping(ctx, start, end, domain.ActiveStatuses)
	if err != nil {
		return "", fmt.Errorf("failed to find overlapping appointments: %w", err)
	}
	if len(overlapping) > 0 {
		return fmt.Sprintf("appointment id=%d", overlapping[0].ID), nil
	}

	from := dayStart(start, uc.location)
	blocks, err := uc.calendarRepo.Find(ctx, domain.CalendarEventFilter{
		From:        &from,
		To:          &end,
		Types:       []domain.CalendarEventType{domain.EventTypeBlocked},
		OwnerUserID: ownerID,
	})
	if err != nil {
		return "", fmt.Errorf("failed to get calendar blocks: %w", err)
	}
	if block := overlapsBlock(blocks, start, end); block != nil {
		return fmt.Sprintf("calendar block id=%d", block.ID), nil
	}

	return "", nil
}

// classify приводит ошибки хранилища и транзакции к ошибкам use case
func (uc *UseCase) classify(err error) error {
	switch {
	case errors.Is(err, ErrSlotNotAvailable),
		errors.Is(err, ErrConcurrentModification),
		errors.Is(err, ErrInternal):
		return err
	case errors.Is(err, appointmentRepo.ErrOverlap):
		// Сработало ограничение БД на пересечение интервалов
		return ErrSlotNotAvailable
	case errors.Is(err, appointmentRepo.ErrSerialization), appointmentRepo.IsSerializationFailure(err):
		return fmt.Errorf("%w: %v", ErrConcurrentModification, err)
	default:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

func toResponse(appt *domain.Appointment) *Response {
	return &Response{
		ID:             appt.ID,
		CustomerName:   appt.CustomerName,
		CustomerPhone:  appt.CustomerPhone,
		CustomerEmail:  appt.CustomerEmail,
		Notes:          appt.Notes,
		DatetimeStart:  appt.DatetimeStart,
		DatetimeEnd:    appt.DatetimeEnd,
		Status:         string(appt.Status),
		AssignedUserID: appt.AssignedUserID,
		CreatedAt:      appt.CreatedAt,
		UpdatedAt:      appt.UpdatedAt,
	}
}

func formatUserID(id *int64) string {
	if id == nil {
		return "none"
	}
	return fmt.Sprintf("%d", *id)
}
