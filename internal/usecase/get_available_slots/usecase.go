package get_available_slots

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/atelier-scheduling/internal/domain"
)

// UseCase use case получения сетки слотов на день (путь чтения).
// Результат носит рекомендательный характер: между чтением и записью сетка может устареть
type UseCase struct {
	appointmentRepo AppointmentRepository
	calendarRepo    CalendarRepository
	hours           domain.BusinessHours
	policy          domain.SlotPolicy
	location        *time.Location
	metrics         Metrics
	logger          Logger
}

// NewUseCase создает новый экземпляр use case.
// Рабочие часы и параметры сетки передаются явно и не меняются во время работы
func NewUseCase(
	appointmentRepo AppointmentRepository,
	calendarRepo CalendarRepository,
	hours domain.BusinessHours,
	policy domain.SlotPolicy,
	location *time.Location,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		calendarRepo:    calendarRepo,
		hours:           hours,
		policy:          policy,
		location:        location,
		metrics:         metrics,
		logger:          logger,
	}
}

// Execute выполняет use case получения слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных (до любых обращений к хранилищу)
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	dayStart, dayEnd := dayBounds(req.Date, uc.location)
	uc.logger.Info("GetAvailableSlots: date=%s, scope=%s", dayStart.Format(domain.DateFormat), formatScope(req.ScopeUserID))

	// 2. Рабочие часы. Выходной или ненастроенный день - сразу пустой ответ
	businessDay, open := uc.hours.HoursFor(dayStart.Weekday())
	if !open {
		uc.metrics.ObserveSlotQuery(true)
		uc.logger.Info("GetAvailableSlots: closed on %s (%s)", dayStart.Format(domain.DateFormat), dayStart.Weekday())
		return &Response{Date: dayStart, Closed: true, Slots: []domain.Slot{}}, nil
	}

	// 3. Сетка слотов
	grid, err := GenerateSlots(businessDay, uc.policy)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate slots: %v", err)
		return nil, err
	}

	// 4. Параллельно получаем активные записи и блокировки календаря за день
	var (
		appointments []*domain.Appointment
		blocks       []*domain.CalendarEvent
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		result, err := uc.appointmentRepo.Find(gctx, domain.AppointmentFilter{
			From:           &dayStart,
			To:             &dayEnd,
			Statuses:       domain.ActiveStatuses,
			AssignedUserID: req.ScopeUserID,
		})
		if err != nil {
			return fmt.Errorf("failed to get appointments: %v", err)
		}
		appointments = result
		return nil
	})

	g.Go(func() error {
		result, err := uc.calendarRepo.Find(gctx, domain.CalendarEventFilter{
			From:        &dayStart,
			To:          &dayEnd,
			Types:       []domain.CalendarEventType{domain.EventTypeBlocked},
			OwnerUserID: req.ScopeUserID,
		})
		if err != nil {
			return fmt.Errorf("failed to get calendar blocks: %v", err)
		}
		blocks = result
		return nil
	})

	if err := g.Wait(); err != nil {
		uc.logger.Error("GetAvailableSlots: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 5-6. Помечаем занятые слоты, возвращаем всю сетку
	slots := markTakenSlots(grid, appointments, blocks, uc.location)
	uc.metrics.ObserveSlotQuery(false)

	uc.logger.Info("GetAvailableSlots: generated %d slots for %s (appointments=%d, blocks=%d)",
		len(slots), dayStart.Format(domain.DateFormat), len(appointments), len(blocks))

	return &Response{Date: dayStart, Closed: false, Slots: slots}, nil
}

func formatScope(scopeUserID *int64) string {
	if scopeUserID == nil {
		return "all"
	}
	return fmt.Sprintf("user=%d", *scopeUserID)
}
