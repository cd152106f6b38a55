package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/atelier-scheduling/internal/domain"
	appointmentRepo "github.com/m04kA/atelier-scheduling/internal/infra/storage/appointment"
	"github.com/m04kA/atelier-scheduling/internal/service/appointments/models"
)

// Service сервис для работы с записями клиентов со стороны сотрудников
type Service struct {
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	notifier        Notifier
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	notifier Notifier,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		notifier:        notifier,
		logger:          logger,
	}
}

// GetByID получает запись по ID.
// STAFF видит только закрепленные за ним и не закрепленные ни за кем записи
func (s *Service) GetByID(ctx context.Context, id int64, actor domain.Actor) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d", id, actor.UserID)

	appt, err := s.getAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	if !canAccess(actor, appt) {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", actor.UserID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainAppointment(appt), nil
}

// List получает записи: "мой календарь" или, для ADMIN/MANAGER, все календари
func (s *Service) List(ctx context.Context, req *models.ListRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("List: fetching appointments for user=%d, all=%t", req.Actor.UserID, req.All)

	if req.All && !req.Actor.CanSeeAllCalendars() {
		s.logger.Warn("List: user=%d with role=%s cannot see all calendars", req.Actor.UserID, req.Actor.Role)
		return nil, ErrAccessDenied
	}

	if req.From != nil && req.To != nil && req.From.After(*req.To) {
		return nil, fmt.Errorf("%w: from is after to", ErrInvalidTimeRange)
	}

	filter := domain.AppointmentFilter{
		From: req.From,
		To:   req.To,
	}

	if !req.All {
		userID := req.Actor.UserID
		filter.AssignedUserID = &userID
	}

	if req.Status != nil {
		status, err := domain.ParseAppointmentStatus(*req.Status)
		if err != nil {
			s.logger.Warn("List: invalid status=%s", *req.Status)
			return nil, fmt.Errorf("%w: %v", ErrInvalidStatus, err)
		}
		filter.Statuses = []domain.AppointmentStatus{status}
	}

	list, err := s.appointmentRepo.Find(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error for user=%d: %v", req.Actor.UserID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d appointments for user=%d", len(list), req.Actor.UserID)
	return models.FromDomainAppointmentList(list), nil
}

// UpdateStatus меняет статус записи по разрешенным переходам.
// Перевод в CANCELLED или RESCHEDULED освобождает время в календаре
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: appointment id=%d to status=%s by user=%d", id, req.Status, req.Actor.UserID)

	next, err := domain.ParseAppointmentStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s", req.Status)
		return nil, fmt.Errorf("%w: %v", ErrInvalidStatus, err)
	}

	var updated *domain.Appointment

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		appt, err := s.getAppointment(txCtx, id)
		if err != nil {
			return err
		}

		if !canAccess(req.Actor, appt) {
			s.logger.Warn("UpdateStatus: access denied for user=%d to appointment id=%d", req.Actor.UserID, id)
			return ErrAccessDenied
		}

		if !appt.Status.CanTransitionTo(next) {
			s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for appointment id=%d", appt.Status, next, id)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appt.Status, next)
		}

		// обновление условное: конкурентный переход между чтением и записью дает конфликт
		if err := s.appointmentRepo.UpdateStatus(txCtx, id, appt.Status, next); err != nil {
			if errors.Is(err, appointmentRepo.ErrStatusConflict) {
				s.logger.Warn("UpdateStatus: appointment id=%d changed status concurrently, %s -> %s rejected", id, appt.Status, next)
				return fmt.Errorf("%w: status changed concurrently", ErrInvalidTransition)
			}
			s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", id, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		appt.Status = next
		updated = appt
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateStatus: appointment id=%d is now %s", id, next)

	if err := s.notifier.AppointmentStatusChanged(ctx, updated); err != nil {
		s.logger.Warn("UpdateStatus: failed to publish event for appointment id=%d: %v", id, err)
	}

	return models.FromDomainAppointment(updated), nil
}

func (s *Service) getAppointment(ctx context.Context, id int64) (*domain.Appointment, error) {
	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}
	return appt, nil
}

// canAccess проверяет, что сотрудник может видеть и менять запись
func canAccess(actor domain.Actor, appt *domain.Appointment) bool {
	if actor.CanSeeAllCalendars() {
		return true
	}
	return appt.AssignedUserID == nil || *appt.AssignedUserID == actor.UserID
}
