package calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/atelier-scheduling/internal/domain"
	calendarRepo "github.com/m04kA/atelier-scheduling/internal/infra/storage/calendar"
	"github.com/m04kA/atelier-scheduling/internal/service/calendar/models"
)

// Service сервис событий календаря сотрудников
type Service struct {
	calendarRepo CalendarRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса календаря
func NewService(calendarRepo CalendarRepository, logger Logger) *Service {
	return &Service{
		calendarRepo: calendarRepo,
		logger:       logger,
	}
}

// CreateBlock создает событие в календаре.
// STAFF может создавать события только в своем календаре
func (s *Service) CreateBlock(ctx context.Context, req *models.CreateBlockRequest) (*models.BlockResponse, error) {
	owner := req.Actor.UserID
	if req.OwnerUserID != nil {
		owner = *req.OwnerUserID
	}

	s.logger.Info("CreateBlock: owner=%d, %s - %s by user=%d",
		owner, req.Start.Format("2006-01-02 15:04"), req.End.Format("2006-01-02 15:04"), req.Actor.UserID)

	// 1. Валидируем входные данные
	event, err := buildEvent(req, owner)
	if err != nil {
		s.logger.Warn("CreateBlock: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем права доступа
	if owner != req.Actor.UserID && !req.Actor.CanSeeAllCalendars() {
		s.logger.Warn("CreateBlock: user=%d cannot write to calendar of user=%d", req.Actor.UserID, owner)
		return nil, ErrAccessDenied
	}

	// 3. Сохраняем
	created, err := s.calendarRepo.Create(ctx, event)
	if err != nil {
		s.logger.Error("CreateBlock: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateBlock - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateBlock: successfully created event id=%d", created.ID)
	return models.FromDomainEvent(created), nil
}

// DeleteBlock удаляет событие. Доступно владельцу и ADMIN/MANAGER
func (s *Service) DeleteBlock(ctx context.Context, id int64, actor domain.Actor) error {
	s.logger.Info("DeleteBlock: event id=%d by user=%d", id, actor.UserID)

	event, err := s.calendarRepo.GetByID(ctx, id)
	if err != nil {
		return s.mapRepoError("DeleteBlock", id, err)
	}

	if event.OwnerUserID != actor.UserID && !actor.CanSeeAllCalendars() {
		s.logger.Warn("DeleteBlock: access denied for user=%d to event id=%d", actor.UserID, id)
		return ErrAccessDenied
	}

	if err := s.calendarRepo.Delete(ctx, id); err != nil {
		return s.mapRepoError("DeleteBlock", id, err)
	}

	s.logger.Info("DeleteBlock: successfully deleted event id=%d", id)
	return nil
}

// ListBlocks получает события календаря за период
func (s *Service) ListBlocks(ctx context.Context, req *models.ListBlocksRequest) (*models.BlockListResponse, error) {
	if req.From != nil && req.To != nil && req.From.After(*req.To) {
		return nil, fmt.Errorf("%w: from is after to", ErrInvalidInput)
	}

	owner := req.OwnerUserID
	if !req.Actor.CanSeeAllCalendars() {
		if owner != nil && *owner != req.Actor.UserID {
			s.logger.Warn("ListBlocks: user=%d cannot read calendar of user=%d", req.Actor.UserID, *owner)
			return nil, ErrAccessDenied
		}
		self := req.Actor.UserID
		owner = &self
	}

	events, err := s.calendarRepo.Find(ctx, domain.CalendarEventFilter{
		From:        req.From,
		To:          req.To,
		OwnerUserID: owner,
	})
	if err != nil {
		s.logger.Error("ListBlocks: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListBlocks - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListBlocks: fetched %d events for user=%d", len(events), req.Actor.UserID)
	return models.FromDomainEventList(events), nil
}

func (s *Service) mapRepoError(op string, id int64, err error) error {
	if errors.Is(err, calendarRepo.ErrEventNotFound) {
		s.logger.Warn("%s: event id=%d not found", op, id)
		return ErrEventNotFound
	}
	s.logger.Error("%s: repository error for event id=%d: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

// buildEvent валидирует запрос и собирает domain модель
func buildEvent(req *models.CreateBlockRequest, owner int64) (*domain.CalendarEvent, error) {
	if owner <= 0 {
		return nil, fmt.Errorf("%w: owner user id must be positive", ErrInvalidInput)
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if len(title) > domain.MaxBlockTitleLength {
		return nil, fmt.Errorf("%w: title exceeds %d characters", ErrInvalidInput, domain.MaxBlockTitleLength)
	}

	if req.Start.IsZero() || req.End.IsZero() {
		return nil, fmt.Errorf("%w: start and end are required", ErrInvalidInput)
	}
	if !req.End.After(req.Start) {
		return nil, fmt.Errorf("%w: end must be after start", ErrInvalidInput)
	}

	eventType := domain.EventTypeBlocked
	if req.Type != "" {
		parsed, err := domain.ParseCalendarEventType(req.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		eventType = parsed
	}

	return &domain.CalendarEvent{
		OwnerUserID: owner,
		Title:       title,
		Start:       req.Start,
		End:         req.End,
		Type:        eventType,
	}, nil
}
