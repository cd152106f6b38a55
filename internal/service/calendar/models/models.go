package models

import (
	"time"

	"github.com/m04kA/atelier-scheduling/internal/domain"
)

// CreateBlockRequest запрос на создание события в календаре
type CreateBlockRequest struct {
	Actor       domain.Actor
	OwnerUserID *int64 // По умолчанию - сам пользователь
	Title       string
	Start       time.Time
	End         time.Time
	Type        string // По умолчанию BLOCKED
}

// ListBlocksRequest запрос на получение событий календаря
type ListBlocksRequest struct {
	Actor       domain.Actor
	From        *time.Time
	To          *time.Time
	OwnerUserID *int64 // nil: для STAFF - свой календарь, для ADMIN/MANAGER - все
}

// BlockResponse ответ с данными события
type BlockResponse struct {
	ID          int64     `json:"id"`
	OwnerUserID int64     `json:"ownerUserId"`
	Title       string    `json:"title"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BlockListResponse ответ со списком событий
type BlockListResponse struct {
	Blocks []BlockResponse `json:"blocks"`
}

// FromDomainEvent конвертирует domain модель в DTO
func FromDomainEvent(e *domain.CalendarEvent) *BlockResponse {
	if e == nil {
		return nil
	}

	return &BlockResponse{
		ID:          e.ID,
		OwnerUserID: e.OwnerUserID,
		Title:       e.Title,
		Start:       e.Start,
		End:         e.End,
		Type:        string(e.Type),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// FromDomainEventList конвертирует список domain моделей в DTO
func FromDomainEventList(list []*domain.CalendarEvent) *BlockListResponse {
	resp := &BlockListResponse{Blocks: make([]BlockResponse, 0, len(list))}
	for _, e := range list {
		resp.Blocks = append(resp.Blocks, *FromDomainEvent(e))
	}
	return resp
}
