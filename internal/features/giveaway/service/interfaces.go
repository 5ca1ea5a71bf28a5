package service

import (
	"context"

	"sorteo-platform-backend/internal/features/giveaway/models/dto"
	"sorteo-platform-backend/internal/platform/kafka"
)

type GiveawayService interface {
	Create(ctx context.Context, callerID string, input *dto.GiveawayCreateRequest) (*dto.GiveawayResponse, error)
	GetByID(ctx context.Context, id string) (*dto.GiveawayResponse, error)
	List(ctx context.Context, filter ListFilter) ([]*dto.GiveawayResponse, error)
	Update(ctx context.Context, id, callerID string, input *dto.GiveawayUpdateRequest) (*dto.GiveawayResponse, error)
	Delete(ctx context.Context, id, callerID string) error
	// SelectWinner draws a primary winner and up to three ordered backups
	// with a cryptographically strong uniform draw, persisting the
	// selection and the awaiting_winner transition atomically. At most
	// one selection can ever exist per giveaway.
	SelectWinner(ctx context.Context, giveawayID, callerID string) (*dto.SelectionResponse, error)
}

// ListFilter carries the supported query filters for listing giveaways.
type ListFilter struct {
	Status    string
	CompanyID string
	Network   string
	Limit     int
}

// EventPublisher is the outbound event sink. Satisfied by the Kafka
// publisher and by kafka.NopPublisher.
type EventPublisher interface {
	PublishGiveawayEvent(ctx context.Context, event kafka.GiveawayEvent) error
}
