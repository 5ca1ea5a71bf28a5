package repository

import (
	"context"
	"errors"

	"sorteo-platform-backend/internal/features/participation/models"
)

var (
	ErrParticipationNotFound = errors.New("participation not found")
	ErrAlreadyParticipating  = errors.New("user already participates in this giveaway")
	// ErrStatusConflict means a conditional verification update matched no
	// row: the participation was decided concurrently.
	ErrStatusConflict = errors.New("verification status changed concurrently")
)

type ParticipationRepository interface {
	Create(ctx context.Context, participation *models.Participation) error
	GetByID(ctx context.Context, id string) (*models.Participation, error)
	ListByGiveaway(ctx context.Context, giveawayID string) ([]*models.Participation, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Participation, error)
	CountByGiveaway(ctx context.Context, giveawayID string) (int64, error)
	// UpdateVerificationStatusIf moves the status from the expected
	// pre-state, failing with ErrStatusConflict when it no longer matches.
	UpdateVerificationStatusIf(ctx context.Context, id string, from, to models.VerificationStatus) error
}
