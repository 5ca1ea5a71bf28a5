package repository

import (
	"context"
	"errors"

	"sorteo-platform-backend/internal/features/giveaway/models"
)

var (
	ErrGiveawayNotFound  = errors.New("giveaway not found")
	ErrSelectionNotFound = errors.New("winner selection not found")
	ErrSelectionExists   = errors.New("winner selection already exists")
	// ErrStatusConflict means a conditional status update matched no row:
	// the stored status no longer equals the expected pre-state.
	ErrStatusConflict = errors.New("giveaway status changed concurrently")
)

// GiveawayFilter narrows List results.
type GiveawayFilter struct {
	Status    models.GiveawayStatus
	CompanyID string
	Network   models.SocialNetwork
	Limit     int
}

type GiveawayRepository interface {
	Create(ctx context.Context, giveaway *models.Giveaway) error
	GetByID(ctx context.Context, id string) (*models.Giveaway, error)
	List(ctx context.Context, filter GiveawayFilter) ([]*models.Giveaway, error)
	Update(ctx context.Context, giveaway *models.Giveaway) error
	// UpdateStatusIf transitions id from the expected status to the new
	// one, failing with ErrStatusConflict if the stored status differs.
	UpdateStatusIf(ctx context.Context, id string, from, to models.GiveawayStatus) error
	Delete(ctx context.Context, id string) error

	GetSelection(ctx context.Context, giveawayID string) (*models.WinnerSelection, error)
	// CreateSelection persists the selection with its backups and applies
	// the status transition in one transaction. A duplicate selection
	// yields ErrSelectionExists; a lost status race ErrStatusConflict.
	CreateSelection(ctx context.Context, selection *models.WinnerSelection, from, to models.GiveawayStatus) error
}
