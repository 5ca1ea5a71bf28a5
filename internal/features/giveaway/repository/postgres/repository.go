package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"sorteo-platform-backend/internal/features/giveaway/models"
	"sorteo-platform-backend/internal/features/giveaway/repository"
)

type postgresRepository struct {
	db *gorm.DB
}

func NewPostgresRepository(db *gorm.DB) repository.GiveawayRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, giveaway *models.Giveaway) error {
	// Requirements are created in the same insert through the
	// association, so a giveaway and its requirements land atomically.
	if err := r.db.WithContext(ctx).Create(giveaway).Error; err != nil {
		return fmt.Errorf("failed to create giveaway: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*models.Giveaway, error) {
	var giveaway models.Giveaway
	err := r.db.WithContext(ctx).
		Preload("Requirements", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&giveaway, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrGiveawayNotFound
		}
		return nil, fmt.Errorf("failed to get giveaway: %w", err)
	}
	return &giveaway, nil
}

func (r *postgresRepository) List(ctx context.Context, filter repository.GiveawayFilter) ([]*models.Giveaway, error) {
	query := r.db.WithContext(ctx).Model(&models.Giveaway{}).Preload("Requirements")

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CompanyID != "" {
		query = query.Where("company_id = ?", filter.CompanyID)
	}
	if filter.Network != "" {
		query = query.Where("network = ?", filter.Network)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var giveaways []*models.Giveaway
	err := query.Order("created_at DESC").Limit(limit).Find(&giveaways).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list giveaways: %w", err)
	}
	return giveaways, nil
}

func (r *postgresRepository) Update(ctx context.Context, giveaway *models.Giveaway) error {
	err := r.db.WithContext(ctx).
		Omit("Requirements").
		Save(giveaway).Error
	if err != nil {
		return fmt.Errorf("failed to update giveaway: %w", err)
	}
	return nil
}

func (r *postgresRepository) UpdateStatusIf(ctx context.Context, id string, from, to models.GiveawayStatus) error {
	return updateStatusIf(r.db.WithContext(ctx), id, from, to)
}

// updateStatusIf is the conditional write both the PATCH path and the
// winner selector rely on: the status only moves if the stored value
// still matches the expected pre-state.
func updateStatusIf(db *gorm.DB, id string, from, to models.GiveawayStatus) error {
	res := db.Model(&models.Giveaway{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return fmt.Errorf("failed to update giveaway status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrStatusConflict
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Giveaway{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete giveaway: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrGiveawayNotFound
	}
	return nil
}

func (r *postgresRepository) GetSelection(ctx context.Context, giveawayID string) (*models.WinnerSelection, error) {
	var selection models.WinnerSelection
	err := r.db.WithContext(ctx).
		Preload("Backups", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&selection, "giveaway_id = ?", giveawayID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSelectionNotFound
		}
		return nil, fmt.Errorf("failed to get winner selection: %w", err)
	}
	return &selection, nil
}

func (r *postgresRepository) CreateSelection(ctx context.Context, selection *models.WinnerSelection, from, to models.GiveawayStatus) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(selection).Error; err != nil {
			return err
		}
		return updateStatusIf(tx, selection.GiveawayID, from, to)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repository.ErrSelectionExists
		}
		if errors.Is(err, repository.ErrStatusConflict) {
			return repository.ErrStatusConflict
		}
		return fmt.Errorf("failed to persist winner selection: %w", err)
	}
	return nil
}
