package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"sorteo-platform-backend/internal/features/participation/models"
	"sorteo-platform-backend/internal/features/participation/repository"
)

type postgresRepository struct {
	db *gorm.DB
}

func NewPostgresRepository(db *gorm.DB) repository.ParticipationRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, participation *models.Participation) error {
	err := r.db.WithContext(ctx).Create(participation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repository.ErrAlreadyParticipating
		}
		return fmt.Errorf("failed to create participation: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*models.Participation, error) {
	var participation models.Participation
	err := r.db.WithContext(ctx).First(&participation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrParticipationNotFound
		}
		return nil, fmt.Errorf("failed to get participation: %w", err)
	}
	return &participation, nil
}

func (r *postgresRepository) ListByGiveaway(ctx context.Context, giveawayID string) ([]*models.Participation, error) {
	var participations []*models.Participation
	err := r.db.WithContext(ctx).
		Where("giveaway_id = ?", giveawayID).
		Order("created_at ASC").
		Find(&participations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list participations: %w", err)
	}
	return participations, nil
}

func (r *postgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Participation, error) {
	var participations []*models.Participation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&participations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list participations: %w", err)
	}
	return participations, nil
}

func (r *postgresRepository) CountByGiveaway(ctx context.Context, giveawayID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Participation{}).
		Where("giveaway_id = ?", giveawayID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count participations: %w", err)
	}
	return count, nil
}

func (r *postgresRepository) UpdateVerificationStatusIf(ctx context.Context, id string, from, to models.VerificationStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Participation{}).
		Where("id = ? AND verification_status = ?", id, from).
		Update("verification_status", to)
	if res.Error != nil {
		return fmt.Errorf("failed to update verification status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrStatusConflict
	}
	return nil
}
