package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"sorteo-platform-backend/internal/features/company/models"
	"sorteo-platform-backend/internal/features/company/repository"
)

type postgresRepository struct {
	db *gorm.DB
}

func NewPostgresRepository(db *gorm.DB) repository.CompanyRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, company *models.CompanyAccount) error {
	err := r.db.WithContext(ctx).Create(company).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repository.ErrDuplicateTaxID
		}
		return fmt.Errorf("failed to create company: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*models.CompanyAccount, error) {
	var company models.CompanyAccount
	err := r.db.WithContext(ctx).First(&company, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return &company, nil
}

func (r *postgresRepository) ListByOwner(ctx context.Context, ownerUserID string) ([]*models.CompanyAccount, error) {
	var companies []*models.CompanyAccount
	err := r.db.WithContext(ctx).
		Where("owner_user_id = ?", ownerUserID).
		Order("created_at DESC").
		Find(&companies).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, nil
}
