package repository

import (
	"context"
	"errors"

	"sorteo-platform-backend/internal/features/company/models"
)

var (
	ErrCompanyNotFound = errors.New("company not found")
	ErrDuplicateTaxID  = errors.New("company with this tax id already exists")
)

type CompanyRepository interface {
	Create(ctx context.Context, company *models.CompanyAccount) error
	GetByID(ctx context.Context, id string) (*models.CompanyAccount, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]*models.CompanyAccount, error)
}
