package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "sorteo-platform-backend/internal/common/errors"
	"sorteo-platform-backend/internal/features/company/models"
	"sorteo-platform-backend/internal/features/company/repository"
)

type CompanyService interface {
	Create(ctx context.Context, ownerUserID string, input *models.CompanyCreate) (*models.CompanyAccount, error)
	ListOwn(ctx context.Context, ownerUserID string) ([]*models.CompanyAccount, error)
}

type companyService struct {
	repo repository.CompanyRepository
}

func NewCompanyService(repo repository.CompanyRepository) CompanyService {
	return &companyService{repo: repo}
}

func (s *companyService) Create(ctx context.Context, ownerUserID string, input *models.CompanyCreate) (*models.CompanyAccount, error) {
	company := &models.CompanyAccount{
		ID:            uuid.New().String(),
		LegalName:     input.LegalName,
		TaxID:         input.TaxID,
		FiscalAddress: input.FiscalAddress,
		ContactEmail:  input.ContactEmail,
		OwnerUserID:   ownerUserID,
		CreatedAt:     time.Now(),
	}

	if err := s.repo.Create(ctx, company); err != nil {
		if err == repository.ErrDuplicateTaxID {
			return nil, apperrors.New(apperrors.ErrCodeConflict, "A company with this tax id already exists")
		}
		return nil, apperrors.NewDatabaseError("create company", err)
	}

	return company, nil
}

func (s *companyService) ListOwn(ctx context.Context, ownerUserID string) ([]*models.CompanyAccount, error) {
	companies, err := s.repo.ListByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list companies", err)
	}
	return companies, nil
}
