package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	giveawaymodels "sorteo-platform-backend/internal/features/giveaway/models"
	"sorteo-platform-backend/internal/features/user/models"
	"sorteo-platform-backend/internal/features/user/repository"
)

type postgresRepository struct {
	db *gorm.DB
}

func NewPostgresRepository(db *gorm.DB) repository.UserRepository {
	return &postgresRepository{db: db}
}

func NewSocialAccountRepository(db *gorm.DB) repository.SocialAccountRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *postgresRepository) ListSocialAccounts(ctx context.Context, userID string) ([]*models.SocialAccount, error) {
	var accounts []*models.SocialAccount
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&accounts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list social accounts: %w", err)
	}
	return accounts, nil
}

func (r *postgresRepository) FindUserAccount(ctx context.Context, userID string, network giveawaymodels.SocialNetwork) (*models.SocialAccount, error) {
	return r.findAccount(ctx, "user_id = ? AND network = ?", userID, network)
}

func (r *postgresRepository) FindCompanyAccount(ctx context.Context, companyID string, network giveawaymodels.SocialNetwork) (*models.SocialAccount, error) {
	return r.findAccount(ctx, "company_id = ? AND network = ?", companyID, network)
}

func (r *postgresRepository) findAccount(ctx context.Context, query string, args ...interface{}) (*models.SocialAccount, error) {
	var account models.SocialAccount
	err := r.db.WithContext(ctx).First(&account, append([]interface{}{query}, args...)...).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSocialAccountNotFound
		}
		return nil, fmt.Errorf("failed to find social account: %w", err)
	}
	return &account, nil
}

func (r *postgresRepository) Update(ctx context.Context, account *models.SocialAccount) error {
	if err := r.db.WithContext(ctx).Save(account).Error; err != nil {
		return fmt.Errorf("failed to update social account: %w", err)
	}
	return nil
}
