package repository

import (
	"context"
	"errors"

	giveawaymodels "sorteo-platform-backend/internal/features/giveaway/models"
	"sorteo-platform-backend/internal/features/user/models"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrSocialAccountNotFound = errors.New("social account not found")
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	ListSocialAccounts(ctx context.Context, userID string) ([]*models.SocialAccount, error)
}

// SocialAccountRepository resolves network identities for verification.
type SocialAccountRepository interface {
	FindUserAccount(ctx context.Context, userID string, network giveawaymodels.SocialNetwork) (*models.SocialAccount, error)
	FindCompanyAccount(ctx context.Context, companyID string, network giveawaymodels.SocialNetwork) (*models.SocialAccount, error)
	Update(ctx context.Context, account *models.SocialAccount) error
}
