package models

import (
	"time"

	giveawaymodels "sorteo-platform-backend/internal/features/giveaway/models"
)

// User is a platform participant account.
type User struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name"`
	Email     string    `gorm:"uniqueIndex" json:"email"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// SocialAccount links a user or a company to a network identity. For
// Meta networks it also carries the credentials and resolved ids the
// Graph adapter needs. AccessToken never leaves the server.
type SocialAccount struct {
	ID                  string                       `gorm:"primaryKey" json:"id"`
	UserID              *string                      `gorm:"index" json:"user_id,omitempty"`
	CompanyID           *string                      `gorm:"index" json:"company_id,omitempty"`
	Network             giveawaymodels.SocialNetwork `json:"network"`
	Handle              string                       `json:"handle"`
	ProviderUserID      string                       `json:"provider_user_id,omitempty"`
	AccessToken         string                       `json:"-"`
	TokenType           string                       `json:"token_type,omitempty"`
	PageID              string                       `json:"-"`
	InstagramBusinessID string                       `json:"-"`
	CreatedAt           time.Time                    `json:"created_at"`
}

func (SocialAccount) TableName() string {
	return "social_accounts"
}
