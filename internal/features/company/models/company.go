package models

import (
	"time"
)

// CompanyAccount is the brand account that owns giveaways. Ownership of
// the company anchors every giveaway permission check.
type CompanyAccount struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	LegalName     string    `json:"legal_name"`
	TaxID         string    `gorm:"column:tax_id;uniqueIndex" json:"tax_id"`
	FiscalAddress string    `json:"fiscal_address,omitempty"`
	ContactEmail  string    `json:"contact_email"`
	OwnerUserID   string    `gorm:"index" json:"owner_user_id"`
	CreatedAt     time.Time `json:"created_at"`
}

func (CompanyAccount) TableName() string {
	return "company_accounts"
}

// CompanyCreate is the request payload for registering a company.
type CompanyCreate struct {
	LegalName     string `json:"legal_name" binding:"required,min=2,max=200"`
	TaxID         string `json:"tax_id" binding:"required"`
	FiscalAddress string `json:"fiscal_address,omitempty"`
	ContactEmail  string `json:"contact_email" binding:"required,email"`
}
