package models

import (
	"time"

	giveawaymodels "sorteo-platform-backend/internal/features/giveaway/models"
)

// VerificationStatus is the outcome of requirement verification for a
// participation. Approved and rejected are terminal.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// Terminal reports whether the status can no longer change.
func (s VerificationStatus) Terminal() bool {
	return s == VerificationApproved || s == VerificationRejected
}

// Participation is one user's entry into one giveaway. The composite
// unique index enforces at most one entry per (giveaway, user).
type Participation struct {
	ID                 string             `gorm:"primaryKey" json:"id"`
	GiveawayID         string             `gorm:"uniqueIndex:idx_participations_giveaway_user" json:"giveaway_id"`
	UserID             string             `gorm:"uniqueIndex:idx_participations_giveaway_user" json:"user_id"`
	Entries            int                `json:"entries"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	IsWinner           bool               `json:"is_winner"`
	CreatedAt          time.Time          `json:"created_at"`
}

func (Participation) TableName() string {
	return "participations"
}

// VerificationCheck is the per-requirement outcome, in check order.
type VerificationCheck struct {
	Type   giveawaymodels.RequirementType `json:"type"`
	OK     bool                           `json:"ok"`
	Reason string                         `json:"reason,omitempty"`
}

// VerificationResult is the reduced outcome of verifying one
// participation.
type VerificationResult struct {
	Status  VerificationStatus  `json:"status"`
	Checked []VerificationCheck `json:"checked"`
}
