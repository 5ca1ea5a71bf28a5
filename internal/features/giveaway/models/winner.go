package models

import (
	"time"
)

// WinnerSelection is the one-time outcome of running winner selection
// for a giveaway. The unique index on GiveawayID is the arbiter against
// concurrent double selection.
type WinnerSelection struct {
	ID                     string    `gorm:"primaryKey" json:"id"`
	GiveawayID             string    `gorm:"uniqueIndex:idx_winner_selections_giveaway" json:"giveaway_id"`
	PrimaryParticipationID string    `json:"primary_participation_id"`
	ExecutedAt             time.Time `json:"executed_at"`

	Backups []WinnerBackup `gorm:"foreignKey:SelectionID;constraint:OnDelete:CASCADE" json:"backups"`
}

func (WinnerSelection) TableName() string {
	return "winner_selections"
}

// WinnerBackup is an ordered alternate winner. Position 0 is consulted
// first if the primary is later disqualified.
type WinnerBackup struct {
	ID              string `gorm:"primaryKey" json:"id"`
	SelectionID     string `gorm:"index" json:"selection_id"`
	ParticipationID string `json:"participation_id"`
	Position        int    `gorm:"column:position" json:"order"`
}

func (WinnerBackup) TableName() string {
	return "winner_backups"
}
