package models

import (
	"time"
)

// SocialNetwork identifies the network a giveaway runs on.
type SocialNetwork string

const (
	NetworkInstagram SocialNetwork = "instagram"
	NetworkFacebook  SocialNetwork = "facebook"
	NetworkX         SocialNetwork = "x"
	NetworkTikTok    SocialNetwork = "tiktok"
)

// Valid reports whether the network is a known value.
func (n SocialNetwork) Valid() bool {
	switch n {
	case NetworkInstagram, NetworkFacebook, NetworkX, NetworkTikTok:
		return true
	}
	return false
}

// GiveawayStatus is the lifecycle state of a giveaway.
type GiveawayStatus string

const (
	StatusDraft          GiveawayStatus = "draft"
	StatusActive         GiveawayStatus = "active"
	StatusAwaitingWinner GiveawayStatus = "awaiting_winner"
	StatusFinished       GiveawayStatus = "finished"
)

// statusTransitions is the full transition table. Self-transitions are
// allowed no-ops.
var statusTransitions = map[GiveawayStatus][]GiveawayStatus{
	StatusDraft:          {StatusDraft, StatusActive},
	StatusActive:         {StatusActive, StatusAwaitingWinner},
	StatusAwaitingWinner: {StatusAwaitingWinner, StatusFinished},
	StatusFinished:       {StatusFinished},
}

// Valid reports whether the status is a known value.
func (s GiveawayStatus) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransitionTo reports whether the table allows moving to next.
func (s GiveawayStatus) CanTransitionTo(next GiveawayStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Immutable reports whether field edits are rejected in this status.
// Only the status transition itself remains possible.
func (s GiveawayStatus) Immutable() bool {
	return s == StatusAwaitingWinner || s == StatusFinished
}

// Giveaway is one contest run by a company on a social network post.
type Giveaway struct {
	ID          string         `gorm:"primaryKey" json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Network     SocialNetwork  `json:"network"`
	PostURL     string         `json:"post_url"`
	CompanyID   string         `gorm:"index" json:"company_id"`
	StartsAt    time.Time      `json:"starts_at"`
	EndsAt      time.Time      `json:"ends_at"`
	Status      GiveawayStatus `json:"status"`
	BasesURL    string         `json:"bases_url,omitempty"`
	ImageURL    string         `json:"image_url,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	Requirements []Requirement `gorm:"constraint:OnDelete:CASCADE" json:"requirements"`
}

func (Giveaway) TableName() string {
	return "giveaways"
}

// HasEnded reports whether the giveaway's end time has passed.
func (g *Giveaway) HasEnded(now time.Time) bool {
	return !now.Before(g.EndsAt)
}

// WithinWindow reports whether now falls inside the participation period.
func (g *Giveaway) WithinWindow(now time.Time) bool {
	return !now.Before(g.StartsAt) && !now.After(g.EndsAt)
}

// Deletable reports whether the giveaway may be deleted.
func (g *Giveaway) Deletable() bool {
	return g.Status == StatusDraft
}
