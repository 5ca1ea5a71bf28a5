package dto

import (
	"time"

	"sorteo-platform-backend/internal/features/giveaway/models"
)

// RequirementInput is one requirement in a giveaway create request.
type RequirementInput struct {
	Type            string  `json:"type" binding:"required,oneof=follow like comment mentions"`
	Required        *bool   `json:"required,omitempty"`
	MentionsCount   *int    `json:"mentions_count,omitempty" binding:"omitempty,min=1"`
	ProfileToFollow *string `json:"profile_to_follow,omitempty"`
}

// IsRequired defaults the required flag to true, matching how brands
// define requirements in practice.
func (r *RequirementInput) IsRequired() bool {
	return r.Required == nil || *r.Required
}

type GiveawayCreateRequest struct {
	Title        string             `json:"title" binding:"required,min=3,max=150"`
	Description  string             `json:"description"`
	Network      string             `json:"network" binding:"required,oneof=instagram facebook x tiktok"`
	PostURL      string             `json:"post_url" binding:"required,url"`
	CompanyID    string             `json:"company_id" binding:"required"`
	StartsAt     time.Time          `json:"starts_at" binding:"required"`
	EndsAt       time.Time          `json:"ends_at" binding:"required"`
	BasesURL     string             `json:"bases_url,omitempty" binding:"omitempty,url"`
	ImageURL     string             `json:"image_url,omitempty" binding:"omitempty,url"`
	Requirements []RequirementInput `json:"requirements" binding:"omitempty,dive"`
}

type GiveawayUpdateRequest struct {
	Title       *string    `json:"title,omitempty" binding:"omitempty,min=3,max=150"`
	Description *string    `json:"description,omitempty"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	Status      *string    `json:"status,omitempty" binding:"omitempty,oneof=draft active awaiting_winner finished"`
	BasesURL    *string    `json:"bases_url,omitempty" binding:"omitempty,url"`
	ImageURL    *string    `json:"image_url,omitempty" binding:"omitempty,url"`
}

// HasFieldEdits reports whether the request changes anything besides the
// status. Finalized giveaways only accept the status transition itself.
func (r *GiveawayUpdateRequest) HasFieldEdits() bool {
	return r.Title != nil || r.Description != nil || r.StartsAt != nil ||
		r.EndsAt != nil || r.BasesURL != nil || r.ImageURL != nil
}

type GiveawayResponse struct {
	ID                string                `json:"id"`
	Title             string                `json:"title"`
	Description       string                `json:"description"`
	Network           models.SocialNetwork  `json:"network"`
	PostURL           string                `json:"post_url"`
	CompanyID         string                `json:"company_id"`
	StartsAt          time.Time             `json:"starts_at"`
	EndsAt            time.Time             `json:"ends_at"`
	Status            models.GiveawayStatus `json:"status"`
	BasesURL          string                `json:"bases_url,omitempty"`
	ImageURL          string                `json:"image_url,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
	ParticipantsCount int64                 `json:"participants_count"`
	Requirements      []models.Requirement  `json:"requirements"`
}

type BackupResponse struct {
	ID              string `json:"id"`
	ParticipationID string `json:"participation_id"`
	Order           int    `json:"order"`
}

type SelectionResponse struct {
	ID                     string           `json:"id"`
	GiveawayID             string           `json:"giveaway_id"`
	PrimaryParticipationID string           `json:"primary_participation_id"`
	ExecutedAt             time.Time        `json:"executed_at"`
	Backups                []BackupResponse `json:"backups"`
	BackupsCount           int              `json:"backups_count"`
}

// ToGiveawayResponse maps a model to its API shape.
func ToGiveawayResponse(g *models.Giveaway, participantsCount int64) *GiveawayResponse {
	requirements := g.Requirements
	if requirements == nil {
		requirements = []models.Requirement{}
	}
	return &GiveawayResponse{
		ID:                g.ID,
		Title:             g.Title,
		Description:       g.Description,
		Network:           g.Network,
		PostURL:           g.PostURL,
		CompanyID:         g.CompanyID,
		StartsAt:          g.StartsAt,
		EndsAt:            g.EndsAt,
		Status:            g.Status,
		BasesURL:          g.BasesURL,
		ImageURL:          g.ImageURL,
		CreatedAt:         g.CreatedAt,
		UpdatedAt:         g.UpdatedAt,
		ParticipantsCount: participantsCount,
		Requirements:      requirements,
	}
}

// ToSelectionResponse maps a selection with its backups.
func ToSelectionResponse(s *models.WinnerSelection) *SelectionResponse {
	backups := make([]BackupResponse, 0, len(s.Backups))
	for _, b := range s.Backups {
		backups = append(backups, BackupResponse{
			ID:              b.ID,
			ParticipationID: b.ParticipationID,
			Order:           b.Position,
		})
	}
	return &SelectionResponse{
		ID:                     s.ID,
		GiveawayID:             s.GiveawayID,
		PrimaryParticipationID: s.PrimaryParticipationID,
		ExecutedAt:             s.ExecutedAt,
		Backups:                backups,
		BackupsCount:           len(backups),
	}
}
