package service

import (
	"context"

	"sorteo-platform-backend/internal/features/participation/models"
)

// JoinRequest is the payload for entering a giveaway.
type JoinRequest struct {
	GiveawayID string `json:"giveaway_id" binding:"required"`
	Entries    int    `json:"entries" binding:"omitempty,min=1"`
}

type ParticipationService interface {
	Join(ctx context.Context, userID string, input *JoinRequest) (*models.Participation, error)
	ListOwn(ctx context.Context, userID string) ([]*models.Participation, error)
	// VerifyParticipation checks the participation's requirements against
	// the social network and persists the approve/reject decision.
	// Idempotent: terminal participations return their stored status
	// without any provider query.
	VerifyParticipation(ctx context.Context, participationID, callerID string) (*models.VerificationResult, error)
}
