package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	apperrors "sorteo-platform-backend/internal/common/errors"
	"sorteo-platform-backend/internal/common/logger"
	giveawaymodels "sorteo-platform-backend/internal/features/giveaway/models"
	giveawayrepo "sorteo-platform-backend/internal/features/giveaway/repository"
	"sorteo-platform-backend/internal/features/participation/models"
	"sorteo-platform-backend/internal/features/participation/repository"
)

var verificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "giveaway_verifications_total",
	Help: "Requirement verifications by resulting status.",
}, []string{"status"})

type participationService struct {
	participations repository.ParticipationRepository
	giveaways      giveawayrepo.GiveawayRepository
	verifier       *Verifier
}

func NewParticipationService(
	participations repository.ParticipationRepository,
	giveaways giveawayrepo.GiveawayRepository,
	verifier *Verifier,
) ParticipationService {
	return &participationService{
		participations: participations,
		giveaways:      giveaways,
		verifier:       verifier,
	}
}

func (s *participationService) Join(ctx context.Context, userID string, input *JoinRequest) (*models.Participation, error) {
	giveaway, err := s.giveaways.GetByID(ctx, input.GiveawayID)
	if err != nil {
		if errors.Is(err, giveawayrepo.ErrGiveawayNotFound) {
			return nil, apperrors.NewGiveawayNotFoundError(input.GiveawayID)
		}
		return nil, apperrors.NewDatabaseError("get giveaway", err)
	}

	now := time.Now()
	if giveaway.Status != giveawaymodels.StatusActive || !giveaway.WithinWindow(now) {
		return nil, apperrors.New(apperrors.ErrCodeNotJoinable, "Giveaway is not open for participation").
			WithDetail("giveaway_id", giveaway.ID).
			WithDetail("status", giveaway.Status)
	}

	entries := input.Entries
	if entries <= 0 {
		entries = 1
	}

	participation := &models.Participation{
		ID:                 uuid.New().String(),
		GiveawayID:         giveaway.ID,
		UserID:             userID,
		Entries:            entries,
		VerificationStatus: models.VerificationPending,
	}

	if err := s.participations.Create(ctx, participation); err != nil {
		if errors.Is(err, repository.ErrAlreadyParticipating) {
			return nil, apperrors.New(apperrors.ErrCodeAlreadyJoined, "Already participating in this giveaway").
				WithDetail("giveaway_id", giveaway.ID)
		}
		return nil, apperrors.NewDatabaseError("create participation", err)
	}

	logger.Info().
		Str("participation_id", participation.ID).
		Str("giveaway_id", giveaway.ID).
		Str("user_id", userID).
		Msg("User joined giveaway")

	return participation, nil
}

func (s *participationService) ListOwn(ctx context.Context, userID string) ([]*models.Participation, error) {
	participations, err := s.participations.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list participations", err)
	}
	return participations, nil
}

func (s *participationService) VerifyParticipation(ctx context.Context, participationID, callerID string) (*models.VerificationResult, error) {
	participation, err := s.participations.GetByID(ctx, participationID)
	if err != nil {
		if errors.Is(err, repository.ErrParticipationNotFound) {
			return nil, apperrors.NewParticipationNotFoundError(participationID)
		}
		return nil, apperrors.NewDatabaseError("get participation", err)
	}

	if participation.UserID != callerID {
		return nil, apperrors.NewForbiddenError("participation belongs to another user")
	}

	// Terminal statuses never flip back; repeat calls are read-only.
	if participation.VerificationStatus.Terminal() {
		return &models.VerificationResult{
			Status:  participation.VerificationStatus,
			Checked: []models.VerificationCheck{},
		}, nil
	}

	giveaway, err := s.giveaways.GetByID(ctx, participation.GiveawayID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("get giveaway", err)
	}

	result, err := s.verifier.Verify(ctx, giveaway, participation.UserID)
	if err != nil {
		// Nothing persisted; the participation stays pending and the
		// caller may retry.
		return nil, apperrors.NewProviderError("verify requirements", err)
	}

	err = s.participations.UpdateVerificationStatusIf(ctx, participationID, models.VerificationPending, result.Status)
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			// A concurrent verification already decided; honor its outcome.
			decided, readErr := s.participations.GetByID(ctx, participationID)
			if readErr != nil {
				return nil, apperrors.NewDatabaseError("get participation", readErr)
			}
			return &models.VerificationResult{
				Status:  decided.VerificationStatus,
				Checked: []models.VerificationCheck{},
			}, nil
		}
		return nil, apperrors.NewDatabaseError("update verification status", err)
	}

	verificationsTotal.WithLabelValues(string(result.Status)).Inc()

	logger.Info().
		Str("participation_id", participationID).
		Str("giveaway_id", participation.GiveawayID).
		Str("status", string(result.Status)).
		Int("checks", len(result.Checked)).
		Msg("Participation verified")

	return result, nil
}
