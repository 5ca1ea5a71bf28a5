package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	apperrors "sorteo-platform-backend/internal/common/errors"
	"sorteo-platform-backend/internal/common/logger"
	"sorteo-platform-backend/internal/features/giveaway/models"
	"sorteo-platform-backend/internal/features/giveaway/models/dto"
	"sorteo-platform-backend/internal/features/giveaway/repository"
	"sorteo-platform-backend/internal/platform/kafka"
)

// maxBackups caps the ordered alternate winners stored with a selection.
const maxBackups = 3

var selectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "giveaway_winner_selections_total",
	Help: "Winner selections successfully persisted.",
})

func (s *giveawayService) SelectWinner(ctx context.Context, giveawayID, callerID string) (*dto.SelectionResponse, error) {
	giveaway, err := s.loadGiveaway(ctx, giveawayID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwner(ctx, giveaway, callerID); err != nil {
		return nil, err
	}

	now := time.Now()
	if !giveaway.HasEnded(now) {
		return nil, apperrors.New(apperrors.ErrCodeNotEnded, "Giveaway has not ended yet").
			WithDetail("ends_at", giveaway.EndsAt)
	}

	switch giveaway.Status {
	case models.StatusActive:
		// selectable
	case models.StatusAwaitingWinner, models.StatusFinished:
		return nil, apperrors.New(apperrors.ErrCodeWrongState, "Winner already selected").
			WithDetail("status", giveaway.Status)
	default:
		return nil, apperrors.New(apperrors.ErrCodeWrongState, "Giveaway is not in a selectable state").
			WithDetail("status", giveaway.Status)
	}

	if existing, err := s.giveaways.GetSelection(ctx, giveawayID); err == nil && existing != nil {
		return nil, apperrors.New(apperrors.ErrCodeAlreadySelected, "Winner selection already exists").
			WithDetail("selection_id", existing.ID)
	} else if err != nil && !errors.Is(err, repository.ErrSelectionNotFound) {
		return nil, apperrors.NewDatabaseError("get winner selection", err)
	}

	participations, err := s.participations.ListByGiveaway(ctx, giveawayID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list participations", err)
	}
	if len(participations) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeNoParticipants, "Giveaway has no participants")
	}

	drawn, err := draw(len(participations), 1+maxBackups)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Winner draw failed")
	}

	selection := &models.WinnerSelection{
		ID:                     uuid.New().String(),
		GiveawayID:             giveawayID,
		PrimaryParticipationID: participations[drawn[0]].ID,
		ExecutedAt:             now,
	}
	for i, idx := range drawn[1:] {
		selection.Backups = append(selection.Backups, models.WinnerBackup{
			ID:              uuid.New().String(),
			SelectionID:     selection.ID,
			ParticipationID: participations[idx].ID,
			Position:        i,
		})
	}

	err = s.giveaways.CreateSelection(ctx, selection, models.StatusActive, models.StatusAwaitingWinner)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSelectionExists), errors.Is(err, repository.ErrStatusConflict):
			// Lost the race; exactly one selection survives.
			return nil, apperrors.New(apperrors.ErrCodeAlreadySelected, "Winner selection already exists")
		default:
			return nil, apperrors.NewDatabaseError("create winner selection", err)
		}
	}

	selectionsTotal.Inc()

	s.invalidateCache(ctx, giveawayID)
	s.publishEvent(ctx, kafka.GiveawayEvent{
		Type:        kafka.EventWinnerSelected,
		GiveawayID:  giveawayID,
		FromStatus:  string(models.StatusActive),
		ToStatus:    string(models.StatusAwaitingWinner),
		SelectionID: selection.ID,
		OccurredAt:  now,
	})

	logger.Info().
		Str("giveaway_id", giveawayID).
		Str("selection_id", selection.ID).
		Str("primary_participation_id", selection.PrimaryParticipationID).
		Int("backups", len(selection.Backups)).
		Msg("Winner selected")

	return dto.ToSelectionResponse(selection), nil
}

// draw picks min(want, n) distinct indexes from [0, n) uniformly at
// random, using crypto/rand. The first index is the primary winner.
func draw(n, want int) ([]int, error) {
	if want > n {
		want = n
	}

	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}

	picked := make([]int, 0, want)
	for i := 0; i < want; i++ {
		max := big.NewInt(int64(len(pool)))
		r, err := rand.Int(rand.Reader, max)
		if err != nil {
			return nil, fmt.Errorf("reading random index: %w", err)
		}
		j := int(r.Int64())
		picked = append(picked, pool[j])
		pool[j] = pool[len(pool)-1]
		pool = pool[:len(pool)-1]
	}
	return picked, nil
}
