package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"sorteo-platform-backend/internal/common/cache"
	apperrors "sorteo-platform-backend/internal/common/errors"
	"sorteo-platform-backend/internal/common/logger"
	companyrepo "sorteo-platform-backend/internal/features/company/repository"
	"sorteo-platform-backend/internal/features/giveaway/models"
	"sorteo-platform-backend/internal/features/giveaway/models/dto"
	"sorteo-platform-backend/internal/features/giveaway/repository"
	participationrepo "sorteo-platform-backend/internal/features/participation/repository"
	"sorteo-platform-backend/internal/platform/kafka"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100

	giveawayCacheTTL = 5 * time.Minute
)

type giveawayService struct {
	giveaways      repository.GiveawayRepository
	participations participationrepo.ParticipationRepository
	companies      companyrepo.CompanyRepository
	cache          *cache.CacheService
	events         EventPublisher
}

func NewGiveawayService(
	giveaways repository.GiveawayRepository,
	participations participationrepo.ParticipationRepository,
	companies companyrepo.CompanyRepository,
	cacheService *cache.CacheService,
	events EventPublisher,
) GiveawayService {
	return &giveawayService{
		giveaways:      giveaways,
		participations: participations,
		companies:      companies,
		cache:          cacheService,
		events:         events,
	}
}

func (s *giveawayService) Create(ctx context.Context, callerID string, input *dto.GiveawayCreateRequest) (*dto.GiveawayResponse, error) {
	company, err := s.companies.GetByID(ctx, input.CompanyID)
	if err != nil {
		if errors.Is(err, companyrepo.ErrCompanyNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeCompanyNotFound, "Company not found").
				WithDetail("company_id", input.CompanyID)
		}
		return nil, apperrors.NewDatabaseError("get company", err)
	}
	if company.OwnerUserID != callerID {
		return nil, apperrors.NewNotOwnerError()
	}

	if !input.EndsAt.After(input.StartsAt) {
		return nil, apperrors.NewValidationError("ends_at", "must be after starts_at")
	}

	giveaway := &models.Giveaway{
		ID:          uuid.New().String(),
		Title:       input.Title,
		Description: input.Description,
		Network:     models.SocialNetwork(input.Network),
		PostURL:     input.PostURL,
		CompanyID:   input.CompanyID,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
		Status:      models.StatusDraft,
		BasesURL:    input.BasesURL,
		ImageURL:    input.ImageURL,
	}

	for i, req := range input.Requirements {
		requirement := models.Requirement{
			ID:              uuid.New().String(),
			GiveawayID:      giveaway.ID,
			Type:            models.RequirementType(req.Type),
			Required:        req.IsRequired(),
			MentionsCount:   req.MentionsCount,
			ProfileToFollow: req.ProfileToFollow,
			Position:        i,
		}
		if err := requirement.Validate(); err != nil {
			return nil, apperrors.NewValidationError("requirements", err.Error())
		}
		giveaway.Requirements = append(giveaway.Requirements, requirement)
	}

	if err := s.giveaways.Create(ctx, giveaway); err != nil {
		return nil, apperrors.NewDatabaseError("create giveaway", err)
	}

	logger.Info().
		Str("giveaway_id", giveaway.ID).
		Str("company_id", giveaway.CompanyID).
		Str("network", string(giveaway.Network)).
		Int("requirements", len(giveaway.Requirements)).
		Msg("Giveaway created")

	return dto.ToGiveawayResponse(giveaway, 0), nil
}

func (s *giveawayService) GetByID(ctx context.Context, id string) (*dto.GiveawayResponse, error) {
	if s.cache != nil {
		var cached dto.GiveawayResponse
		if err := s.cache.Get(ctx, cache.GiveawayKey(id), &cached); err == nil {
			return &cached, nil
		}
	}

	giveaway, err := s.loadGiveaway(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.participations.CountByGiveaway(ctx, id)
	if err != nil {
		return nil, apperrors.NewDatabaseError("count participations", err)
	}

	response := dto.ToGiveawayResponse(giveaway, count)

	if s.cache != nil {
		if err := s.cache.Set(ctx, cache.GiveawayKey(id), response, giveawayCacheTTL); err != nil {
			logger.Warn().Err(err).Str("giveaway_id", id).Msg("Failed to cache giveaway")
		}
	}

	return response, nil
}

func (s *giveawayService) List(ctx context.Context, filter ListFilter) ([]*dto.GiveawayResponse, error) {
	limit := filter.Limit
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}

	repoFilter := repository.GiveawayFilter{
		Status:    models.GiveawayStatus(filter.Status),
		CompanyID: filter.CompanyID,
		Network:   models.SocialNetwork(filter.Network),
		Limit:     limit,
	}
	if filter.Status != "" && !repoFilter.Status.Valid() {
		return nil, apperrors.NewValidationError("status", "unknown status")
	}
	if filter.Network != "" && !repoFilter.Network.Valid() {
		return nil, apperrors.NewValidationError("network", "unknown network")
	}

	giveaways, err := s.giveaways.List(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list giveaways", err)
	}

	responses := make([]*dto.GiveawayResponse, 0, len(giveaways))
	for _, g := range giveaways {
		count, err := s.participations.CountByGiveaway(ctx, g.ID)
		if err != nil {
			return nil, apperrors.NewDatabaseError("count participations", err)
		}
		responses = append(responses, dto.ToGiveawayResponse(g, count))
	}
	return responses, nil
}

func (s *giveawayService) Update(ctx context.Context, id, callerID string, input *dto.GiveawayUpdateRequest) (*dto.GiveawayResponse, error) {
	giveaway, err := s.loadGiveaway(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwner(ctx, giveaway, callerID); err != nil {
		return nil, err
	}

	if giveaway.Status.Immutable() && input.HasFieldEdits() {
		return nil, apperrors.New(apperrors.ErrCodeNotEditable, "Finalized giveaways cannot be edited").
			WithDetail("status", giveaway.Status)
	}

	// Status transitions go through the conditional update so a
	// concurrent transition cannot be silently overwritten.
	if input.Status != nil {
		next := models.GiveawayStatus(*input.Status)
		from := giveaway.Status
		if !from.CanTransitionTo(next) {
			return nil, apperrors.NewInvalidTransitionError(string(from), string(next))
		}
		if next != from {
			if err := s.giveaways.UpdateStatusIf(ctx, id, from, next); err != nil {
				if errors.Is(err, repository.ErrStatusConflict) {
					return nil, apperrors.New(apperrors.ErrCodeConflict, "Giveaway status changed concurrently").
						WithDetail("giveaway_id", id)
				}
				return nil, apperrors.NewDatabaseError("update giveaway status", err)
			}
			giveaway.Status = next
			s.publishEvent(ctx, kafka.GiveawayEvent{
				Type:       kafka.EventStatusChanged,
				GiveawayID: id,
				FromStatus: string(from),
				ToStatus:   string(next),
				OccurredAt: time.Now(),
			})
		}
	}

	if input.HasFieldEdits() {
		if input.Title != nil {
			giveaway.Title = *input.Title
		}
		if input.Description != nil {
			giveaway.Description = *input.Description
		}
		if input.StartsAt != nil {
			giveaway.StartsAt = *input.StartsAt
		}
		if input.EndsAt != nil {
			giveaway.EndsAt = *input.EndsAt
		}
		if input.BasesURL != nil {
			giveaway.BasesURL = *input.BasesURL
		}
		if input.ImageURL != nil {
			giveaway.ImageURL = *input.ImageURL
		}
		if !giveaway.EndsAt.After(giveaway.StartsAt) {
			return nil, apperrors.NewValidationError("ends_at", "must be after starts_at")
		}
		if err := s.giveaways.Update(ctx, giveaway); err != nil {
			return nil, apperrors.NewDatabaseError("update giveaway", err)
		}
	}

	s.invalidateCache(ctx, id)

	count, err := s.participations.CountByGiveaway(ctx, id)
	if err != nil {
		return nil, apperrors.NewDatabaseError("count participations", err)
	}
	return dto.ToGiveawayResponse(giveaway, count), nil
}

func (s *giveawayService) Delete(ctx context.Context, id, callerID string) error {
	giveaway, err := s.loadGiveaway(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireOwner(ctx, giveaway, callerID); err != nil {
		return err
	}
	if !giveaway.Deletable() {
		return apperrors.New(apperrors.ErrCodeNotDeletable, "Only draft giveaways can be deleted").
			WithDetail("status", giveaway.Status)
	}

	if err := s.giveaways.Delete(ctx, id); err != nil {
		return apperrors.NewDatabaseError("delete giveaway", err)
	}

	s.invalidateCache(ctx, id)

	logger.Info().Str("giveaway_id", id).Msg("Giveaway deleted")
	return nil
}

func (s *giveawayService) loadGiveaway(ctx context.Context, id string) (*models.Giveaway, error) {
	giveaway, err := s.giveaways.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrGiveawayNotFound) {
			return nil, apperrors.NewGiveawayNotFoundError(id)
		}
		return nil, apperrors.NewDatabaseError("get giveaway", err)
	}
	return giveaway, nil
}

// requireOwner resolves the giveaway's company and checks the caller
// owns it.
func (s *giveawayService) requireOwner(ctx context.Context, giveaway *models.Giveaway, callerID string) error {
	company, err := s.companies.GetByID(ctx, giveaway.CompanyID)
	if err != nil {
		if errors.Is(err, companyrepo.ErrCompanyNotFound) {
			return apperrors.NewNotOwnerError()
		}
		return apperrors.NewDatabaseError("get company", err)
	}
	if company.OwnerUserID != callerID {
		return apperrors.NewNotOwnerError()
	}
	return nil
}

func (s *giveawayService) invalidateCache(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.GiveawayKey(id)); err != nil {
		logger.Warn().Err(err).Str("giveaway_id", id).Msg("Failed to invalidate giveaway cache")
	}
}

// publishEvent is best effort; the state change already committed.
func (s *giveawayService) publishEvent(ctx context.Context, event kafka.GiveawayEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishGiveawayEvent(ctx, event); err != nil {
		logger.Warn().Err(err).Str("type", event.Type).Str("giveaway_id", event.GiveawayID).
			Msg("Failed to publish giveaway event")
	}
}
