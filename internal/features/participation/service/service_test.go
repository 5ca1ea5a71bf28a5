package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "sorteo-platform-backend/internal/common/errors"
	giveawaymodels "sorteo-platform-backend/internal/features/giveaway/models"
	giveawayrepo "sorteo-platform-backend/internal/features/giveaway/repository"
	"sorteo-platform-backend/internal/features/participation/models"
	"sorteo-platform-backend/internal/features/participation/repository"
	"sorteo-platform-backend/internal/social"
)

type fakeGiveawayRepo struct {
	giveaways map[string]*giveawaymodels.Giveaway
}

func newFakeGiveawayRepo(giveaways ...*giveawaymodels.Giveaway) *fakeGiveawayRepo {
	repo := &fakeGiveawayRepo{giveaways: map[string]*giveawaymodels.Giveaway{}}
	for _, g := range giveaways {
		repo.giveaways[g.ID] = g
	}
	return repo
}

func (r *fakeGiveawayRepo) Create(ctx context.Context, g *giveawaymodels.Giveaway) error {
	r.giveaways[g.ID] = g
	return nil
}

func (r *fakeGiveawayRepo) GetByID(ctx context.Context, id string) (*giveawaymodels.Giveaway, error) {
	g, ok := r.giveaways[id]
	if !ok {
		return nil, giveawayrepo.ErrGiveawayNotFound
	}
	copied := *g
	return &copied, nil
}

func (r *fakeGiveawayRepo) List(ctx context.Context, filter giveawayrepo.GiveawayFilter) ([]*giveawaymodels.Giveaway, error) {
	var out []*giveawaymodels.Giveaway
	for _, g := range r.giveaways {
		out = append(out, g)
	}
	return out, nil
}

func (r *fakeGiveawayRepo) Update(ctx context.Context, g *giveawaymodels.Giveaway) error {
	r.giveaways[g.ID] = g
	return nil
}

func (r *fakeGiveawayRepo) UpdateStatusIf(ctx context.Context, id string, from, to giveawaymodels.GiveawayStatus) error {
	g, ok := r.giveaways[id]
	if !ok || g.Status != from {
		return giveawayrepo.ErrStatusConflict
	}
	g.Status = to
	return nil
}

func (r *fakeGiveawayRepo) Delete(ctx context.Context, id string) error {
	delete(r.giveaways, id)
	return nil
}

func (r *fakeGiveawayRepo) GetSelection(ctx context.Context, giveawayID string) (*giveawaymodels.WinnerSelection, error) {
	return nil, giveawayrepo.ErrSelectionNotFound
}

func (r *fakeGiveawayRepo) CreateSelection(ctx context.Context, selection *giveawaymodels.WinnerSelection, from, to giveawaymodels.GiveawayStatus) error {
	return nil
}

type fakeParticipationRepo struct {
	participations map[string]*models.Participation
	updateErr      error
	// decidedStatus simulates a concurrent verification that already
	// persisted its outcome when updateErr fires.
	decidedStatus models.VerificationStatus
}

func newFakeParticipationRepo(participations ...*models.Participation) *fakeParticipationRepo {
	repo := &fakeParticipationRepo{participations: map[string]*models.Participation{}}
	for _, p := range participations {
		repo.participations[p.ID] = p
	}
	return repo
}

func (r *fakeParticipationRepo) Create(ctx context.Context, p *models.Participation) error {
	for _, existing := range r.participations {
		if existing.GiveawayID == p.GiveawayID && existing.UserID == p.UserID {
			return repository.ErrAlreadyParticipating
		}
	}
	r.participations[p.ID] = p
	return nil
}

func (r *fakeParticipationRepo) GetByID(ctx context.Context, id string) (*models.Participation, error) {
	p, ok := r.participations[id]
	if !ok {
		return nil, repository.ErrParticipationNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakeParticipationRepo) ListByGiveaway(ctx context.Context, giveawayID string) ([]*models.Participation, error) {
	var out []*models.Participation
	for _, p := range r.participations {
		if p.GiveawayID == giveawayID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeParticipationRepo) ListByUser(ctx context.Context, userID string) ([]*models.Participation, error) {
	var out []*models.Participation
	for _, p := range r.participations {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeParticipationRepo) CountByGiveaway(ctx context.Context, giveawayID string) (int64, error) {
	var count int64
	for _, p := range r.participations {
		if p.GiveawayID == giveawayID {
			count++
		}
	}
	return count, nil
}

func (r *fakeParticipationRepo) UpdateVerificationStatusIf(ctx context.Context, id string, from, to models.VerificationStatus) error {
	if r.updateErr != nil {
		if p, ok := r.participations[id]; ok && r.decidedStatus != "" {
			p.VerificationStatus = r.decidedStatus
		}
		return r.updateErr
	}
	p, ok := r.participations[id]
	if !ok || p.VerificationStatus != from {
		return repository.ErrStatusConflict
	}
	p.VerificationStatus = to
	return nil
}

func activeGiveaway(requirements ...giveawaymodels.Requirement) *giveawaymodels.Giveaway {
	now := time.Now()
	return &giveawaymodels.Giveaway{
		ID:           "g1",
		Network:      giveawaymodels.NetworkInstagram,
		PostURL:      "https://instagram.com/p/abc",
		CompanyID:    "c1",
		StartsAt:     now.Add(-time.Hour),
		EndsAt:       now.Add(time.Hour),
		Status:       giveawaymodels.StatusActive,
		Requirements: requirements,
	}
}

func newService(giveaways *fakeGiveawayRepo, participations *fakeParticipationRepo, mock *social.MockProvider) ParticipationService {
	providers := social.Providers{giveawaymodels.NetworkInstagram: mock}
	return NewParticipationService(participations, giveaways, NewVerifier(providers, time.Second))
}

func TestJoinActiveGiveaway(t *testing.T) {
	svc := newService(newFakeGiveawayRepo(activeGiveaway()), newFakeParticipationRepo(), social.NewMockProvider(social.MockPassAll))

	p, err := svc.Join(context.Background(), "u1", &JoinRequest{GiveawayID: "g1"})
	require.NoError(t, err)

	assert.Equal(t, "g1", p.GiveawayID)
	assert.Equal(t, "u1", p.UserID)
	assert.Equal(t, 1, p.Entries)
	assert.Equal(t, models.VerificationPending, p.VerificationStatus)
}

func TestJoinDuplicateRejected(t *testing.T) {
	svc := newService(newFakeGiveawayRepo(activeGiveaway()), newFakeParticipationRepo(), social.NewMockProvider(social.MockPassAll))

	_, err := svc.Join(context.Background(), "u1", &JoinRequest{GiveawayID: "g1"})
	require.NoError(t, err)

	_, err = svc.Join(context.Background(), "u1", &JoinRequest{GiveawayID: "g1"})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeAlreadyJoined, appErr.Code)
}

func TestJoinDraftGiveawayRejected(t *testing.T) {
	g := activeGiveaway()
	g.Status = giveawaymodels.StatusDraft
	svc := newService(newFakeGiveawayRepo(g), newFakeParticipationRepo(), social.NewMockProvider(social.MockPassAll))

	_, err := svc.Join(context.Background(), "u1", &JoinRequest{GiveawayID: "g1"})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeNotJoinable, appErr.Code)
}

func TestJoinOutsideWindowRejected(t *testing.T) {
	g := activeGiveaway()
	g.StartsAt = time.Now().Add(-3 * time.Hour)
	g.EndsAt = time.Now().Add(-time.Hour)
	svc := newService(newFakeGiveawayRepo(g), newFakeParticipationRepo(), social.NewMockProvider(social.MockPassAll))

	_, err := svc.Join(context.Background(), "u1", &JoinRequest{GiveawayID: "g1"})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeNotJoinable, appErr.Code)
}

func TestJoinUnknownGiveaway(t *testing.T) {
	svc := newService(newFakeGiveawayRepo(), newFakeParticipationRepo(), social.NewMockProvider(social.MockPassAll))

	_, err := svc.Join(context.Background(), "u1", &JoinRequest{GiveawayID: "missing"})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeGiveawayNotFound, appErr.Code)
}

func TestVerifyParticipationNotFound(t *testing.T) {
	svc := newService(newFakeGiveawayRepo(activeGiveaway()), newFakeParticipationRepo(), social.NewMockProvider(social.MockPassAll))

	_, err := svc.VerifyParticipation(context.Background(), "missing", "u1")
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeParticipationNotFound, appErr.Code)
}

func TestVerifyParticipationForbiddenForOtherUser(t *testing.T) {
	p := &models.Participation{ID: "p1", GiveawayID: "g1", UserID: "u1", VerificationStatus: models.VerificationPending}
	svc := newService(newFakeGiveawayRepo(activeGiveaway()), newFakeParticipationRepo(p), social.NewMockProvider(social.MockPassAll))

	_, err := svc.VerifyParticipation(context.Background(), "p1", "intruder")
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeForbidden, appErr.Code)
}

func TestVerifyParticipationTerminalIsIdempotent(t *testing.T) {
	p := &models.Participation{ID: "p1", GiveawayID: "g1", UserID: "u1", VerificationStatus: models.VerificationApproved}
	mock := social.NewMockProvider(social.MockFailAll)
	svc := newService(newFakeGiveawayRepo(activeGiveaway(
		giveawaymodels.Requirement{Type: giveawaymodels.RequirementLike, Required: true},
	)), newFakeParticipationRepo(p), mock)

	result, err := svc.VerifyParticipation(context.Background(), "p1", "u1")
	require.NoError(t, err)

	assert.Equal(t, models.VerificationApproved, result.Status)
	assert.Empty(t, result.Checked)
	assert.Zero(t, mock.Calls(), "terminal participations must not hit the provider")
}

func TestVerifyParticipationPersistsDecision(t *testing.T) {
	p := &models.Participation{ID: "p1", GiveawayID: "g1", UserID: "u1", VerificationStatus: models.VerificationPending}
	participations := newFakeParticipationRepo(p)
	svc := newService(newFakeGiveawayRepo(activeGiveaway(
		giveawaymodels.Requirement{Type: giveawaymodels.RequirementLike, Required: true},
	)), participations, social.NewMockProvider(social.MockFailAll))

	result, err := svc.VerifyParticipation(context.Background(), "p1", "u1")
	require.NoError(t, err)

	assert.Equal(t, models.VerificationRejected, result.Status)
	stored, _ := participations.GetByID(context.Background(), "p1")
	assert.Equal(t, models.VerificationRejected, stored.VerificationStatus)
}

func TestVerifyParticipationZeroRequirementsApproves(t *testing.T) {
	p := &models.Participation{ID: "p1", GiveawayID: "g1", UserID: "u1", VerificationStatus: models.VerificationPending}
	participations := newFakeParticipationRepo(p)
	mock := social.NewMockProvider(social.MockFailAll)
	svc := newService(newFakeGiveawayRepo(activeGiveaway()), participations, mock)

	result, err := svc.VerifyParticipation(context.Background(), "p1", "u1")
	require.NoError(t, err)

	assert.Equal(t, models.VerificationApproved, result.Status)
	assert.Empty(t, result.Checked)
	assert.Zero(t, mock.Calls())

	stored, _ := participations.GetByID(context.Background(), "p1")
	assert.Equal(t, models.VerificationApproved, stored.VerificationStatus)
}

func TestVerifyParticipationFatalProviderKeepsPending(t *testing.T) {
	p := &models.Participation{ID: "p1", GiveawayID: "g1", UserID: "u1", VerificationStatus: models.VerificationPending}
	participations := newFakeParticipationRepo(p)

	providers := social.Providers{giveawaymodels.NetworkInstagram: erroringProvider{err: errors.New("graph API returned status 500")}}
	svc := NewParticipationService(participations, newFakeGiveawayRepo(activeGiveaway(
		giveawaymodels.Requirement{Type: giveawaymodels.RequirementLike, Required: true},
	)), NewVerifier(providers, time.Second))

	_, err := svc.VerifyParticipation(context.Background(), "p1", "u1")
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeProviderError, appErr.Code)

	stored, _ := participations.GetByID(context.Background(), "p1")
	assert.Equal(t, models.VerificationPending, stored.VerificationStatus, "failed verification must not persist a decision")
}

func TestVerifyParticipationConcurrentDecisionWins(t *testing.T) {
	p := &models.Participation{ID: "p1", GiveawayID: "g1", UserID: "u1", VerificationStatus: models.VerificationPending}
	participations := newFakeParticipationRepo(p)
	participations.updateErr = repository.ErrStatusConflict
	participations.decidedStatus = models.VerificationRejected

	svc := newService(newFakeGiveawayRepo(activeGiveaway(
		giveawaymodels.Requirement{Type: giveawaymodels.RequirementLike, Required: true},
	)), participations, social.NewMockProvider(social.MockPassAll))

	result, err := svc.VerifyParticipation(context.Background(), "p1", "u1")
	require.NoError(t, err)

	assert.Equal(t, models.VerificationRejected, result.Status)
	assert.Empty(t, result.Checked)
}
