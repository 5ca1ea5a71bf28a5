package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "sorteo-platform-backend/internal/common/errors"
	companymodels "sorteo-platform-backend/internal/features/company/models"
	companyrepo "sorteo-platform-backend/internal/features/company/repository"
	"sorteo-platform-backend/internal/features/giveaway/models"
	"sorteo-platform-backend/internal/features/giveaway/models/dto"
	"sorteo-platform-backend/internal/features/giveaway/repository"
	participationmodels "sorteo-platform-backend/internal/features/participation/models"
	"sorteo-platform-backend/internal/platform/kafka"
)

type fakeGiveawayRepo struct {
	mu         sync.Mutex
	giveaways  map[string]*models.Giveaway
	selections map[string]*models.WinnerSelection
}

func newFakeGiveawayRepo(giveaways ...*models.Giveaway) *fakeGiveawayRepo {
	repo := &fakeGiveawayRepo{
		giveaways:  map[string]*models.Giveaway{},
		selections: map[string]*models.WinnerSelection{},
	}
	for _, g := range giveaways {
		repo.giveaways[g.ID] = g
	}
	return repo
}

func (r *fakeGiveawayRepo) Create(ctx context.Context, g *models.Giveaway) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.giveaways[g.ID] = g
	return nil
}

func (r *fakeGiveawayRepo) GetByID(ctx context.Context, id string) (*models.Giveaway, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.giveaways[id]
	if !ok {
		return nil, repository.ErrGiveawayNotFound
	}
	copied := *g
	return &copied, nil
}

func (r *fakeGiveawayRepo) List(ctx context.Context, filter repository.GiveawayFilter) ([]*models.Giveaway, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Giveaway
	for _, g := range r.giveaways {
		if filter.Status != "" && g.Status != filter.Status {
			continue
		}
		if filter.CompanyID != "" && g.CompanyID != filter.CompanyID {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func (r *fakeGiveawayRepo) Update(ctx context.Context, g *models.Giveaway) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.giveaways[g.ID] = g
	return nil
}

func (r *fakeGiveawayRepo) UpdateStatusIf(ctx context.Context, id string, from, to models.GiveawayStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.giveaways[id]
	if !ok || g.Status != from {
		return repository.ErrStatusConflict
	}
	g.Status = to
	return nil
}

func (r *fakeGiveawayRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.giveaways, id)
	return nil
}

func (r *fakeGiveawayRepo) GetSelection(ctx context.Context, giveawayID string) (*models.WinnerSelection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.selections[giveawayID]
	if !ok {
		return nil, repository.ErrSelectionNotFound
	}
	return s, nil
}

func (r *fakeGiveawayRepo) CreateSelection(ctx context.Context, selection *models.WinnerSelection, from, to models.GiveawayStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.selections[selection.GiveawayID]; exists {
		return repository.ErrSelectionExists
	}
	g, ok := r.giveaways[selection.GiveawayID]
	if !ok || g.Status != from {
		return repository.ErrStatusConflict
	}
	r.selections[selection.GiveawayID] = selection
	g.Status = to
	return nil
}

type fakeCompanyRepo struct {
	companies map[string]*companymodels.CompanyAccount
}

func newFakeCompanyRepo(companies ...*companymodels.CompanyAccount) *fakeCompanyRepo {
	repo := &fakeCompanyRepo{companies: map[string]*companymodels.CompanyAccount{}}
	for _, c := range companies {
		repo.companies[c.ID] = c
	}
	return repo
}

func (r *fakeCompanyRepo) Create(ctx context.Context, c *companymodels.CompanyAccount) error {
	r.companies[c.ID] = c
	return nil
}

func (r *fakeCompanyRepo) GetByID(ctx context.Context, id string) (*companymodels.CompanyAccount, error) {
	c, ok := r.companies[id]
	if !ok {
		return nil, companyrepo.ErrCompanyNotFound
	}
	return c, nil
}

func (r *fakeCompanyRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]*companymodels.CompanyAccount, error) {
	var out []*companymodels.CompanyAccount
	for _, c := range r.companies {
		if c.OwnerUserID == ownerUserID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeParticipationRepo struct {
	participations []*participationmodels.Participation
}

func (r *fakeParticipationRepo) Create(ctx context.Context, p *participationmodels.Participation) error {
	r.participations = append(r.participations, p)
	return nil
}

func (r *fakeParticipationRepo) GetByID(ctx context.Context, id string) (*participationmodels.Participation, error) {
	return nil, nil
}

func (r *fakeParticipationRepo) ListByGiveaway(ctx context.Context, giveawayID string) ([]*participationmodels.Participation, error) {
	var out []*participationmodels.Participation
	for _, p := range r.participations {
		if p.GiveawayID == giveawayID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeParticipationRepo) ListByUser(ctx context.Context, userID string) ([]*participationmodels.Participation, error) {
	return nil, nil
}

func (r *fakeParticipationRepo) CountByGiveaway(ctx context.Context, giveawayID string) (int64, error) {
	count, _ := r.ListByGiveaway(ctx, giveawayID)
	return int64(len(count)), nil
}

func (r *fakeParticipationRepo) UpdateVerificationStatusIf(ctx context.Context, id string, from, to participationmodels.VerificationStatus) error {
	return nil
}

const ownerID = "owner-1"

func ownedCompany() *companymodels.CompanyAccount {
	return &companymodels.CompanyAccount{ID: "c1", LegalName: "ACME SL", TaxID: "B123", OwnerUserID: ownerID}
}

func endedActiveGiveaway() *models.Giveaway {
	now := time.Now()
	return &models.Giveaway{
		ID:        "g1",
		Title:     "Summer draw",
		Network:   models.NetworkInstagram,
		PostURL:   "https://instagram.com/p/abc",
		CompanyID: "c1",
		StartsAt:  now.Add(-48 * time.Hour),
		EndsAt:    now.Add(-time.Hour),
		Status:    models.StatusActive,
	}
}

func participants(giveawayID string, n int) *fakeParticipationRepo {
	repo := &fakeParticipationRepo{}
	for i := 0; i < n; i++ {
		repo.participations = append(repo.participations, &participationmodels.Participation{
			ID:         string(rune('a' + i)),
			GiveawayID: giveawayID,
			UserID:     string(rune('A' + i)),
		})
	}
	return repo
}

func newTestService(giveaways *fakeGiveawayRepo, parts *fakeParticipationRepo) GiveawayService {
	return NewGiveawayService(giveaways, parts, newFakeCompanyRepo(ownedCompany()), nil, kafka.NopPublisher{})
}

func TestCreateGiveawayStartsAsDraft(t *testing.T) {
	giveaways := newFakeGiveawayRepo()
	svc := newTestService(giveaways, &fakeParticipationRepo{})

	now := time.Now()
	response, err := svc.Create(context.Background(), ownerID, &dto.GiveawayCreateRequest{
		Title:     "Spring draw",
		Network:   "instagram",
		PostURL:   "https://instagram.com/p/xyz",
		CompanyID: "c1",
		StartsAt:  now,
		EndsAt:    now.Add(72 * time.Hour),
		Requirements: []dto.RequirementInput{
			{Type: "follow", ProfileToFollow: strPtr("@brand")},
			{Type: "mentions", MentionsCount: intPtr(2)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusDraft, response.Status)
	require.Len(t, response.Requirements, 2)
	assert.Equal(t, 0, response.Requirements[0].Position)
	assert.Equal(t, 1, response.Requirements[1].Position)
	assert.True(t, response.Requirements[0].Required, "requirements default to required")
}

func TestCreateGiveawayRejectsInvertedWindow(t *testing.T) {
	svc := newTestService(newFakeGiveawayRepo(), &fakeParticipationRepo{})

	now := time.Now()
	_, err := svc.Create(context.Background(), ownerID, &dto.GiveawayCreateRequest{
		Title:     "Broken",
		Network:   "instagram",
		PostURL:   "https://instagram.com/p/xyz",
		CompanyID: "c1",
		StartsAt:  now,
		EndsAt:    now.Add(-time.Hour),
	})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
}

func TestCreateGiveawayRequiresOwnership(t *testing.T) {
	svc := newTestService(newFakeGiveawayRepo(), &fakeParticipationRepo{})

	now := time.Now()
	_, err := svc.Create(context.Background(), "someone-else", &dto.GiveawayCreateRequest{
		Title:     "Not yours",
		Network:   "instagram",
		PostURL:   "https://instagram.com/p/xyz",
		CompanyID: "c1",
		StartsAt:  now,
		EndsAt:    now.Add(time.Hour),
	})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeNotOwner, appErr.Code)
}

func TestUpdateRejectsInvalidTransition(t *testing.T) {
	g := endedActiveGiveaway()
	g.Status = models.StatusDraft
	svc := newTestService(newFakeGiveawayRepo(g), &fakeParticipationRepo{})

	status := "finished"
	_, err := svc.Update(context.Background(), "g1", ownerID, &dto.GiveawayUpdateRequest{Status: &status})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeInvalidTransition, appErr.Code)
}

func TestUpdateAppliesAllowedTransition(t *testing.T) {
	g := endedActiveGiveaway()
	g.Status = models.StatusDraft
	giveaways := newFakeGiveawayRepo(g)
	svc := newTestService(giveaways, &fakeParticipationRepo{})

	status := "active"
	response, err := svc.Update(context.Background(), "g1", ownerID, &dto.GiveawayUpdateRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, response.Status)

	stored, _ := giveaways.GetByID(context.Background(), "g1")
	assert.Equal(t, models.StatusActive, stored.Status)
}

func TestUpdateRejectsFieldEditsWhenFinalized(t *testing.T) {
	g := endedActiveGiveaway()
	g.Status = models.StatusFinished
	svc := newTestService(newFakeGiveawayRepo(g), &fakeParticipationRepo{})

	title := "New title"
	_, err := svc.Update(context.Background(), "g1", ownerID, &dto.GiveawayUpdateRequest{Title: &title})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeNotEditable, appErr.Code)
}

func TestDeleteOnlyDrafts(t *testing.T) {
	g := endedActiveGiveaway()
	svc := newTestService(newFakeGiveawayRepo(g), &fakeParticipationRepo{})

	err := svc.Delete(context.Background(), "g1", ownerID)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeNotDeletable, appErr.Code)

	g.Status = models.StatusDraft
	require.NoError(t, svc.Delete(context.Background(), "g1", ownerID))
}

func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }
