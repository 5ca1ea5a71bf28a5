package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	apperrors "sorteo-platform-backend/internal/common/errors"
	"sorteo-platform-backend/internal/features/participation/models"
	participationservice "sorteo-platform-backend/internal/features/participation/service"
)

type stubParticipationService struct {
	participation *models.Participation
	result        *models.VerificationResult
	err           error
}

func (s *stubParticipationService) Join(ctx context.Context, userID string, input *participationservice.JoinRequest) (*models.Participation, error) {
	return s.participation, s.err
}

func (s *stubParticipationService) ListOwn(ctx context.Context, userID string) ([]*models.Participation, error) {
	return nil, s.err
}

func (s *stubParticipationService) VerifyParticipation(ctx context.Context, participationID, callerID string) (*models.VerificationResult, error) {
	return s.result, s.err
}

func newTestRouter(svc participationservice.ParticipationService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", "u1")
	})
	v1 := router.Group("/api/v1")
	NewParticipationHandler(svc).RegisterRoutes(v1)
	return router
}

func TestVerifyReturnsResult(t *testing.T) {
	router := newTestRouter(&stubParticipationService{
		result: &models.VerificationResult{
			Status: models.VerificationApproved,
			Checked: []models.VerificationCheck{
				{Type: "like", OK: true},
			},
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/participations/p1/verify", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"approved"`)
}

func TestVerifyErrorStatuses(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperrors.NewParticipationNotFoundError("p1"), http.StatusNotFound},
		{apperrors.NewForbiddenError("participation belongs to another user"), http.StatusForbidden},
		{apperrors.NewProviderError("verify requirements", nil), http.StatusBadGateway},
	}

	for _, tc := range cases {
		router := newTestRouter(&stubParticipationService{err: tc.err})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/participations/p1/verify", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, tc.want, w.Code)
	}
}

func TestJoinReturnsCreated(t *testing.T) {
	router := newTestRouter(&stubParticipationService{
		participation: &models.Participation{ID: "p1", GiveawayID: "g1", UserID: "u1", Entries: 1, VerificationStatus: models.VerificationPending},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/participations", strings.NewReader(`{"giveaway_id":"g1"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"verification_status":"pending"`)
}

func TestJoinConflict(t *testing.T) {
	router := newTestRouter(&stubParticipationService{
		err: apperrors.New(apperrors.ErrCodeAlreadyJoined, "Already participating in this giveaway"),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/participations", strings.NewReader(`{"giveaway_id":"g1"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestJoinMissingGiveawayID(t *testing.T) {
	router := newTestRouter(&stubParticipationService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/participations", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
