package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "sorteo-platform-backend/internal/common/errors"
	"sorteo-platform-backend/internal/common/middleware"
	participationservice "sorteo-platform-backend/internal/features/participation/service"
)

type ParticipationHandler struct {
	service participationservice.ParticipationService
}

func NewParticipationHandler(service participationservice.ParticipationService) *ParticipationHandler {
	return &ParticipationHandler{service: service}
}

func (h *ParticipationHandler) RegisterRoutes(router *gin.RouterGroup) {
	participations := router.Group("/participations", middleware.RequireAuth())
	{
		participations.POST("", h.join)
		participations.GET("", h.listOwn)
		participations.POST("/:id/verify", h.verify)
	}
}

// @Summary Join a giveaway
// @Description Enters the authenticated user into an active giveaway
// @Tags participations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body participationservice.JoinRequest true "Join payload"
// @Success 201 {object} models.Participation
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /participations [post]
func (h *ParticipationHandler) join(c *gin.Context) {
	var input participationservice.JoinRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.AbortWithError(c, apperrors.Wrap(err, apperrors.ErrCodeValidation, "Invalid request body"))
		return
	}

	participation, err := h.service.Join(c.Request.Context(), middleware.CurrentUserID(c), &input)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, participation)
}

// @Summary List own participations
// @Tags participations
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Participation
// @Router /participations [get]
func (h *ParticipationHandler) listOwn(c *gin.Context) {
	participations, err := h.service.ListOwn(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, participations)
}

// @Summary Verify a participation
// @Description Checks the giveaway's requirements against the social network and persists the decision. Repeat calls on a decided participation return the stored status.
// @Tags participations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Participation id"
// @Success 200 {object} models.VerificationResult
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /participations/{id}/verify [post]
func (h *ParticipationHandler) verify(c *gin.Context) {
	result, err := h.service.VerifyParticipation(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
