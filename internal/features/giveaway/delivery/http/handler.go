package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "sorteo-platform-backend/internal/common/errors"
	"sorteo-platform-backend/internal/common/middleware"
	"sorteo-platform-backend/internal/features/giveaway/models/dto"
	giveawayservice "sorteo-platform-backend/internal/features/giveaway/service"
)

type GiveawayHandler struct {
	service giveawayservice.GiveawayService
}

func NewGiveawayHandler(service giveawayservice.GiveawayService) *GiveawayHandler {
	return &GiveawayHandler{service: service}
}

func (h *GiveawayHandler) RegisterRoutes(router *gin.RouterGroup) {
	giveaways := router.Group("/giveaways")
	{
		giveaways.GET("", h.list)
		giveaways.GET("/:id", h.getByID)

		authed := giveaways.Group("", middleware.RequireAuth())
		{
			authed.POST("", h.create)
			authed.PATCH("/:id", h.update)
			authed.DELETE("/:id", h.delete)
			authed.POST("/:id/select-winner", h.selectWinner)
		}
	}
}

// @Summary Create a giveaway
// @Description Creates a draft giveaway with its participation requirements
// @Tags giveaways
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body dto.GiveawayCreateRequest true "Giveaway payload"
// @Success 201 {object} dto.GiveawayResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /giveaways [post]
func (h *GiveawayHandler) create(c *gin.Context) {
	var input dto.GiveawayCreateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.AbortWithError(c, apperrors.Wrap(err, apperrors.ErrCodeValidation, "Invalid request body"))
		return
	}

	response, err := h.service.Create(c.Request.Context(), middleware.CurrentUserID(c), &input)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// @Summary List giveaways
// @Tags giveaways
// @Produce json
// @Param status query string false "Filter by status"
// @Param company_id query string false "Filter by company"
// @Param network query string false "Filter by network"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {array} dto.GiveawayResponse
// @Router /giveaways [get]
func (h *GiveawayHandler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	responses, err := h.service.List(c.Request.Context(), giveawayservice.ListFilter{
		Status:    c.Query("status"),
		CompanyID: c.Query("company_id"),
		Network:   c.Query("network"),
		Limit:     limit,
	})
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, responses)
}

// @Summary Get a giveaway
// @Tags giveaways
// @Produce json
// @Param id path string true "Giveaway id"
// @Success 200 {object} dto.GiveawayResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /giveaways/{id} [get]
func (h *GiveawayHandler) getByID(c *gin.Context) {
	response, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Update a giveaway
// @Description Edits fields and applies status transitions. Finalized giveaways only accept the transition itself.
// @Tags giveaways
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Giveaway id"
// @Param input body dto.GiveawayUpdateRequest true "Fields to change"
// @Success 200 {object} dto.GiveawayResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /giveaways/{id} [patch]
func (h *GiveawayHandler) update(c *gin.Context) {
	var input dto.GiveawayUpdateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.AbortWithError(c, apperrors.Wrap(err, apperrors.ErrCodeValidation, "Invalid request body"))
		return
	}

	response, err := h.service.Update(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c), &input)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Delete a giveaway
// @Description Only draft giveaways can be deleted
// @Tags giveaways
// @Security BearerAuth
// @Param id path string true "Giveaway id"
// @Success 204 "No Content"
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /giveaways/{id} [delete]
func (h *GiveawayHandler) delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c)); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Select the winner
// @Description Draws a primary winner plus up to three backups for an ended giveaway. Runs at most once per giveaway.
// @Tags giveaways
// @Produce json
// @Security BearerAuth
// @Param id path string true "Giveaway id"
// @Success 201 {object} dto.SelectionResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /giveaways/{id}/select-winner [post]
func (h *GiveawayHandler) selectWinner(c *gin.Context) {
	response, err := h.service.SelectWinner(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}
