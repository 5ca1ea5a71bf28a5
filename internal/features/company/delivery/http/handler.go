package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "sorteo-platform-backend/internal/common/errors"
	"sorteo-platform-backend/internal/common/middleware"
	"sorteo-platform-backend/internal/features/company/models"
	companyservice "sorteo-platform-backend/internal/features/company/service"
)

type CompanyHandler struct {
	service companyservice.CompanyService
}

func NewCompanyHandler(service companyservice.CompanyService) *CompanyHandler {
	return &CompanyHandler{service: service}
}

func (h *CompanyHandler) RegisterRoutes(router *gin.RouterGroup) {
	companies := router.Group("/companies", middleware.RequireAuth())
	{
		companies.POST("", h.create)
		companies.GET("", h.listOwn)
	}
}

// @Summary Create a company account
// @Tags companies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body models.CompanyCreate true "Company payload"
// @Success 201 {object} models.CompanyAccount
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /companies [post]
func (h *CompanyHandler) create(c *gin.Context) {
	var input models.CompanyCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.AbortWithError(c, apperrors.Wrap(err, apperrors.ErrCodeValidation, "Invalid request body"))
		return
	}

	company, err := h.service.Create(c.Request.Context(), middleware.CurrentUserID(c), &input)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, company)
}

// @Summary List own company accounts
// @Tags companies
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.CompanyAccount
// @Router /companies [get]
func (h *CompanyHandler) listOwn(c *gin.Context) {
	companies, err := h.service.ListOwn(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, companies)
}
