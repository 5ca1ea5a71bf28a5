package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "sorteo-platform-backend/internal/common/errors"
	"sorteo-platform-backend/internal/common/middleware"
	"sorteo-platform-backend/internal/features/user/models"
	"sorteo-platform-backend/internal/features/user/repository"
)

type UserHandler struct {
	users repository.UserRepository
}

func NewUserHandler(users repository.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users", middleware.RequireAuth())
	{
		users.GET("/me", h.me)
	}
}

type profileResponse struct {
	User           *models.User            `json:"user"`
	SocialAccounts []*models.SocialAccount `json:"social_accounts"`
}

// @Summary Get the authenticated user's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} profileResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) me(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			middleware.AbortWithError(c, apperrors.New(apperrors.ErrCodeNotFound, "User not found"))
			return
		}
		middleware.AbortWithError(c, apperrors.NewDatabaseError("get user", err))
		return
	}

	accounts, err := h.users.ListSocialAccounts(c.Request.Context(), userID)
	if err != nil {
		middleware.AbortWithError(c, apperrors.NewDatabaseError("list social accounts", err))
		return
	}

	c.JSON(http.StatusOK, profileResponse{User: user, SocialAccounts: accounts})
}
