package http

import (
	"net/http"

	apperrors "catcents-backend/internal/common/errors"
	"catcents-backend/internal/common/middleware"
	"catcents-backend/internal/features/user/models"
	"catcents-backend/internal/features/user/service"

	"github.com/disgoorg/snowflake/v2"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type UserHandler struct {
	service service.UserService
	log     zerolog.Logger
}

func NewUserHandler(service service.UserService, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	users.Use(middleware.RequireAuth(h.log))
	{
		users.GET("/me", h.getMe)
	}

	admin := router.Group("/admin/users")
	admin.Use(middleware.RequireAdmin(h.log))
	{
		admin.PUT("/:id/badges", h.updateBadges)
	}
}

// @Summary Get current user
// @Description Returns the stored profile of the signed-in Discord user.
// @Tags users
// @Produce json
// @Security SessionCookie
// @Success 200 {object} models.ProfileResponse "Profile"
// @Failure 401 {object} middleware.ErrorResponse "Not signed in"
// @Failure 404 {object} middleware.ErrorResponse "Profile not found"
// @Failure 500 {object} middleware.ErrorResponse "Internal server error"
// @Router /users/me [get]
func (h *UserHandler) getMe(c *gin.Context) {
	id, _ := middleware.UserID(c)

	profile, err := h.service.GetProfile(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, profile.ToResponse(middleware.IsAdmin(c)))
}

// @Summary Update claimed badges
// @Description Records claimed badge milestones and linked roles for a user (admin only). Roles follow on the next sync.
// @Tags admin
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param id path string true "Discord user ID"
// @Param badges body models.UpdateBadgesRequest true "Badges"
// @Success 200 {object} models.ProfileResponse "Updated profile"
// @Failure 400 {object} middleware.ErrorResponse "Invalid request"
// @Failure 401 {object} middleware.ErrorResponse "Not signed in"
// @Failure 403 {object} middleware.ErrorResponse "Not an admin"
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Router /admin/users/{id}/badges [put]
func (h *UserHandler) updateBadges(c *gin.Context) {
	id, err := snowflake.Parse(c.Param("id"))
	if err != nil {
		_ = c.Error(apperrors.NewValidationError("id", "must be a Discord user id"))
		return
	}

	var req models.UpdateBadgesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "Invalid request body"))
		return
	}

	profile, err := h.service.SetBadges(c.Request.Context(), id, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, profile.ToResponse(false))
}
