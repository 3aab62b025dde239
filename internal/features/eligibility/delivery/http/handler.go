package http

import (
	"errors"
	"io"
	"net/http"

	apperrors "catcents-backend/internal/common/errors"
	"catcents-backend/internal/common/middleware"
	"catcents-backend/internal/features/eligibility/models"
	"catcents-backend/internal/features/eligibility/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type EligibilityHandler struct {
	service service.EligibilityService
	log     zerolog.Logger
}

func NewEligibilityHandler(service service.EligibilityService, log zerolog.Logger) *EligibilityHandler {
	return &EligibilityHandler{service: service, log: log}
}

func (h *EligibilityHandler) RegisterRoutes(router *gin.RouterGroup) {
	authed := router.Group("")
	authed.Use(middleware.RequireAuth(h.log))
	{
		authed.POST("/check-role", h.checkRole)
		authed.GET("/dashboard", h.dashboard)
	}
}

// @Summary Check eligibility roles
// @Description Looks up the signed-in member's guild roles and filters them to mint eligibility roles. Cached for an hour unless forceRefresh is set.
// @Tags eligibility
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param request body models.CheckRoleRequest false "Options"
// @Success 200 {object} models.RoleCheck "Role check"
// @Failure 401 {object} middleware.ErrorResponse "Not signed in"
// @Failure 502 {object} middleware.ErrorResponse "Discord API error"
// @Router /check-role [post]
func (h *EligibilityHandler) checkRole(c *gin.Context) {
	id, _ := middleware.UserID(c)

	var req models.CheckRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		_ = c.Error(apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "Invalid request body"))
		return
	}

	check, err := h.service.CheckRoles(c.Request.Context(), id, req.ForceRefresh)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, check)
}

// @Summary Dashboard
// @Description Profile, eligibility roles and the effective highest role, counting an NFT role still pending assignment.
// @Tags eligibility
// @Produce json
// @Security SessionCookie
// @Success 200 {object} models.Dashboard "Dashboard"
// @Failure 401 {object} middleware.ErrorResponse "Not signed in"
// @Failure 404 {object} middleware.ErrorResponse "Profile not found"
// @Failure 502 {object} middleware.ErrorResponse "Discord API error"
// @Router /dashboard [get]
func (h *EligibilityHandler) dashboard(c *gin.Context) {
	id, _ := middleware.UserID(c)

	d, err := h.service.Dashboard(c.Request.Context(), id, middleware.IsAdmin(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, d)
}
