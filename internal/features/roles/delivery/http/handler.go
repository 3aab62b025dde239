package http

import (
	"context"
	"net/http"

	apperrors "catcents-backend/internal/common/errors"
	"catcents-backend/internal/common/middleware"
	"catcents-backend/internal/features/roles/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// SyncRequester hands a sync request to the bot process.
type SyncRequester interface {
	SyncRequested(ctx context.Context, requestedBy string) error
}

type RolesHandler struct {
	requester SyncRequester
	catalog   *models.Catalog
	log       zerolog.Logger
}

func NewRolesHandler(requester SyncRequester, catalog *models.Catalog, log zerolog.Logger) *RolesHandler {
	return &RolesHandler{requester: requester, catalog: catalog, log: log}
}

// SyncAccepted is returned when a sync request is queued.
type SyncAccepted struct {
	Status string `json:"status" example:"queued"`
}

// CatalogResponse lists the managed role catalog.
type CatalogResponse struct {
	Version string                  `json:"version" example:"2025-07"`
	Roles   []models.RoleDefinition `json:"roles"`
}

func (h *RolesHandler) RegisterRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	admin.Use(middleware.RequireAdmin(h.log))
	{
		admin.POST("/sync", h.requestSync)
		admin.GET("/roles", h.catalogRoles)
	}
}

// @Summary Request a role sync
// @Description Queues a population-wide role sync for the bot (admin only).
// @Tags admin
// @Produce json
// @Security SessionCookie
// @Success 202 {object} SyncAccepted "Queued"
// @Failure 401 {object} middleware.ErrorResponse "Not signed in"
// @Failure 403 {object} middleware.ErrorResponse "Not an admin"
// @Failure 503 {object} middleware.ErrorResponse "Queue unavailable"
// @Router /admin/sync [post]
func (h *RolesHandler) requestSync(c *gin.Context) {
	id, _ := middleware.UserID(c)

	if err := h.requester.SyncRequested(c.Request.Context(), id.String()); err != nil {
		_ = c.Error(apperrors.NewCacheError("queue sync request", err))
		return
	}

	h.log.Info().Str("user_id", id.String()).Msg("Role sync requested")
	c.JSON(http.StatusAccepted, SyncAccepted{Status: "queued"})
}

// @Summary Managed roles
// @Description Returns the catalog of roles the bot manages (admin only).
// @Tags admin
// @Produce json
// @Security SessionCookie
// @Success 200 {object} CatalogResponse "Catalog"
// @Router /admin/roles [get]
func (h *RolesHandler) catalogRoles(c *gin.Context) {
	c.JSON(http.StatusOK, CatalogResponse{
		Version: h.catalog.Version(),
		Roles:   h.catalog.Definitions(),
	})
}
