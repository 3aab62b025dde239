package http

import (
	"net/http"

	apperrors "catcents-backend/internal/common/errors"
	"catcents-backend/internal/common/middleware"
	"catcents-backend/internal/features/wallet/models"
	"catcents-backend/internal/features/wallet/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type WalletHandler struct {
	service service.WalletService
	log     zerolog.Logger
}

func NewWalletHandler(service service.WalletService, log zerolog.Logger) *WalletHandler {
	return &WalletHandler{service: service, log: log}
}

func (h *WalletHandler) RegisterRoutes(router *gin.RouterGroup) {
	wallet := router.Group("/wallet")
	wallet.Use(middleware.RequireAuth(h.log))
	{
		wallet.POST("", h.submit)
		wallet.GET("", h.get)
	}
}

// @Summary Submit wallet
// @Description Links an EVM wallet to the signed-in user. The NFT balance decides the NFT role, which the bot grants shortly after.
// @Tags wallet
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param wallet body models.SubmitWalletRequest true "Wallet"
// @Success 200 {object} models.WalletResponse "Stored submission"
// @Failure 400 {object} middleware.ErrorResponse "Invalid wallet address"
// @Failure 401 {object} middleware.ErrorResponse "Not signed in"
// @Failure 502 {object} middleware.ErrorResponse "Chain read failed"
// @Router /wallet [post]
func (h *WalletHandler) submit(c *gin.Context) {
	id, _ := middleware.UserID(c)

	var req models.SubmitWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.Wrap(err, apperrors.ErrCodeInvalidWallet, "Invalid wallet address"))
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), id, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get wallet
// @Description Returns the wallet submitted by the signed-in user.
// @Tags wallet
// @Produce json
// @Security SessionCookie
// @Success 200 {object} models.WalletResponse "Stored submission"
// @Failure 401 {object} middleware.ErrorResponse "Not signed in"
// @Failure 404 {object} middleware.ErrorResponse "No wallet submitted"
// @Router /wallet [get]
func (h *WalletHandler) get(c *gin.Context) {
	id, _ := middleware.UserID(c)

	resp, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
