package http

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	apperrors "catcents-backend/internal/common/errors"
	"catcents-backend/internal/features/auth/service"
	"catcents-backend/internal/features/auth/session"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const stateCookie = "oauth_state"

type CookieOptions struct {
	Secure     bool
	SessionAge int
	StateAge   int
}

type AuthHandler struct {
	service service.AuthService
	baseURL string
	cookies CookieOptions
	log     zerolog.Logger
}

func NewAuthHandler(service service.AuthService, baseURL string, cookies CookieOptions, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		baseURL: strings.TrimRight(baseURL, "/"),
		cookies: cookies,
		log:     log,
	}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.GET("/login", h.login)
		auth.GET("/callback", h.callback)
		auth.GET("/logout", h.logout)
	}
}

// @Summary Start Discord sign-in
// @Description Redirects to the Discord authorize page.
// @Tags auth
// @Success 302 "Redirect to Discord"
// @Failure 500 {object} middleware.ErrorResponse "Internal server error"
// @Router /auth/login [get]
func (h *AuthHandler) login(c *gin.Context) {
	redirect, state, err := h.service.BeginLogin(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, h.cookies.StateAge, "/", "", h.cookies.Secure, true)
	c.Redirect(http.StatusFound, redirect)
}

// @Summary Discord sign-in callback
// @Description Completes the OAuth flow, sets the session cookie and redirects to the dashboard. Failures redirect with ?error=no_code, invalid_state or auth_failed.
// @Tags auth
// @Param code query string false "Authorization code"
// @Param state query string false "OAuth state"
// @Success 302 "Redirect to the dashboard"
// @Router /auth/callback [get]
func (h *AuthHandler) callback(c *gin.Context) {
	cookieState, _ := c.Cookie(stateCookie)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, "", -1, "/", "", h.cookies.Secure, true)

	token, _, err := h.service.CompleteLogin(c.Request.Context(), c.Query("code"), c.Query("state"), cookieState)
	if err != nil {
		reason := "auth_failed"
		switch {
		case errors.Is(err, service.ErrMissingCode):
			reason = "no_code"
		case errors.Is(err, service.ErrInvalidState):
			reason = "invalid_state"
		default:
			event := h.log.Error().Err(err)
			if appErr, ok := apperrors.AsAppError(err); ok {
				event = event.Str("error_code", string(appErr.Code))
			}
			event.Msg("Discord sign-in failed")
		}
		c.Redirect(http.StatusFound, h.baseURL+"/?error="+url.QueryEscape(reason))
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(session.CookieName, token, h.cookies.SessionAge, "/", "", h.cookies.Secure, true)
	c.Redirect(http.StatusFound, h.baseURL+"/")
}

// @Summary Sign out
// @Description Clears the session cookie.
// @Tags auth
// @Success 302 "Redirect to the home page"
// @Router /auth/logout [get]
func (h *AuthHandler) logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(session.CookieName, "", -1, "/", "", h.cookies.Secure, true)
	c.Redirect(http.StatusFound, h.baseURL+"/")
}
