package middleware

import (
	"strings"

	"catcents-backend/internal/common/errors"
	"catcents-backend/internal/features/auth/session"

	"github.com/disgoorg/snowflake/v2"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	userIDKey  = "user_id"
	isAdminKey = "is_admin"
)

type SessionParser interface {
	Parse(token string) (snowflake.ID, *session.Claims, error)
}

// AdminSet holds the Discord ids allowed on admin routes.
type AdminSet map[snowflake.ID]struct{}

func NewAdminSet(ids []string) AdminSet {
	set := make(AdminSet, len(ids))
	for _, raw := range ids {
		id, err := snowflake.Parse(strings.TrimSpace(raw))
		if err != nil || id == 0 {
			continue
		}
		set[id] = struct{}{}
	}
	return set
}

func (s AdminSet) Contains(id snowflake.ID) bool {
	_, ok := s[id]
	return ok
}

// Session reads the session cookie and, when it verifies, stores the
// user id in the context. Requests without a valid cookie pass through.
func Session(parser SessionParser, admins AdminSet) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(session.CookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		id, _, err := parser.Parse(token)
		if err != nil {
			c.Next()
			return
		}

		c.Set(userIDKey, id)
		c.Set(isAdminKey, admins.Contains(id))
		c.Next()
	}
}

func RequireAuth(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserID(c); !ok {
			sendErrorResponse(c, errors.NewUnauthorizedError("sign in with Discord first"), log)
			return
		}
		c.Next()
	}
}

func RequireAdmin(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserID(c); !ok {
			sendErrorResponse(c, errors.NewUnauthorizedError("sign in with Discord first"), log)
			return
		}
		if !IsAdmin(c) {
			sendErrorResponse(c, errors.NewForbiddenError("admin access required"), log)
			return
		}
		c.Next()
	}
}

// UserID returns the signed-in Discord id.
func UserID(c *gin.Context) (snowflake.ID, bool) {
	v, exists := c.Get(userIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(snowflake.ID)
	return id, ok && id != 0
}

func IsAdmin(c *gin.Context) bool {
	return c.GetBool(isAdminKey)
}
