package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"catcents-backend/internal/common/middleware"
	"catcents-backend/internal/features/auth/session"
	"catcents-backend/internal/features/roles/models"

	"github.com/disgoorg/snowflake/v2"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminID = snowflake.ID(111111111111111111)

type fakeRequester struct {
	by  []string
	err error
}

func (f *fakeRequester) SyncRequested(_ context.Context, requestedBy string) error {
	f.by = append(f.by, requestedBy)
	return f.err
}

func setup(t *testing.T, req *fakeRequester) (*gin.Engine, *http.Cookie) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zerolog.Nop()
	sessions := session.NewManager("0123456789abcdef0123456789abcdef", time.Hour)

	r := gin.New()
	r.Use(middleware.HandleErrors(log), middleware.Session(sessions, middleware.NewAdminSet([]string{adminID.String()})))
	NewRolesHandler(req, models.DefaultCatalog(), log).RegisterRoutes(r.Group("/api/v1"))

	token, err := sessions.Issue(adminID, "boss")
	require.NoError(t, err)
	return r, &http.Cookie{Name: session.CookieName, Value: token}
}

func TestRequestSync(t *testing.T) {
	req := &fakeRequester{}
	r, cookie := setup(t, req)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/admin/sync", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, req.by)

	httpReq := httptest.NewRequest(http.MethodPost, "/api/v1/admin/sync", nil)
	httpReq.AddCookie(cookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, []string{adminID.String()}, req.by)
}

func TestRequestSync_QueueDown(t *testing.T) {
	r, cookie := setup(t, &fakeRequester{err: errors.New("redis down")})

	httpReq := httptest.NewRequest(http.MethodPost, "/api/v1/admin/sync", nil)
	httpReq.AddCookie(cookie)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCatalogRoles(t *testing.T) {
	r, cookie := setup(t, &fakeRequester{})

	httpReq := httptest.NewRequest(http.MethodGet, "/api/v1/admin/roles", nil)
	httpReq.AddCookie(cookie)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Version string            `json:"version"`
		Roles   []json.RawMessage `json:"roles"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.DefaultCatalogVersion, resp.Version)
	assert.Len(t, resp.Roles, 14)
}
