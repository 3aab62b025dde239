package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	authredis "catcents-backend/internal/features/auth/repository/redis"
	"catcents-backend/internal/features/auth/service"
	"catcents-backend/internal/features/auth/session"
	usermodels "catcents-backend/internal/features/user/models"
	platformdiscord "catcents-backend/internal/platform/discord"

	"github.com/alicebob/miniredis/v2"
	"github.com/disgoorg/snowflake/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	identity *platformdiscord.Identity
	err      error
}

func (f *fakeProvider) AuthCodeURL(state string) string {
	return "https://discord.example/authorize?state=" + url.QueryEscape(state)
}

func (f *fakeProvider) Exchange(_ context.Context, code string) (*platformdiscord.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.identity, nil
}

type fakeUsers struct {
	upserted []snowflake.ID
}

func (f *fakeUsers) UpsertIdentity(_ context.Context, id snowflake.ID, username, avatar string) (*usermodels.Profile, error) {
	f.upserted = append(f.upserted, id)
	return &usermodels.Profile{DiscordID: id, Username: username, Avatar: avatar}, nil
}

type env struct {
	router   *gin.Engine
	provider *fakeProvider
	users    *fakeUsers
	sessions *session.Manager
}

func setup(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	e := &env{
		provider: &fakeProvider{identity: &platformdiscord.Identity{ID: "80351110224678912", Username: "whisker", Avatar: "abc"}},
		users:    &fakeUsers{},
		sessions: session.NewManager("0123456789abcdef0123456789abcdef", time.Hour),
	}
	svc := service.NewAuthService(e.provider, authredis.NewStateRepository(client), e.users, e.sessions, 10*time.Minute, zerolog.Nop())

	e.router = gin.New()
	NewAuthHandler(svc, "https://app.example/", CookieOptions{SessionAge: 3600, StateAge: 600}, zerolog.Nop()).
		RegisterRoutes(e.router.Group("/api/v1"))
	return e
}

func (e *env) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func cookieNamed(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func login(t *testing.T, e *env) *http.Cookie {
	t.Helper()
	w := e.get("/api/v1/auth/login")
	require.Equal(t, http.StatusFound, w.Code)
	state := cookieNamed(w, stateCookie)
	require.NotNil(t, state)
	assert.True(t, state.HttpOnly)

	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, state.Value, loc.Query().Get("state"))
	return state
}

func TestLoginCallback(t *testing.T) {
	e := setup(t)
	state := login(t, e)

	w := e.get("/api/v1/auth/callback?code=good&state="+url.QueryEscape(state.Value), state)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://app.example/", w.Header().Get("Location"))

	sess := cookieNamed(w, session.CookieName)
	require.NotNil(t, sess)
	assert.True(t, sess.HttpOnly)
	assert.Equal(t, 3600, sess.MaxAge)

	id, _, err := e.sessions.Parse(sess.Value)
	require.NoError(t, err)
	assert.Equal(t, snowflake.ID(80351110224678912), id)
	assert.Equal(t, []snowflake.ID{80351110224678912}, e.users.upserted)

	// The state cannot be replayed.
	w = e.get("/api/v1/auth/callback?code=good&state="+url.QueryEscape(state.Value), state)
	assert.Equal(t, "https://app.example/?error=invalid_state", w.Header().Get("Location"))
}

func TestCallback_Errors(t *testing.T) {
	t.Run("no code", func(t *testing.T) {
		e := setup(t)
		w := e.get("/api/v1/auth/callback?state=x")
		assert.Equal(t, "https://app.example/?error=no_code", w.Header().Get("Location"))
	})

	t.Run("state mismatch", func(t *testing.T) {
		e := setup(t)
		state := login(t, e)
		w := e.get("/api/v1/auth/callback?code=good&state=other", state)
		assert.Equal(t, "https://app.example/?error=invalid_state", w.Header().Get("Location"))
	})

	t.Run("state never issued", func(t *testing.T) {
		e := setup(t)
		forged := &http.Cookie{Name: stateCookie, Value: "forged"}
		w := e.get("/api/v1/auth/callback?code=good&state=forged", forged)
		assert.Equal(t, "https://app.example/?error=invalid_state", w.Header().Get("Location"))
	})

	t.Run("exchange failure", func(t *testing.T) {
		e := setup(t)
		e.provider.err = errors.New("invalid_grant")
		state := login(t, e)
		w := e.get("/api/v1/auth/callback?code=bad&state="+url.QueryEscape(state.Value), state)
		assert.Equal(t, "https://app.example/?error=auth_failed", w.Header().Get("Location"))
		assert.Nil(t, cookieNamed(w, session.CookieName))
		assert.Empty(t, e.users.upserted)
	})
}

func TestLogout(t *testing.T) {
	e := setup(t)
	w := e.get("/api/v1/auth/logout", &http.Cookie{Name: session.CookieName, Value: "x"})
	require.Equal(t, http.StatusFound, w.Code)
	sess := cookieNamed(w, session.CookieName)
	require.NotNil(t, sess)
	assert.Empty(t, sess.Value)
	assert.Less(t, sess.MaxAge, 0)
}
