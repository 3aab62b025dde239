package discord

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeDiscord(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.Form.Get("code") != "good" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		assert.Equal(t, "client", r.Form.Get("client_id"))
		assert.Equal(t, "secret", r.Form.Get("client_secret"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "at",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/users/@me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"80351110224678912","username":"whisker","avatar":"abc123"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestOAuthProvider_AuthCodeURL(t *testing.T) {
	p := NewOAuthProvider("client", "secret", "http://localhost/cb")
	u, err := url.Parse(p.AuthCodeURL("state-123"))
	require.NoError(t, err)

	assert.Equal(t, "discord.com", u.Host)
	q := u.Query()
	assert.Equal(t, "state-123", q.Get("state"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "identify guilds guilds.members.read", q.Get("scope"))
	assert.Equal(t, "http://localhost/cb", q.Get("redirect_uri"))
}

func TestOAuthProvider_Exchange(t *testing.T) {
	srv := fakeDiscord(t)
	p := NewOAuthProvider("client", "secret", "http://localhost/cb").
		WithEndpoints(srv.URL+"/authorize", srv.URL+"/token", srv.URL+"/users/@me")

	id, err := p.Exchange(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "80351110224678912", id.ID)
	assert.Equal(t, "whisker", id.Username)
	assert.Equal(t, "abc123", id.Avatar)
}

func TestOAuthProvider_ExchangeBadCode(t *testing.T) {
	srv := fakeDiscord(t)
	p := NewOAuthProvider("client", "secret", "http://localhost/cb").
		WithEndpoints(srv.URL+"/authorize", srv.URL+"/token", srv.URL+"/users/@me")

	_, err := p.Exchange(context.Background(), "bad")
	assert.ErrorContains(t, err, "exchange code")
}
