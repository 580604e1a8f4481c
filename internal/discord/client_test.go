package discord

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/meubot/meubot-web/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(oauthBase, apiBase string) config.DiscordConfig {
	return config.DiscordConfig{
		ClientID:     "cid",
		ClientSecret: "csecret",
		RedirectURI:  "http://localhost:3000/auth/callback",
		BotToken:     "bot-token",
		OAuthBaseURL: oauthBase,
		APIBaseURL:   apiBase,
		Timeout:      2 * time.Second,
	}
}

func TestAuthorizeURL(t *testing.T) {
	c := NewClient(testConfig("https://discord.com/api/oauth2", "https://discord.com/api/v10"))
	raw := c.AuthorizeURL("st4te")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "cid", q.Get("client_id"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "identify guilds", q.Get("scope"))
	assert.Equal(t, "st4te", q.Get("state"))
	assert.Equal(t, "http://localhost:3000/auth/callback", q.Get("redirect_uri"))
}

func TestExchangeCode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/token", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.Form.Get("grant_type"))
		assert.Equal(t, "abc123", r.Form.Get("code"))
		assert.Equal(t, "csecret", r.Form.Get("client_secret"))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"access_token": "tok1", "token_type": "Bearer", "expires_in": 604800})
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL, srv.URL))
	tr, err := c.ExchangeCode(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "tok1", tr.AccessToken)
}

func TestExchangeCode_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(400)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL, srv.URL))
	_, err := c.ExchangeCode(context.Background(), "bad")
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "discord returned 400")
	}
}

func TestExchangeCode_EmptyToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL, srv.URL))
	_, err := c.ExchangeCode(context.Background(), "abc")
	assert.Error(t, err)
}

func TestCurrentUser_BearerAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/@me", r.URL.Path)
		require.Equal(t, "Bearer tok1", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(User{ID: "42", Username: "alice", Discriminator: "0001", Avatar: "h4sh"})
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL, srv.URL))
	u, err := c.CurrentUser(context.Background(), "tok1")
	require.NoError(t, err)
	assert.Equal(t, "42", u.ID)
	assert.Equal(t, "alice", u.Username)
}

func TestUser_BotAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasPrefix(r.URL.Path, "/users/"))
		require.Equal(t, "Bot bot-token", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(User{ID: "99", Username: "meubot", Discriminator: "1234"})
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL, srv.URL))
	u, err := c.User(context.Background(), "99")
	require.NoError(t, err)
	assert.Equal(t, "meubot", u.Username)
}

func TestApplicationRPC(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/applications/99/rpc", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"name": "MeuBot", "description": "desc", "verify_key": "vk",
			"bot_public": true, "approximate_guild_count": 1200,
		})
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL, srv.URL))
	app, err := c.ApplicationRPC(context.Background(), "99")
	require.NoError(t, err)
	assert.Equal(t, 1200, app.ApproximateGuildCount)
	assert.True(t, app.BotPublic)
}

func TestAvatarURL(t *testing.T) {
	assert.Equal(t, "https://cdn.discordapp.com/avatars/42/h4sh.png?size=128", AvatarURL("42", "h4sh"))
	assert.Equal(t, "", AvatarURL("42", ""))
}
