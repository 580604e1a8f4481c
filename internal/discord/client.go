package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/meubot/meubot-web/internal/config"
	"github.com/meubot/meubot-web/pkg/metrics"
)

// User is the profile shape returned by the Discord users endpoints.
type User struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Discriminator string `json:"discriminator"`
	Avatar        string `json:"avatar"`
}

// TokenResponse is the OAuth2 token endpoint response.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
}

// ApplicationRPC is the public application document exposed at
// /applications/{id}/rpc. Only the fields the site consumes are modeled.
type ApplicationRPC struct {
	Name                  string `json:"name"`
	Description           string `json:"description"`
	VerifyKey             string `json:"verify_key"`
	BotPublic             bool   `json:"bot_public"`
	ApproximateGuildCount int    `json:"approximate_guild_count"`
}

// Client wraps the Discord HTTP API calls used by the site: OAuth2 token
// exchange, current-user lookup, by-id user lookup and the application RPC
// document. Every call shares one http.Client with a uniform timeout.
type Client struct {
	oauthBase    string
	apiBase      string
	clientID     string
	clientSecret string
	redirectURI  string
	botToken     string
	http         *http.Client
}

func NewClient(cfg config.DiscordConfig) *Client {
	return &Client{
		oauthBase:    strings.TrimRight(cfg.OAuthBaseURL, "/"),
		apiBase:      strings.TrimRight(cfg.APIBaseURL, "/"),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		redirectURI:  cfg.RedirectURI,
		botToken:     cfg.BotToken,
		http:         &http.Client{Timeout: cfg.Timeout},
	}
}

// AuthorizeURL builds the authorization endpoint redirect target for the
// identify+guilds scope set.
func (c *Client) AuthorizeURL(state string) string {
	v := url.Values{}
	v.Set("client_id", c.clientID)
	v.Set("redirect_uri", c.redirectURI)
	v.Set("response_type", "code")
	v.Set("scope", "identify guilds")
	v.Set("state", state)
	return c.oauthBase + "/authorize?" + v.Encode()
}

// ExchangeCode trades an authorization code for an access token.
// Non-2xx responses are terminal; there are no retries.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", c.redirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.oauthBase+"/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var tr TokenResponse
	if err := c.do(req, "discord_token", &tr); err != nil {
		return nil, err
	}
	if tr.AccessToken == "" {
		return nil, fmt.Errorf("token endpoint returned no access_token")
	}
	return &tr, nil
}

// CurrentUser fetches /users/@me with the user's bearer token.
func (c *Client) CurrentUser(ctx context.Context, accessToken string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/users/@me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	var u User
	if err := c.do(req, "discord_user", &u); err != nil {
		return nil, err
	}
	if u.ID == "" {
		return nil, fmt.Errorf("user endpoint returned no id")
	}
	return &u, nil
}

// User fetches /users/{id} with bot-token authentication.
func (c *Client) User(ctx context.Context, id string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/users/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	if c.botToken != "" {
		req.Header.Set("Authorization", "Bot "+c.botToken)
	}

	var u User
	if err := c.do(req, "discord_user", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ApplicationRPC fetches the public application document for a bot id.
func (c *Client) ApplicationRPC(ctx context.Context, id string) (*ApplicationRPC, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/applications/"+url.PathEscape(id)+"/rpc", nil)
	if err != nil {
		return nil, err
	}

	var app ApplicationRPC
	if err := c.do(req, "discord_app", &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// AvatarURL returns the fully qualified CDN URL for a user avatar hash,
// or "" when the user has none.
func AvatarURL(userID, hash string) string {
	if hash == "" {
		return ""
	}
	return fmt.Sprintf("https://cdn.discordapp.com/avatars/%s/%s.png?size=128", userID, hash)
}

func (c *Client) do(req *http.Request, upstream string, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(upstream, "error").Inc()
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.UpstreamRequests.WithLabelValues(upstream, "non_2xx").Inc()
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("discord returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.UpstreamRequests.WithLabelValues(upstream, "bad_payload").Inc()
		return fmt.Errorf("decoding discord response: %w", err)
	}
	metrics.UpstreamRequests.WithLabelValues(upstream, "ok").Inc()
	return nil
}
