package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meubot/meubot-web/internal/config"
	"github.com/meubot/meubot-web/internal/discord"
	"github.com/meubot/meubot-web/internal/oauthstate"
	"github.com/meubot/meubot-web/internal/session"
	"github.com/meubot/meubot-web/pkg/logger"
)

const loginPath = "/auth/login-redirect?action=login"

// AuthHandler implements the Discord OAuth2 authorization-code flow and the
// cookie-backed session surface. All state lives in the browser cookies; a
// failed exchange redirects back to the login entry point with no detail.
type AuthHandler struct {
	cfg     *config.Config
	discord *discord.Client
	codec   *session.Codec
	state   *oauthstate.Issuer
}

func NewAuthHandler(cfg *config.Config, d *discord.Client, codec *session.Codec, state *oauthstate.Issuer) *AuthHandler {
	return &AuthHandler{cfg: cfg, discord: d, codec: codec, state: state}
}

// Register routes under /auth
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/auth")
	a.GET("/login-redirect", h.LoginRedirect)
	a.GET("/callback", h.Callback)
	a.GET("/me", h.Me)
}

// LoginRedirect handles ?action=login|logout with a 302 in both cases.
func (h *AuthHandler) LoginRedirect(c *gin.Context) {
	switch c.Query("action") {
	case "login":
		st, err := h.state.Issue()
		if err != nil {
			logger.Errorf("failed to issue oauth state: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login unavailable"})
			return
		}
		h.setStateCookie(c, st, 600)
		c.Redirect(http.StatusFound, h.discord.AuthorizeURL(st))
	case "logout":
		h.codec.Clear(c.Writer)
		h.setStateCookie(c, "", -1)
		c.Redirect(http.StatusFound, "/")
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid action"})
	}
}

// Callback exchanges the authorization code and materializes the session.
// Every failure path is a silent redirect back to login; failure is terminal
// for the request and nothing is retried.
func (h *AuthHandler) Callback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.Redirect(http.StatusFound, loginPath)
		return
	}

	stateCookie, _ := c.Cookie(oauthstate.CookieName)
	if err := h.state.Verify(c.Query("state"), stateCookie); err != nil {
		logger.Warnf("oauth callback rejected: %v", err)
		c.Redirect(http.StatusFound, loginPath)
		return
	}

	tok, err := h.discord.ExchangeCode(c.Request.Context(), code)
	if err != nil {
		logger.Errorf("token exchange failed: %v", err)
		c.Redirect(http.StatusFound, loginPath)
		return
	}

	user, err := h.discord.CurrentUser(c.Request.Context(), tok.AccessToken)
	if err != nil {
		logger.Errorf("current-user lookup failed: %v", err)
		c.Redirect(http.StatusFound, loginPath)
		return
	}

	if err := h.codec.Write(c.Writer, tok.AccessToken, user); err != nil {
		logger.Errorf("failed to write session cookies: %v", err)
		c.Redirect(http.StatusFound, loginPath)
		return
	}
	h.setStateCookie(c, "", -1)
	logger.Infof("user %s logged in", user.ID)
	c.Redirect(http.StatusFound, "/")
}

// Me reports the current session. It degrades to {"user": null} on any
// missing or corrupt cookie and never errors.
func (h *AuthHandler) Me(c *gin.Context) {
	s, ok := h.codec.Read(c.Request)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}

	var avatar *string
	if url := discord.AvatarURL(s.User.ID, s.User.Avatar); url != "" {
		avatar = &url
	}
	c.JSON(http.StatusOK, gin.H{"user": gin.H{
		"id":            s.User.ID,
		"username":      s.User.Username,
		"discriminator": s.User.Discriminator,
		"avatar":        avatar,
	}})
}

func (h *AuthHandler) setStateCookie(c *gin.Context, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     oauthstate.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}
