package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/meubot/meubot-web/internal/backend"
	"github.com/meubot/meubot-web/internal/botinfo"
	"github.com/meubot/meubot-web/internal/cache"
	"github.com/meubot/meubot-web/internal/session"
	"github.com/meubot/meubot-web/pkg/logger"
	"github.com/meubot/meubot-web/pkg/middleware"
)

// StatsHandler serves the aggregated bot/user statistics endpoints.
// Bot info degrades to static defaults so the marketing page always renders;
// account data surfaces upstream failures as 502 and never fabricates values.
type StatsHandler struct {
	bot     *botinfo.Service
	backend *backend.Client
	codec   *session.Codec
	cache   *cache.Store
	cacheTTL time.Duration
}

func NewStatsHandler(bot *botinfo.Service, b *backend.Client, codec *session.Codec, store *cache.Store, cacheTTL time.Duration) *StatsHandler {
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}
	return &StatsHandler{bot: bot, backend: b, codec: codec, cache: store, cacheTTL: cacheTTL}
}

func (h *StatsHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/bot-info", h.BotInfo)
	rg.GET("/user-info", h.UserInfo)
	rg.GET("/user-finances", middleware.RequireSession(h.codec), h.UserFinances)
}

// BotInfo returns the aggregated bot document; always 200 once an id is given.
func (h *StatsHandler) BotInfo(c *gin.Context) {
	botID := c.Query("id")
	if botID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bot id is required"})
		return
	}
	if !validSnowflake(botID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bot id"})
		return
	}

	c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", int(h.cacheTTL.Seconds())))

	if info, ok := h.cache.GetBotInfo(c.Request.Context(), botID); ok {
		c.JSON(http.StatusOK, info)
		return
	}

	info := h.bot.Fetch(c.Request.Context(), botID)
	h.cache.PutBotInfo(c.Request.Context(), botID, info)
	c.JSON(http.StatusOK, info)
}

// UserInfo proxies the internal backend for a user id taken from the query
// string or, absent that, from the session cookies.
func (h *StatsHandler) UserInfo(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		s, ok := h.codec.Read(c.Request)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		userID = s.User.ID
	} else if !validSnowflake(userID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	fd, err := h.backend.UserData(c.Request.Context(), userID)
	if err != nil {
		h.writeBackendError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userId":      fd.UserID,
		"data":        fd.Raw,
		"money":       fd.Money,
		"bank":        fd.Bank,
		"lastUpdated": fd.LastUpdated.Format(time.RFC3339),
	})
}

// UserFinances is the session-only variant restricted to the caller's id.
func (h *StatsHandler) UserFinances(c *gin.Context) {
	s, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	fd, err := h.backend.UserData(c.Request.Context(), s.User.ID)
	if err != nil {
		h.writeBackendError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"money":       fd.Money,
		"bank":        fd.Bank,
		"userId":      fd.UserID,
		"lastUpdated": fd.LastUpdated.Format(time.RFC3339),
	})
}

func (h *StatsHandler) writeBackendError(c *gin.Context, err error) {
	var ue *backend.UpstreamError
	switch {
	case errors.Is(err, backend.ErrNotConfigured):
		logger.Errorf("backend api not configured")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "api configuration missing"})
	case errors.As(err, &ue):
		logger.Errorf("backend call failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch user data"})
	default:
		logger.Errorf("unexpected backend error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch user data"})
	}
}

// validSnowflake accepts Discord snowflake ids (numeric, up to 20 digits).
func validSnowflake(id string) bool {
	if len(id) == 0 || len(id) > 20 {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
