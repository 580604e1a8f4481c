package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meubot/meubot-web/internal/discord"
	"github.com/meubot/meubot-web/internal/session"
)

func TestRateLimitMiddleware_BlocksAfterBurst(t *testing.T) {
	codec := session.NewCodec(false, time.Hour)
	r := gin.New()
	r.Use(RateLimitMiddleware(codec, 0.0001, 1)) // effectively one request per bucket
	r.GET("/r", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	rq1 := httptest.NewRequest("GET", "/r", nil)
	rq1.RemoteAddr = "10.1.1.1:5000"
	w1 := httptest.NewRecorder()
	r.ServeHTTP(w1, rq1)
	require.Equal(t, http.StatusOK, w1.Code)

	rq2 := httptest.NewRequest("GET", "/r", nil)
	rq2.RemoteAddr = "10.1.1.1:5000"
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, rq2)
	assert.Equal(t, http.StatusTooManyRequests, w2.Code)
	assert.Equal(t, "1", w2.Header().Get("Retry-After"))
}

func TestRateLimitMiddleware_KeysBySessionUser(t *testing.T) {
	codec := session.NewCodec(false, time.Hour)
	r := gin.New()
	r.Use(RateLimitMiddleware(codec, 0.0001, 1))
	r.GET("/r", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	// exhaust the bucket for user A
	reqA := httptest.NewRequest("GET", "/r", nil)
	reqA.RemoteAddr = "10.2.2.2:5000"
	for _, ck := range sessionCookies(t, codec, &discord.User{ID: "user-a"}) {
		reqA.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, reqA)
	require.Equal(t, http.StatusOK, w.Code)

	// same IP, different user: separate bucket, still allowed
	reqB := httptest.NewRequest("GET", "/r", nil)
	reqB.RemoteAddr = "10.2.2.2:5000"
	for _, ck := range sessionCookies(t, codec, &discord.User{ID: "user-b"}) {
		reqB.AddCookie(ck)
	}
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, reqB)
	assert.Equal(t, http.StatusOK, w2.Code)
}
