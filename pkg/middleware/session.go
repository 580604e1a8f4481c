package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meubot/meubot-web/internal/session"
)

// SessionKey is the gin context key holding the decoded *session.Session.
const SessionKey = "session"

// RequireSession aborts with 401 unless the request carries a decodable
// session cookie pair. A corrupt cookie is treated as unauthenticated,
// never as a server error.
func RequireSession(codec *session.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := codec.Read(c.Request)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Set(SessionKey, s)
		c.Next()
	}
}

// SessionFrom returns the session stored by RequireSession, when present.
func SessionFrom(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*session.Session)
	return s, ok
}
