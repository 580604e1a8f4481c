package session

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/meubot/meubot-web/internal/discord"
)

const (
	TokenCookie = "discord_token"
	UserCookie  = "discord_user"
)

// Session is the browser-held authenticated state: the provider access token
// plus the serialized user profile. The server never stores it.
type Session struct {
	AccessToken string
	User        discord.User
}

// Codec writes and reads the session cookie pair. The two cookies are always
// set and cleared together; a missing or corrupt half means no session.
type Codec struct {
	Secure bool
	MaxAge time.Duration
}

func NewCodec(secure bool, maxAge time.Duration) *Codec {
	if maxAge <= 0 {
		maxAge = 7 * 24 * time.Hour
	}
	return &Codec{Secure: secure, MaxAge: maxAge}
}

// Write sets both session cookies on the response.
func (c *Codec) Write(w http.ResponseWriter, token string, user *discord.User) error {
	profile, err := json.Marshal(user)
	if err != nil {
		return err
	}
	maxAge := int(c.MaxAge.Seconds())
	http.SetCookie(w, c.cookie(TokenCookie, token, maxAge))
	// JSON is not valid cookie-octet material, so the profile travels
	// URL-encoded and is decoded again in Read.
	http.SetCookie(w, c.cookie(UserCookie, url.QueryEscape(string(profile)), maxAge))
	return nil
}

// Clear expires both session cookies.
func (c *Codec) Clear(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie(TokenCookie, "", -1))
	http.SetCookie(w, c.cookie(UserCookie, "", -1))
}

// Read decodes the session from the request. It returns ok=false when either
// cookie is missing or the user cookie does not parse as JSON; callers must
// treat that as the unauthenticated path, never as an error.
func (c *Codec) Read(r *http.Request) (*Session, bool) {
	tok, err := r.Cookie(TokenCookie)
	if err != nil || tok.Value == "" {
		return nil, false
	}
	usr, err := r.Cookie(UserCookie)
	if err != nil || usr.Value == "" {
		return nil, false
	}

	raw, err := url.QueryUnescape(usr.Value)
	if err != nil {
		return nil, false
	}
	var user discord.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, false
	}
	if user.ID == "" {
		return nil, false
	}
	return &Session{AccessToken: tok.Value, User: user}, true
}

func (c *Codec) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
