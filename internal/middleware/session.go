package middleware

import (
	"net/http"

	"reviewdeck/internal/session"

	"github.com/gin-gonic/gin"
)

const sessionContextKey = "session"

// Session loads the request's session from the signed cookie, creating and
// persisting an anonymous one when the cookie is missing, invalid, or
// expired. Every downstream handler can rely on a session being present.
func Session(store session.Store, codec *session.CookieCodec) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := loadSession(c, store, codec)
		if sess == nil {
			sess = session.New()
			if err := store.Save(c.Request.Context(), sess); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "session unavailable"})
				c.Abort()
				return
			}
			SetSessionCookie(c, codec, sess.ID)
		}

		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

func loadSession(c *gin.Context, store session.Store, codec *session.CookieCodec) *session.Session {
	cookie, err := c.Cookie(session.CookieName)
	if err != nil {
		return nil
	}
	sid, err := codec.Decode(cookie)
	if err != nil {
		return nil
	}
	sess, err := store.Get(c.Request.Context(), sid)
	if err != nil {
		return nil
	}
	return sess
}

// GetSession returns the session bound to this request by the middleware.
func GetSession(c *gin.Context) *session.Session {
	value, exists := c.Get(sessionContextKey)
	if !exists {
		return nil
	}
	sess, ok := value.(*session.Session)
	if !ok {
		return nil
	}
	return sess
}

// SetSession rebinds a (new) session to the request context, used after
// login rotates the session id.
func SetSession(c *gin.Context, sess *session.Session) {
	c.Set(sessionContextKey, sess)
}

// SetSessionCookie writes the signed session cookie. HttpOnly and SameSite
// Lax; Secure is left to the TLS terminator.
func SetSessionCookie(c *gin.Context, codec *session.CookieCodec, sessionID string) {
	value, err := codec.Encode(sessionID)
	if err != nil {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, value, codec.TTLSeconds(), "/", "", false, true)
}

// ClearSessionCookie expires the session cookie on logout.
func ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
}
