package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/photomap-backend-go/internal/session"
	"github.com/jengzang/photomap-backend-go/pkg/response"
)

// SessionCookie is the cookie carrying the session token for browser clients
const SessionCookie = "session"

const sessionKey = "viewerSession"

// Authenticator resolves session tokens
type Authenticator interface {
	Authenticate(token string) (*session.Session, error)
}

// SessionAuth requires a valid session token, taken from an
// "Authorization: Bearer" header or the session cookie.
func SessionAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token, _ = c.Cookie(SessionCookie)
		}
		if token == "" {
			response.Unauthorized(c, "Missing session token", nil)
			return
		}

		sess, err := auth.Authenticate(token)
		if err != nil {
			if errors.Is(err, session.ErrSessionNotFound) {
				response.Unauthorized(c, "Session expired", err)
				return
			}
			response.Unauthorized(c, "Invalid session token", err)
			return
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

// CurrentSession returns the session set by SessionAuth
func CurrentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*session.Session)
	return sess
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
