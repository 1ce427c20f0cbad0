package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/researchdesk-backend/internal/http/response"
	"github.com/yungbote/researchdesk-backend/internal/pkg/logger"
	"github.com/yungbote/researchdesk-backend/internal/services"
)

const (
	sessionCookie     = "rd_session"
	sessionContextKey = "session_id"

	sessionCookieMaxAge = 24 * 60 * 60
)

// Session resolves the caller's session from a cookie, creating a fresh
// session (and cookie) when none exists or the cookie is unparseable.
func Session(sessions services.SessionService, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sid uuid.UUID
		if raw, err := c.Cookie(sessionCookie); err == nil {
			sid, _ = uuid.Parse(raw)
		}

		if sid == uuid.Nil {
			created, err := sessions.Create(c.Request.Context())
			if err != nil {
				log.Error("Failed to create session", "error", err)
				response.RespondError(c, http.StatusInternalServerError, "session_create_failed", fmt.Errorf("could not create session"))
				c.Abort()
				return
			}
			sid = created
			SetSessionCookie(c, sid)
		}

		c.Set(sessionContextKey, sid)
		c.Next()
	}
}

// SetSessionCookie writes the session cookie. Also used when /new-chat
// rotates the session id mid-request.
func SetSessionCookie(c *gin.Context, sid uuid.UUID) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, sid.String(), sessionCookieMaxAge, "/", "", false, true)
}

// SessionID returns the session resolved by the Session middleware.
func SessionID(c *gin.Context) uuid.UUID {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return uuid.Nil
	}
	sid, ok := v.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return sid
}

// SessionIDFromContext is the string form for logging.
func SessionIDFromContext(c *gin.Context) string {
	sid := SessionID(c)
	if sid == uuid.Nil {
		return ""
	}
	return sid.String()
}
