package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// subjectKey is the context key JWTAuth stores the token subject under.
const subjectKey = "user_id"

// Subject returns the authenticated caller, if JWTAuth ran and accepted a
// token.
func Subject(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(subjectKey).(uuid.UUID)
	return id, ok
}

// callerKey identifies the caller for rate limiting: the token subject
// when present, otherwise "anon".
func callerKey(c echo.Context) string {
	if id, ok := Subject(c); ok {
		return id.String()
	}
	return "anon"
}
