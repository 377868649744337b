package handler

import (
	"time"

	"peopleops/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// actorID returns the authenticated user's uuid, or nil when the route is
// unauthenticated or the claim is malformed. Audit rows tolerate a nil actor.
func actorID(c *gin.Context) *uuid.UUID {
	raw, ok := middleware.ActorID(c)
	if !ok {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

// parseDateQuery reads a YYYY-MM-DD query parameter, falling back to def
// when absent. The bool reports whether parsing succeeded.
func parseDateQuery(c *gin.Context, name string, def time.Time) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
