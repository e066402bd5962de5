package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tenant-scheduler/internal/middleware"
	"github.com/BruksfildServices01/tenant-scheduler/internal/timezone"
)

const dateTimeLayout = timezone.DateLayout + " 15:04"

// parseDateTimeIn reads a "YYYY-MM-DD" date and an "HH:MM" time as wall
// clock time in loc.
func parseDateTimeIn(loc *time.Location, dateStr, timeStr string) (time.Time, error) {
	return time.ParseInLocation(dateTimeLayout, dateStr+" "+timeStr, loc)
}

// dateQuery reads a calendar date. Only its year, month and day are used;
// use cases place it in the tenant timezone.
func dateQuery(c *gin.Context, name string) (time.Time, bool) {
	d, err := timezone.ParseDate(c.Query(name), time.UTC)
	if err != nil {
		httperr.BadRequest(c, "invalid_"+name, "Expected "+name+" as YYYY-MM-DD.")
		return time.Time{}, false
	}
	return d, true
}

func uuidQuery(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Query(name))
	if err != nil {
		httperr.BadRequest(c, "invalid_"+name, name+" must be a UUID.")
		return uuid.Nil, false
	}
	return id, true
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Path id must be a UUID.")
		return uuid.Nil, false
	}
	return id, true
}

// actorOf returns the authenticated user as the actor of a change.
func actorOf(c *gin.Context) *uuid.UUID {
	id := middleware.Auth(c).UserID
	return &id
}
