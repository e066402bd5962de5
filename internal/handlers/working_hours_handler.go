package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/tenant-scheduler/internal/middleware"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
	ucAppointment "github.com/BruksfildServices01/tenant-scheduler/internal/usecase/appointment"
)

type WorkingHoursHandler struct {
	hours *ucAppointment.WorkingHours
}

func NewWorkingHoursHandler(hours *ucAppointment.WorkingHours) *WorkingHoursHandler {
	return &WorkingHoursHandler{hours: hours}
}

type WorkingDayConfig struct {
	Weekday    *int   `json:"weekday" binding:"required,min=0,max=6"`
	Active     bool   `json:"active"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	BreakStart string `json:"break_start"`
	BreakEnd   string `json:"break_end"`
}

type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"required,dive"`
}

// GET /api/employees/:id/working-hours
func (h *WorkingHoursHandler) Get(c *gin.Context) {
	employeeID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	hours, err := h.hours.Get(c.Request.Context(), middleware.Auth(c).TenantID, employeeID)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, hours)
}

// PUT /api/employees/:id/working-hours replaces the whole week.
func (h *WorkingHoursHandler) Update(c *gin.Context) {
	employeeID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	rows := make([]models.WorkingHours, 0, len(req.Days))
	for _, d := range req.Days {
		rows = append(rows, models.WorkingHours{
			EmployeeID:   employeeID,
			Weekday:      *d.Weekday,
			IsWorkingDay: d.Active,
			StartTime:    d.StartTime,
			EndTime:      d.EndTime,
			BreakStart:   d.BreakStart,
			BreakEnd:     d.BreakEnd,
		})
	}

	saved, err := h.hours.Update(c.Request.Context(), middleware.Auth(c).TenantID, employeeID, rows, actorOf(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, saved)
}
