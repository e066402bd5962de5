package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/tenant-scheduler/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/tenant-scheduler/internal/usecase/appointment"
)

type AvailabilityHandler struct {
	availability *ucAppointment.GetAvailability
}

func NewAvailabilityHandler(availability *ucAppointment.GetAvailability) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

type WindowResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// GET /api/availability?employee_id=...&service_id=...&date=YYYY-MM-DD
func (h *AvailabilityHandler) Slots(c *gin.Context) {
	in, ok := availabilityInput(c)
	if !ok {
		return
	}
	in.TenantID = middleware.Auth(c).TenantID

	slots, err := h.availability.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, slots)
}

// GET /api/availability/windows?employee_id=...&date=YYYY-MM-DD
func (h *AvailabilityHandler) Windows(c *gin.Context) {
	employeeID, ok := uuidQuery(c, "employee_id")
	if !ok {
		return
	}
	date, ok := dateQuery(c, "date")
	if !ok {
		return
	}

	windows, err := h.availability.FreeWindows(c.Request.Context(), middleware.Auth(c).TenantID, employeeID, date)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	out := make([]WindowResponse, 0, len(windows))
	for _, w := range windows {
		out = append(out, WindowResponse{Start: w.Start, End: w.End})
	}
	httpresp.List(c, out)
}

// availabilityInput reads the query shared by the private and public
// availability endpoints. TenantID is left for the caller.
func availabilityInput(c *gin.Context) (domain.AvailabilityInput, bool) {
	employeeID, ok := uuidQuery(c, "employee_id")
	if !ok {
		return domain.AvailabilityInput{}, false
	}
	serviceID, ok := uuidQuery(c, "service_id")
	if !ok {
		return domain.AvailabilityInput{}, false
	}
	date, ok := dateQuery(c, "date")
	if !ok {
		return domain.AvailabilityInput{}, false
	}
	return domain.AvailabilityInput{
		EmployeeID: employeeID,
		ServiceID:  serviceID,
		Date:       date,
	}, true
}
