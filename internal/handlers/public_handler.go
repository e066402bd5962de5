package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
	"github.com/BruksfildServices01/tenant-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/tenant-scheduler/internal/usecase/appointment"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// PublicHandler serves the anonymous booking page API. The tenant comes from
// the URL slug instead of a token.
type PublicHandler struct {
	repo         domain.Repository
	availability *ucAppointment.GetAvailability
	book         *ucAppointment.BookAppointment
}

func NewPublicHandler(
	repo domain.Repository,
	availability *ucAppointment.GetAvailability,
	book *ucAppointment.BookAppointment,
) *PublicHandler {
	return &PublicHandler{
		repo:         repo,
		availability: availability,
		book:         book,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateAppointmentRequest struct {
	EmployeeID      uuid.UUID `json:"employee_id" binding:"required"`
	ServiceID       uuid.UUID `json:"service_id" binding:"required"`
	GuestName       string    `json:"guest_name"`
	GuestEmail      string    `json:"guest_email"`
	GuestPhone      string    `json:"guest_phone"`
	Date            string    `json:"date" binding:"required"` // YYYY-MM-DD
	Time            string    `json:"time" binding:"required"` // HH:mm
	CustomerMessage string    `json:"customer_message"`
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	tenant, ok := h.tenant(c)
	if !ok {
		return
	}

	in, ok := availabilityInput(c)
	if !ok {
		return
	}
	in.TenantID = tenant.ID

	slots, err := h.availability.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, slots)
}

////////////////////////////////////////////////////////
// CREATE
////////////////////////////////////////////////////////

// CreateAppointment books as a guest. Public bookings always start pending.
func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	tenant, ok := h.tenant(c)
	if !ok {
		return
	}

	var req PublicCreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	start, err := parseDateTimeIn(timezone.Location(tenant.Timezone), req.Date, req.Time)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid date or time.")
		return
	}

	ap, err := h.book.Execute(c.Request.Context(), ucAppointment.BookInput{
		TenantID:   tenant.ID,
		EmployeeID: req.EmployeeID,
		ServiceID:  req.ServiceID,
		Guest: &ucAppointment.GuestInput{
			Name:  req.GuestName,
			Email: req.GuestEmail,
			Phone: req.GuestPhone,
		},
		StartTime:       start,
		CustomerMessage: req.CustomerMessage,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":         ap.ID,
		"status":     ap.Status,
		"start_time": ap.StartTime,
		"end_time":   ap.EndTime,
	})
}

func (h *PublicHandler) tenant(c *gin.Context) (*models.Tenant, bool) {
	tenant, err := h.repo.GetTenantBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		httperr.FromError(c, err)
		return nil, false
	}
	return tenant, true
}
