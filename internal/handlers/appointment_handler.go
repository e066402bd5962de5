package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/tenant-scheduler/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/tenant-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	book       *ucAppointment.BookAppointment
	confirm    *ucAppointment.ConfirmAppointment
	cancel     *ucAppointment.CancelAppointment
	reschedule *ucAppointment.RescheduleAppointment
	remove     *ucAppointment.DeleteAppointment
	list       *ucAppointment.ListAppointments
	history    *ucAppointment.GetAppointmentHistory
}

func NewAppointmentHandler(
	book *ucAppointment.BookAppointment,
	confirm *ucAppointment.ConfirmAppointment,
	cancel *ucAppointment.CancelAppointment,
	reschedule *ucAppointment.RescheduleAppointment,
	remove *ucAppointment.DeleteAppointment,
	list *ucAppointment.ListAppointments,
	history *ucAppointment.GetAppointmentHistory,
) *AppointmentHandler {
	return &AppointmentHandler{
		book:       book,
		confirm:    confirm,
		cancel:     cancel,
		reschedule: reschedule,
		remove:     remove,
		list:       list,
		history:    history,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type GuestRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (g *GuestRequest) input() *ucAppointment.GuestInput {
	if g == nil {
		return nil
	}
	return &ucAppointment.GuestInput{Name: g.Name, Email: g.Email, Phone: g.Phone}
}

type CreateAppointmentRequest struct {
	EmployeeID      uuid.UUID     `json:"employee_id" binding:"required"`
	ServiceID       uuid.UUID     `json:"service_id" binding:"required"`
	CustomerID      *uuid.UUID    `json:"customer_id"`
	Guest           *GuestRequest `json:"guest"`
	StartTime       time.Time     `json:"start_time" binding:"required"`
	Notes           string        `json:"notes"`
	CustomerMessage string        `json:"customer_message"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason" binding:"max=255"`
}

type RescheduleAppointmentRequest struct {
	StartTime time.Time `json:"start_time" binding:"required"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	auth := middleware.Auth(c)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.book.Execute(c.Request.Context(), ucAppointment.BookInput{
		TenantID:        auth.TenantID,
		EmployeeID:      req.EmployeeID,
		ServiceID:       req.ServiceID,
		CustomerID:      req.CustomerID,
		Guest:           req.Guest.input(),
		StartTime:       req.StartTime,
		Notes:           req.Notes,
		CustomerMessage: req.CustomerMessage,
		ActorID:         &auth.UserID,
		AutoConfirm:     auth.CanAutoConfirm(),
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// STATE CHANGES
// ======================================================

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	ap, err := h.confirm.Execute(c.Request.Context(), middleware.Auth(c).TenantID, id, actorOf(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req CancelAppointmentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.BadRequest(c, "invalid_request", "Invalid request body.")
			return
		}
	}

	ap, err := h.cancel.Execute(c.Request.Context(), middleware.Auth(c).TenantID, id, req.Reason, actorOf(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req RescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.reschedule.Execute(c.Request.Context(), middleware.Auth(c).TenantID, id, req.StartTime, actorOf(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	auth := middleware.Auth(c)
	if err := h.remove.Execute(c.Request.Context(), auth.TenantID, id, auth.UserID); err != nil {
		httperr.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ======================================================
// QUERIES
// ======================================================

// GET /api/appointments?employee_id=...&date=YYYY-MM-DD
func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	employeeID, ok := uuidQuery(c, "employee_id")
	if !ok {
		return
	}
	date, ok := dateQuery(c, "date")
	if !ok {
		return
	}

	items, err := h.list.ByDate(c.Request.Context(), middleware.Auth(c).TenantID, employeeID, date)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, items)
}

// GET /api/appointments/month?employee_id=...&year=2026&month=3
func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	employeeID, ok := uuidQuery(c, "employee_id")
	if !ok {
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 1 {
		httperr.BadRequest(c, "invalid_year", "Invalid year.")
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Invalid month.")
		return
	}

	items, err := h.list.ByMonth(c.Request.Context(), middleware.Auth(c).TenantID, employeeID, year, time.Month(month))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, items)
}

func (h *AppointmentHandler) History(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	logs, err := h.history.Execute(c.Request.Context(), middleware.Auth(c).TenantID, id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, logs)
}
