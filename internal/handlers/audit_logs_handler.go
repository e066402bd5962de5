package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/tenant-scheduler/internal/middleware"
	"github.com/BruksfildServices01/tenant-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/tenant-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	search *ucAppointment.SearchAuditLogs
}

func NewAuditLogsHandler(search *ucAppointment.SearchAuditLogs) *AuditLogsHandler {
	return &AuditLogsHandler{search: search}
}

// GET /api/audit-logs?action=&entity=&from=YYYY-MM-DD&to=YYYY-MM-DD&page=&limit=
func (h *AuditLogsHandler) List(c *gin.Context) {
	q := domain.AuditQuery{
		TenantID: middleware.Auth(c).TenantID,
		Action:   c.Query("action"),
		Entity:   c.Query("entity"),
	}

	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	q.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))

	// Dates are UTC days; "to" is inclusive.
	if fromStr := c.Query("from"); fromStr != "" {
		if from, err := timezone.ParseDate(fromStr, time.UTC); err == nil {
			q.From = from
		}
	}
	if toStr := c.Query("to"); toStr != "" {
		if to, err := timezone.ParseDate(toStr, time.UTC); err == nil {
			q.To = to.AddDate(0, 0, 1)
		}
	}

	logs, total, q, err := h.search.Execute(c.Request.Context(), q)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Page(c, logs, q.Page, q.Limit, total)
}
