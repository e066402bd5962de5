package appointment

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

type GetAppointmentHistory struct {
	repo domain.Repository
}

func NewGetAppointmentHistory(repo domain.Repository) *GetAppointmentHistory {
	return &GetAppointmentHistory{repo: repo}
}

// Execute returns the audit trail of an appointment, oldest first. Deleted
// appointments keep their history.
func (uc *GetAppointmentHistory) Execute(
	ctx context.Context,
	tenantID uuid.UUID,
	appointmentID uuid.UUID,
) ([]models.AuditLog, error) {
	return uc.repo.ListAuditLogs(ctx, tenantID, appointmentID)
}

const (
	defaultAuditPageSize = 50
	maxAuditPageSize     = 200
)

type SearchAuditLogs struct {
	repo domain.Repository
}

func NewSearchAuditLogs(repo domain.Repository) *SearchAuditLogs {
	return &SearchAuditLogs{repo: repo}
}

// Execute clamps the paging of q and returns the matching page plus the
// total number of matches.
func (uc *SearchAuditLogs) Execute(
	ctx context.Context,
	q domain.AuditQuery,
) ([]models.AuditLog, int64, domain.AuditQuery, error) {

	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 || q.Limit > maxAuditPageSize {
		q.Limit = defaultAuditPageSize
	}

	logs, total, err := uc.repo.SearchAuditLogs(ctx, q)
	return logs, total, q, err
}
