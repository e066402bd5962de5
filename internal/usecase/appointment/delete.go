package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/tenant-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/appointment"
)

type DeleteAppointment struct {
	Deps
}

func NewDeleteAppointment(deps Deps) *DeleteAppointment {
	return &DeleteAppointment{Deps: deps}
}

// Execute soft-deletes the appointment whatever its status. It disappears
// from listings and no longer blocks its interval.
func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	tenantID uuid.UUID,
	appointmentID uuid.UUID,
	actor uuid.UUID,
) error {

	tenant, err := uc.Repo.GetTenant(ctx, tenantID)
	if err != nil {
		return err
	}

	ap, err := uc.Repo.GetAppointment(ctx, tenantID, appointmentID)
	if err != nil {
		return err
	}

	if !domain.SoftDelete(ap, actor, time.Now().UTC()) {
		return nil
	}
	// Only the deletion columns are written so a status change racing
	// with the delete survives on the row.
	if err := uc.Repo.SoftDeleteAppointment(ctx, ap); err != nil {
		return err
	}

	uc.invalidateDay(ctx, tenant, ap.EmployeeID, ap.StartTime)
	uc.dispatch(ap, audit.ActionAppointmentDeleted, &actor, map[string]string{
		"status": ap.Status,
	})
	return nil
}
