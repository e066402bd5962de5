package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/tenant-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

type CancelAppointment struct {
	Deps
}

func NewCancelAppointment(deps Deps) *CancelAppointment {
	return &CancelAppointment{Deps: deps}
}

// Execute cancels an appointment and frees its interval. Canceling an
// already canceled appointment returns it unchanged.
func (uc *CancelAppointment) Execute(
	ctx context.Context,
	tenantID uuid.UUID,
	appointmentID uuid.UUID,
	reason string,
	actor *uuid.UUID,
) (*models.Appointment, error) {

	tenant, err := uc.Repo.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	// A concurrent confirm may move the row between load and write; one
	// reload is enough because canceled is terminal.
	for attempt := 0; attempt < 2; attempt++ {
		ap, err := uc.Repo.GetAppointment(ctx, tenantID, appointmentID)
		if err != nil {
			return nil, err
		}

		from := domain.Status(ap.Status)
		changed, err := domain.Cancel(ap, reason, actor, time.Now().UTC())
		if err != nil || !changed {
			return ap, err
		}

		err = uc.Repo.UpdateStatus(ctx, ap, from)
		if httperr.IsKind(err, httperr.KindInvalidTransition) {
			continue
		}
		if err != nil {
			return nil, err
		}

		uc.invalidateDay(ctx, tenant, ap.EmployeeID, ap.StartTime)
		uc.dispatch(ap, audit.ActionAppointmentCanceled, actor, map[string]string{
			"reason": reason,
			"from":   string(from),
		})
		return ap, nil
	}

	return nil, httperr.InvalidTransition("invalid_state")
}
