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

type ConfirmAppointment struct {
	Deps
}

func NewConfirmAppointment(deps Deps) *ConfirmAppointment {
	return &ConfirmAppointment{Deps: deps}
}

// Execute confirms a pending appointment. Confirming twice succeeds without
// a second event.
func (uc *ConfirmAppointment) Execute(
	ctx context.Context,
	tenantID uuid.UUID,
	appointmentID uuid.UUID,
	actor *uuid.UUID,
) (*models.Appointment, error) {

	ap, err := uc.Repo.GetAppointment(ctx, tenantID, appointmentID)
	if err != nil {
		return nil, err
	}

	changed, err := domain.Confirm(ap, actor, time.Now().UTC())
	if err != nil || !changed {
		return ap, err
	}

	if err := uc.Repo.UpdateStatus(ctx, ap, domain.StatusPending); err != nil {
		if !httperr.IsKind(err, httperr.KindInvalidTransition) {
			return nil, err
		}
		// Lost the race: somebody else moved the row first.
		fresh, ferr := uc.Repo.GetAppointment(ctx, tenantID, appointmentID)
		if ferr != nil {
			return nil, ferr
		}
		if domain.Status(fresh.Status) == domain.StatusConfirmed {
			return fresh, nil
		}
		return nil, err
	}

	uc.dispatch(ap, audit.ActionAppointmentConfirmed, actor, nil)
	return ap, nil
}
