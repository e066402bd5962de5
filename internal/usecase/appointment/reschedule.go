package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/tenant-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
	"github.com/BruksfildServices01/tenant-scheduler/internal/timezone"
)

type RescheduleAppointment struct {
	Deps
	retry RetryPolicy
}

func NewRescheduleAppointment(deps Deps, retry RetryPolicy) *RescheduleAppointment {
	return &RescheduleAppointment{Deps: deps, retry: retry}
}

// Execute moves an active appointment to newStart, keeping its service
// duration. The booking checks are replayed under the employee lock with
// the appointment itself excluded from the conflict set.
func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	tenantID uuid.UUID,
	appointmentID uuid.UUID,
	newStart time.Time,
	actor *uuid.UUID,
) (*models.Appointment, error) {

	tenant, err := uc.Repo.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	ap, err := uc.Repo.GetAppointment(ctx, tenantID, appointmentID)
	if err != nil {
		return nil, err
	}
	if err := domain.CanReschedule(domain.Status(ap.Status)); err != nil {
		return nil, err
	}

	svc, err := uc.Repo.GetService(ctx, tenantID, ap.ServiceID)
	if err != nil {
		return nil, err
	}

	start := newStart.In(timezone.Location(tenant.Timezone))
	end := start.Add(svc.Duration())
	oldStart := ap.StartTime

	var moved *models.Appointment
	err = uc.retry.run(ctx, uc.logger(), "reschedule", func() error {
		return uc.Repo.WithEmployeeLock(ctx, tenantID, ap.EmployeeID, func(tx domain.Repository) error {
			// Status changes do not take the employee lock, so the move is
			// conditional on the status read here. A confirm landing in
			// between earns one more pass; a cancel or delete fails it.
			for attempt := 0; attempt < 2; attempt++ {
				cur, err := tx.GetAppointment(ctx, tenantID, appointmentID)
				if err != nil {
					return err
				}
				if err := domain.CanReschedule(domain.Status(cur.Status)); err != nil {
					return err
				}
				if err := admit(ctx, tx, tenantID, cur.EmployeeID, cur.ServiceID, start, end, cur.ID); err != nil {
					return err
				}

				cur.StartTime = start
				cur.EndTime = end
				cur.Touch(actor, time.Now().UTC())
				err = tx.MoveAppointment(ctx, cur, domain.Status(cur.Status))
				if httperr.IsKind(err, httperr.KindInvalidTransition) {
					continue
				}
				if err != nil {
					return err
				}
				moved = cur
				return nil
			}
			return httperr.InvalidTransition("invalid_state")
		})
	})
	if err != nil {
		return nil, err
	}

	uc.invalidateDay(ctx, tenant, moved.EmployeeID, oldStart)
	uc.invalidateDay(ctx, tenant, moved.EmployeeID, moved.StartTime)
	uc.dispatch(moved, audit.ActionAppointmentRescheduled, actor, map[string]time.Time{
		"from": oldStart,
		"to":   moved.StartTime,
	})

	return moved, nil
}
