package appointment

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/tenant-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

type WorkingHours struct {
	Deps
}

func NewWorkingHours(deps Deps) *WorkingHours {
	return &WorkingHours{Deps: deps}
}

func (uc *WorkingHours) Get(
	ctx context.Context,
	tenantID uuid.UUID,
	employeeID uuid.UUID,
) ([]models.WorkingHours, error) {

	emp, err := uc.Repo.GetEmployee(ctx, tenantID, employeeID)
	if err != nil {
		return nil, err
	}
	return emp.WorkingHours, nil
}

// Update replaces the employee's weekly calendar. The write takes the
// employee lock so no booking is admitted against half-saved hours.
// Existing appointments are kept even if they fall outside the new hours.
func (uc *WorkingHours) Update(
	ctx context.Context,
	tenantID uuid.UUID,
	employeeID uuid.UUID,
	rows []models.WorkingHours,
	actor *uuid.UUID,
) ([]models.WorkingHours, error) {

	if _, err := domain.NewCalendar(rows); err != nil {
		return nil, err
	}
	// Unknown ids never reach the lock table.
	if _, err := uc.Repo.GetEmployee(ctx, tenantID, employeeID); err != nil {
		return nil, err
	}

	err := uc.Repo.WithEmployeeLock(ctx, tenantID, employeeID, func(tx domain.Repository) error {
		return tx.SaveWorkingHours(ctx, tenantID, employeeID, rows)
	})
	if err != nil {
		return nil, err
	}

	if uc.Cache != nil {
		if err := uc.Cache.InvalidateEmployee(ctx, tenantID, employeeID); err != nil {
			uc.logger().Warn("availability cache invalidation failed",
				zap.Stringer("employee_id", employeeID),
				zap.Error(err),
			)
		}
	}

	if uc.Audit != nil {
		id := employeeID
		uc.Audit.Dispatch(audit.Event{
			TenantID:   tenantID,
			ActorID:    actor,
			Action:     audit.ActionWorkingHoursUpdated,
			Entity:     "employee",
			EntityID:   &id,
			EmployeeID: employeeID,
			Metadata:   rows,
		})
	}

	return uc.Get(ctx, tenantID, employeeID)
}
