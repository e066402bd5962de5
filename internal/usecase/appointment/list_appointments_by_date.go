package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/tenant-scheduler/internal/dto"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
	"github.com/BruksfildServices01/tenant-scheduler/internal/timezone"
)

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(
	repo domain.Repository,
) *ListAppointments {
	return &ListAppointments{
		repo: repo,
	}
}

// ByDate lists the employee's appointments starting on date (tenant
// timezone), every status included.
func (uc *ListAppointments) ByDate(
	ctx context.Context,
	tenantID uuid.UUID,
	employeeID uuid.UUID,
	date time.Time,
) ([]dto.AppointmentListDTO, error) {

	tenant, err := uc.repo.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	start := timezone.StartOfDay(date, timezone.Location(tenant.Timezone))
	return uc.period(ctx, tenantID, employeeID, start, start.AddDate(0, 0, 1))
}

func (uc *ListAppointments) ByMonth(
	ctx context.Context,
	tenantID uuid.UUID,
	employeeID uuid.UUID,
	year int,
	month time.Month,
) ([]dto.AppointmentListDTO, error) {

	tenant, err := uc.repo.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	start := time.Date(year, month, 1, 0, 0, 0, 0, timezone.Location(tenant.Timezone))
	return uc.period(ctx, tenantID, employeeID, start, start.AddDate(0, 1, 0))
}

func (uc *ListAppointments) period(
	ctx context.Context,
	tenantID uuid.UUID,
	employeeID uuid.UUID,
	start time.Time,
	end time.Time,
) ([]dto.AppointmentListDTO, error) {

	if _, err := uc.repo.GetEmployee(ctx, tenantID, employeeID); err != nil {
		return nil, err
	}

	appointments, err := uc.repo.ListForEmployee(ctx, tenantID, employeeID, start, end)
	if err != nil {
		return nil, err
	}

	loc := start.Location()
	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for i := range appointments {
		out = append(out, toListDTO(&appointments[i], loc))
	}
	return out, nil
}

func toListDTO(ap *models.Appointment, loc *time.Location) dto.AppointmentListDTO {
	return dto.AppointmentListDTO{
		ID:         ap.ID,
		EmployeeID: ap.EmployeeID,
		ServiceID:  ap.ServiceID,
		CustomerID: ap.CustomerID,
		GuestName:  ap.Guest.Name,
		IsGuest:    ap.IsGuestAppointment,
		StartTime:  ap.StartTime.In(loc),
		EndTime:    ap.EndTime.In(loc),
		Status:     ap.Status,
	}
}
