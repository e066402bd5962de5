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
	"github.com/BruksfildServices01/tenant-scheduler/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type GuestInput struct {
	Name  string `validate:"required,max=100"`
	Email string `validate:"required_without=Phone,omitempty,email,max=100"`
	Phone string `validate:"omitempty,max=20"`
}

type BookInput struct {
	TenantID   uuid.UUID `validate:"required"`
	EmployeeID uuid.UUID `validate:"required"`
	ServiceID  uuid.UUID `validate:"required"`

	CustomerID *uuid.UUID
	Guest      *GuestInput

	StartTime       time.Time `validate:"required"`
	Notes           string    `validate:"max=255"`
	CustomerMessage string    `validate:"max=500"`

	// ActorID is nil for anonymous public bookings.
	ActorID     *uuid.UUID
	AutoConfirm bool
}

func (in BookInput) validate() error {
	if err := validators.Struct(in); err != nil {
		return err
	}
	switch {
	case in.CustomerID == nil && in.Guest == nil:
		return httperr.Validation("missing_customer", "customer_id or guest contact is required")
	case in.CustomerID != nil && in.Guest != nil:
		return httperr.Validation("ambiguous_customer", "send either customer_id or guest, not both")
	case in.CustomerID != nil && *in.CustomerID == uuid.Nil:
		return httperr.Validation("invalid_customer_id", "customer_id must not be empty")
	}
	return nil
}

// ======================================================
// USE CASE
// ======================================================

type BookAppointment struct {
	Deps
	retry RetryPolicy
}

func NewBookAppointment(deps Deps, retry RetryPolicy) *BookAppointment {
	return &BookAppointment{Deps: deps, retry: retry}
}

// Execute validates and persists a new appointment. The working hours and
// conflict checks run under the employee lock together with the insert, so
// two overlapping bookings can never both commit.
func (uc *BookAppointment) Execute(
	ctx context.Context,
	in BookInput,
) (*models.Appointment, error) {

	if err := in.validate(); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Tenant, service and customer (outside the lock)
	// --------------------------------------------------
	tenant, err := uc.Repo.GetTenant(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}

	svc, err := uc.Repo.GetService(ctx, in.TenantID, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if !svc.Bookable() {
		return nil, httperr.Validation("service_inactive", "service is not bookable")
	}

	if in.CustomerID != nil {
		if _, err := uc.Repo.GetCustomer(ctx, in.TenantID, *in.CustomerID); err != nil {
			return nil, err
		}
	}

	start := in.StartTime.In(timezone.Location(tenant.Timezone))
	end := start.Add(svc.Duration())

	ap := &models.Appointment{
		ID:              uuid.New(),
		TenantID:        tenant.ID,
		EmployeeID:      in.EmployeeID,
		ServiceID:       svc.ID,
		CustomerID:      in.CustomerID,
		StartTime:       start,
		EndTime:         end,
		Status:          string(domain.InitialStatus(in.AutoConfirm)),
		Notes:           in.Notes,
		CustomerMessage: in.CustomerMessage,
		CreatedBy:       in.ActorID,
		LastModifiedBy:  in.ActorID,
	}
	if in.Guest != nil {
		ap.IsGuestAppointment = true
		ap.Guest = models.GuestContact{Name: in.Guest.Name, Email: in.Guest.Email, Phone: in.Guest.Phone}
	}
	if ap.Status == string(domain.StatusConfirmed) {
		now := time.Now().UTC()
		ap.ConfirmedAt = &now
	}

	// --------------------------------------------------
	// Check-then-insert, retried on lost races
	// --------------------------------------------------
	err = uc.retry.run(ctx, uc.logger(), "book", func() error {
		return uc.Repo.WithEmployeeLock(ctx, tenant.ID, in.EmployeeID, func(tx domain.Repository) error {
			if err := admit(ctx, tx, tenant.ID, in.EmployeeID, svc.ID, start, end, uuid.Nil); err != nil {
				return err
			}
			return tx.InsertAppointment(ctx, ap)
		})
	})
	if err != nil {
		return nil, err
	}

	uc.invalidateDay(ctx, tenant, ap.EmployeeID, ap.StartTime)
	uc.dispatch(ap, audit.ActionAppointmentCreated, in.ActorID, map[string]any{
		"status":     ap.Status,
		"start_time": ap.StartTime,
		"end_time":   ap.EndTime,
		"guest":      ap.IsGuestAppointment,
	})

	return ap, nil
}

// admit runs the booking checks against the state visible to tx. exclude
// names an appointment that is being moved and must not conflict with
// itself.
func admit(
	ctx context.Context,
	tx domain.Repository,
	tenantID uuid.UUID,
	employeeID uuid.UUID,
	serviceID uuid.UUID,
	start time.Time,
	end time.Time,
	exclude uuid.UUID,
) error {

	emp, err := tx.GetEmployee(ctx, tenantID, employeeID)
	if err != nil {
		return err
	}
	if !emp.Bookable() {
		return httperr.Validation("employee_inactive", "employee is not taking appointments")
	}
	if !emp.OffersService(serviceID) {
		return httperr.Validation("service_not_offered", "employee does not offer this service")
	}

	cal, err := domain.NewCalendar(emp.WorkingHours)
	if err != nil {
		return err
	}
	if !cal.Fits(start, end) {
		return httperr.OutOfHours("outside_working_hours")
	}

	existing, err := tx.ListActiveForEmployee(ctx, tenantID, employeeID, start, end)
	if err != nil {
		return err
	}
	for i := range existing {
		other := &existing[i]
		if other.ID == exclude {
			continue
		}
		if domain.Overlaps(start, end, other.StartTime, other.EndTime) {
			return httperr.Conflict("time_conflict")
		}
	}
	return nil
}
