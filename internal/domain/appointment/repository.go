package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

// ErrConcurrentWrite is returned by a store when a write lost a race with
// another transaction (serialization failure, exclusion or unique
// violation). Booking retries it; nothing else does.
var ErrConcurrentWrite = errors.New("concurrent write detected")

// AuditQuery filters the tenant audit trail. Zero fields do not filter.
type AuditQuery struct {
	TenantID uuid.UUID
	Action   string
	Entity   string
	From     time.Time
	To       time.Time
	Page     int
	Limit    int
}

type Repository interface {
	// -------- Tenant --------
	GetTenant(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Tenant, error)

	GetTenantBySlug(
		ctx context.Context,
		slug string,
	) (*models.Tenant, error)

	// -------- Employee / Service / Customer --------
	GetEmployee(
		ctx context.Context,
		tenantID uuid.UUID,
		employeeID uuid.UUID,
	) (*models.Employee, error)

	GetService(
		ctx context.Context,
		tenantID uuid.UUID,
		serviceID uuid.UUID,
	) (*models.Service, error)

	GetCustomer(
		ctx context.Context,
		tenantID uuid.UUID,
		customerID uuid.UUID,
	) (*models.Customer, error)

	SaveWorkingHours(
		ctx context.Context,
		tenantID uuid.UUID,
		employeeID uuid.UUID,
		rows []models.WorkingHours,
	) error

	// -------- Appointment (availability / conflict) --------

	// ListActiveForEmployee returns non-deleted Pending/Confirmed
	// appointments intersecting [from, to), ordered by start.
	ListActiveForEmployee(
		ctx context.Context,
		tenantID uuid.UUID,
		employeeID uuid.UUID,
		from time.Time,
		to time.Time,
	) ([]models.Appointment, error)

	// ListForEmployee returns every non-deleted appointment starting in
	// [from, to), whatever its status.
	ListForEmployee(
		ctx context.Context,
		tenantID uuid.UUID,
		employeeID uuid.UUID,
		from time.Time,
		to time.Time,
	) ([]models.Appointment, error)

	InsertAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointment (state change) --------
	GetAppointment(
		ctx context.Context,
		tenantID uuid.UUID,
		appointmentID uuid.UUID,
	) (*models.Appointment, error)

	// MoveAppointment persists ap's start, end and last-modified fields only
	// if the stored row is still active with status from. It fails with an
	// invalid transition when the status moved and with not found when the
	// row is gone.
	MoveAppointment(
		ctx context.Context,
		ap *models.Appointment,
		from Status,
	) error

	// SoftDeleteAppointment persists ap's deletion and last-modified fields
	// if the row is not deleted yet. Status is never written.
	SoftDeleteAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// UpdateStatus persists ap's status fields only if the stored status is
	// still from. It fails with an invalid transition otherwise.
	UpdateStatus(
		ctx context.Context,
		ap *models.Appointment,
		from Status,
	) error

	// -------- Audit --------
	ListAuditLogs(
		ctx context.Context,
		tenantID uuid.UUID,
		entityID uuid.UUID,
	) ([]models.AuditLog, error)

	// SearchAuditLogs returns one page of q, newest first, and the total
	// number of matching rows.
	SearchAuditLogs(
		ctx context.Context,
		q AuditQuery,
	) ([]models.AuditLog, int64, error)

	// -------- Atomic boundary --------

	// WithEmployeeLock runs fn with mutual exclusion on (tenantID,
	// employeeID). Everything fn does through the given Repository commits
	// or rolls back together.
	WithEmployeeLock(
		ctx context.Context,
		tenantID uuid.UUID,
		employeeID uuid.UUID,
		fn func(tx Repository) error,
	) error
}
