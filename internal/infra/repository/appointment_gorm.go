package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

// SQLSTATE codes that mean the write lost a race and may be retried.
var concurrentWriteCodes = map[string]bool{
	"40001": true, // serialization_failure
	"40P01": true, // deadlock_detected
	"23P01": true, // exclusion_violation (appointments_no_overlap)
	"23505": true, // unique_violation
}

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// classify turns driver errors into the error vocabulary of the domain.
func classify(err error, notFoundCode string) error {
	if err == nil {
		return nil
	}
	if _, ok := httperr.AsBusiness(err); ok {
		return err
	}
	if errors.Is(err, domain.ErrConcurrentWrite) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.NotFoundErr(notFoundCode)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && concurrentWriteCodes[pgErr.Code] {
		return fmt.Errorf("%w: %s", domain.ErrConcurrentWrite, pgErr.Code)
	}
	return fmt.Errorf("%w: %w", httperr.ErrUnavailable, err)
}

// --------------------------------------------------
// Tenant
// --------------------------------------------------

func (r *AppointmentGormRepository) GetTenant(
	ctx context.Context,
	id uuid.UUID,
) (*models.Tenant, error) {

	var tenant models.Tenant
	if err := r.db.WithContext(ctx).First(&tenant, "id = ?", id).Error; err != nil {
		return nil, classify(err, "tenant_not_found")
	}
	return &tenant, nil
}

func (r *AppointmentGormRepository) GetTenantBySlug(
	ctx context.Context,
	slug string,
) (*models.Tenant, error) {

	var tenant models.Tenant
	if err := r.db.WithContext(ctx).
		Where("LOWER(slug) = LOWER(?)", slug).
		First(&tenant).Error; err != nil {
		return nil, classify(err, "tenant_not_found")
	}
	return &tenant, nil
}

// --------------------------------------------------
// Employee / Service / Customer
// --------------------------------------------------

func (r *AppointmentGormRepository) GetEmployee(
	ctx context.Context,
	tenantID uuid.UUID,
	employeeID uuid.UUID,
) (*models.Employee, error) {

	var emp models.Employee
	if err := r.db.WithContext(ctx).
		Preload("WorkingHours", func(db *gorm.DB) *gorm.DB {
			return db.Order("weekday ASC")
		}).
		Preload("Services", "deletion IS NULL").
		Where("id = ? AND tenant_id = ? AND deletion IS NULL", employeeID, tenantID).
		First(&emp).Error; err != nil {
		return nil, classify(err, "employee_not_found")
	}
	return &emp, nil
}

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	tenantID uuid.UUID,
	serviceID uuid.UUID,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ? AND deletion IS NULL", serviceID, tenantID).
		First(&svc).Error; err != nil {
		return nil, classify(err, "service_not_found")
	}
	return &svc, nil
}

func (r *AppointmentGormRepository) GetCustomer(
	ctx context.Context,
	tenantID uuid.UUID,
	customerID uuid.UUID,
) (*models.Customer, error) {

	var customer models.Customer
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ? AND deletion IS NULL", customerID, tenantID).
		First(&customer).Error; err != nil {
		return nil, classify(err, "customer_not_found")
	}
	return &customer, nil
}

// SaveWorkingHours replaces the whole weekly calendar of an employee.
func (r *AppointmentGormRepository) SaveWorkingHours(
	ctx context.Context,
	tenantID uuid.UUID,
	employeeID uuid.UUID,
	rows []models.WorkingHours,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Employee{}).
			Where("id = ? AND tenant_id = ? AND deletion IS NULL", employeeID, tenantID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return httperr.NotFoundErr("employee_not_found")
		}

		if err := tx.Where("employee_id = ?", employeeID).
			Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}

		for i := range rows {
			rows[i].ID = uuid.Nil
			rows[i].EmployeeID = employeeID
		}
		return tx.Create(&rows).Error
	})
	return classify(err, "employee_not_found")
}

// --------------------------------------------------
// Appointment (availability / conflict)
// --------------------------------------------------

func (r *AppointmentGormRepository) ListActiveForEmployee(
	ctx context.Context,
	tenantID uuid.UUID,
	employeeID uuid.UUID,
	from time.Time,
	to time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where(
			"tenant_id = ? AND employee_id = ? AND status IN ? AND deletion IS NULL AND start_time < ? AND end_time > ?",
			tenantID, employeeID, activeStatusValues(), to, from,
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, classify(err, "appointment_not_found")
	}
	return apps, nil
}

func (r *AppointmentGormRepository) ListForEmployee(
	ctx context.Context,
	tenantID uuid.UUID,
	employeeID uuid.UUID,
	from time.Time,
	to time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where(
			"tenant_id = ? AND employee_id = ? AND deletion IS NULL AND start_time >= ? AND start_time < ?",
			tenantID, employeeID, from, to,
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, classify(err, "appointment_not_found")
	}
	return apps, nil
}

func (r *AppointmentGormRepository) InsertAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return classify(r.db.WithContext(ctx).Create(ap).Error, "appointment_not_found")
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	tenantID uuid.UUID,
	appointmentID uuid.UUID,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ? AND deletion IS NULL", appointmentID, tenantID).
		First(&ap).Error; err != nil {
		return nil, classify(err, "appointment_not_found")
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) MoveAppointment(
	ctx context.Context,
	ap *models.Appointment,
	from domain.Status,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND tenant_id = ? AND status = ? AND deletion IS NULL", ap.ID, ap.TenantID, string(from)).
		Updates(map[string]any{
			"start_time":       ap.StartTime,
			"end_time":         ap.EndTime,
			"last_modified_at": ap.LastModifiedAt,
			"last_modified_by": ap.LastModifiedBy,
		})
	if res.Error != nil {
		return classify(res.Error, "appointment_not_found")
	}
	if res.RowsAffected == 0 {
		return r.missedWrite(ctx, ap)
	}
	return nil
}

func (r *AppointmentGormRepository) SoftDeleteAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND tenant_id = ? AND deletion IS NULL", ap.ID, ap.TenantID).
		Updates(map[string]any{
			"deletion":         ap.Deletion,
			"last_modified_at": ap.LastModifiedAt,
			"last_modified_by": ap.LastModifiedBy,
		})
	if res.Error != nil {
		return classify(res.Error, "appointment_not_found")
	}
	if res.RowsAffected == 0 {
		return httperr.NotFoundErr("appointment_not_found")
	}
	return nil
}

// missedWrite explains a conditional write that matched no row.
func (r *AppointmentGormRepository) missedWrite(ctx context.Context, ap *models.Appointment) error {
	if _, err := r.GetAppointment(ctx, ap.TenantID, ap.ID); err != nil {
		return err
	}
	return httperr.InvalidTransition("invalid_state")
}

func (r *AppointmentGormRepository) UpdateStatus(
	ctx context.Context,
	ap *models.Appointment,
	from domain.Status,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND tenant_id = ? AND status = ? AND deletion IS NULL", ap.ID, ap.TenantID, string(from)).
		Updates(map[string]any{
			"status":           ap.Status,
			"confirmed_at":     ap.ConfirmedAt,
			"canceled_at":      ap.CanceledAt,
			"cancel_reason":    ap.CancelReason,
			"last_modified_at": ap.LastModifiedAt,
			"last_modified_by": ap.LastModifiedBy,
		})
	if res.Error != nil {
		return classify(res.Error, "appointment_not_found")
	}
	if res.RowsAffected == 0 {
		return r.missedWrite(ctx, ap)
	}
	return nil
}

// --------------------------------------------------
// Audit
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAuditLog(
	ctx context.Context,
	entry *models.AuditLog,
) error {
	return classify(r.db.WithContext(ctx).Create(entry).Error, "audit_log_not_found")
}

func (r *AppointmentGormRepository) ListAuditLogs(
	ctx context.Context,
	tenantID uuid.UUID,
	entityID uuid.UUID,
) ([]models.AuditLog, error) {

	logs := []models.AuditLog{}
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND entity_id = ?", tenantID, entityID).
		Order("created_at ASC").
		Find(&logs).Error; err != nil {
		return nil, classify(err, "audit_log_not_found")
	}
	return logs, nil
}

func (r *AppointmentGormRepository) SearchAuditLogs(
	ctx context.Context,
	q domain.AuditQuery,
) ([]models.AuditLog, int64, error) {

	query := r.db.WithContext(ctx).
		Model(&models.AuditLog{}).
		Where("tenant_id = ?", q.TenantID)

	if q.Action != "" {
		query = query.Where("action = ?", q.Action)
	}
	if q.Entity != "" {
		query = query.Where("entity = ?", q.Entity)
	}
	if !q.From.IsZero() {
		query = query.Where("created_at >= ?", q.From)
	}
	if !q.To.IsZero() {
		query = query.Where("created_at < ?", q.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, classify(err, "audit_log_not_found")
	}

	logs := []models.AuditLog{}
	if err := query.
		Order("created_at DESC").
		Limit(q.Limit).
		Offset((q.Page - 1) * q.Limit).
		Find(&logs).Error; err != nil {
		return nil, 0, classify(err, "audit_log_not_found")
	}
	return logs, total, nil
}

// --------------------------------------------------
// Atomic boundary
// --------------------------------------------------

// WithEmployeeLock opens a transaction and takes a transaction-scoped
// advisory lock on the employee before running fn. The lock is released on
// commit or rollback.
func (r *AppointmentGormRepository) WithEmployeeLock(
	ctx context.Context,
	tenantID uuid.UUID,
	employeeID uuid.UUID,
	fn func(tx domain.Repository) error,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		key := tenantID.String() + ":" + employeeID.String()
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtextextended(?, 0))", key).Error; err != nil {
			return err
		}
		return fn(&AppointmentGormRepository{db: tx})
	})
	return classify(err, "appointment_not_found")
}

func activeStatusValues() []string {
	out := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		out[i] = string(s)
	}
	return out
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
