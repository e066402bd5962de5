package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

// AppointmentMemoryRepository keeps everything in process memory. It backs
// local runs (STORE_DRIVER=memory) and tests, and enforces the same
// no-overlap rule the postgres exclusion constraint does.
type AppointmentMemoryRepository struct {
	mu           sync.RWMutex
	tenants      map[uuid.UUID]models.Tenant
	employees    map[uuid.UUID]models.Employee
	services     map[uuid.UUID]models.Service
	customers    map[uuid.UUID]models.Customer
	appointments map[uuid.UUID]models.Appointment
	auditLogs    []models.AuditLog

	locksMu sync.Mutex
	locks   map[string]*employeeLock
}

func NewAppointmentMemoryRepository() *AppointmentMemoryRepository {
	return &AppointmentMemoryRepository{
		tenants:      make(map[uuid.UUID]models.Tenant),
		employees:    make(map[uuid.UUID]models.Employee),
		services:     make(map[uuid.UUID]models.Service),
		customers:    make(map[uuid.UUID]models.Customer),
		appointments: make(map[uuid.UUID]models.Appointment),
		locks:        make(map[string]*employeeLock),
	}
}

// --------------------------------------------------
// Seeding
// --------------------------------------------------

func (r *AppointmentMemoryRepository) AddTenant(t models.Tenant) models.Tenant {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tenants[t.ID] = t
	return t
}

// AddEmployee stores e with its working hours and services.
func (r *AppointmentMemoryRepository) AddEmployee(e models.Employee) models.Employee {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	for i := range e.WorkingHours {
		e.WorkingHours[i].EmployeeID = e.ID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.employees[e.ID] = e
	return e
}

func (r *AppointmentMemoryRepository) AddService(s models.Service) models.Service {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.services[s.ID] = s
	return s
}

func (r *AppointmentMemoryRepository) AddCustomer(c models.Customer) models.Customer {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers[c.ID] = c
	return c
}

// --------------------------------------------------
// Tenant
// --------------------------------------------------

func (r *AppointmentMemoryRepository) GetTenant(_ context.Context, id uuid.UUID) (*models.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tenants[id]
	if !ok {
		return nil, httperr.NotFoundErr("tenant_not_found")
	}
	return &t, nil
}

func (r *AppointmentMemoryRepository) GetTenantBySlug(_ context.Context, slug string) (*models.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.tenants {
		if strings.EqualFold(t.Slug, slug) {
			return &t, nil
		}
	}
	return nil, httperr.NotFoundErr("tenant_not_found")
}

// --------------------------------------------------
// Employee / Service / Customer
// --------------------------------------------------

func (r *AppointmentMemoryRepository) GetEmployee(_ context.Context, tenantID, employeeID uuid.UUID) (*models.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.employees[employeeID]
	if !ok || e.TenantID != tenantID || e.Deletion.IsDeleted() {
		return nil, httperr.NotFoundErr("employee_not_found")
	}

	out := e
	out.WorkingHours = append([]models.WorkingHours(nil), e.WorkingHours...)
	sort.Slice(out.WorkingHours, func(i, j int) bool {
		return out.WorkingHours[i].Weekday < out.WorkingHours[j].Weekday
	})
	out.Services = out.Services[:0:0]
	for _, s := range e.Services {
		if cur, ok := r.services[s.ID]; ok && !cur.Deletion.IsDeleted() {
			out.Services = append(out.Services, cur)
		}
	}
	return &out, nil
}

func (r *AppointmentMemoryRepository) GetService(_ context.Context, tenantID, serviceID uuid.UUID) (*models.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.services[serviceID]
	if !ok || s.TenantID != tenantID || s.Deletion.IsDeleted() {
		return nil, httperr.NotFoundErr("service_not_found")
	}
	return &s, nil
}

func (r *AppointmentMemoryRepository) GetCustomer(_ context.Context, tenantID, customerID uuid.UUID) (*models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.customers[customerID]
	if !ok || c.TenantID != tenantID || c.Deletion.IsDeleted() {
		return nil, httperr.NotFoundErr("customer_not_found")
	}
	return &c, nil
}

func (r *AppointmentMemoryRepository) SaveWorkingHours(_ context.Context, tenantID, employeeID uuid.UUID, rows []models.WorkingHours) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.employees[employeeID]
	if !ok || e.TenantID != tenantID || e.Deletion.IsDeleted() {
		return httperr.NotFoundErr("employee_not_found")
	}
	now := time.Now().UTC()
	hours := make([]models.WorkingHours, len(rows))
	for i, row := range rows {
		row.ID = uuid.New()
		row.EmployeeID = employeeID
		row.CreatedAt, row.UpdatedAt = now, now
		hours[i] = row
	}
	e.WorkingHours = hours
	r.employees[employeeID] = e
	return nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentMemoryRepository) ListActiveForEmployee(_ context.Context, tenantID, employeeID uuid.UUID, from, to time.Time) ([]models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.TenantID != tenantID || ap.EmployeeID != employeeID || !domain.Blocking(&ap) {
			continue
		}
		if domain.Overlaps(ap.StartTime, ap.EndTime, from, to) {
			out = append(out, ap)
		}
	}
	sortByStart(out)
	return out, nil
}

func (r *AppointmentMemoryRepository) ListForEmployee(_ context.Context, tenantID, employeeID uuid.UUID, from, to time.Time) ([]models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.TenantID != tenantID || ap.EmployeeID != employeeID || ap.Deletion.IsDeleted() {
			continue
		}
		if !ap.StartTime.Before(from) && ap.StartTime.Before(to) {
			out = append(out, ap)
		}
	}
	sortByStart(out)
	return out, nil
}

func (r *AppointmentMemoryRepository) InsertAppointment(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ap.ID == uuid.Nil {
		ap.ID = uuid.New()
	}
	if _, exists := r.appointments[ap.ID]; exists {
		return domain.ErrConcurrentWrite
	}
	if r.violatesNoOverlap(ap) {
		return domain.ErrConcurrentWrite
	}
	now := time.Now().UTC()
	ap.CreatedAt = now
	ap.LastModifiedAt = now
	r.appointments[ap.ID] = *ap
	return nil
}

func (r *AppointmentMemoryRepository) GetAppointment(_ context.Context, tenantID, appointmentID uuid.UUID) (*models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ap, ok := r.appointments[appointmentID]
	if !ok || ap.TenantID != tenantID || ap.Deletion.IsDeleted() {
		return nil, httperr.NotFoundErr("appointment_not_found")
	}
	return &ap, nil
}

func (r *AppointmentMemoryRepository) MoveAppointment(_ context.Context, ap *models.Appointment, from domain.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.appointments[ap.ID]
	if !ok || cur.TenantID != ap.TenantID || cur.Deletion.IsDeleted() {
		return httperr.NotFoundErr("appointment_not_found")
	}
	if domain.Status(cur.Status) != from {
		return httperr.InvalidTransition("invalid_state")
	}
	cur.StartTime = ap.StartTime
	cur.EndTime = ap.EndTime
	cur.LastModifiedAt = ap.LastModifiedAt
	cur.LastModifiedBy = ap.LastModifiedBy
	if r.violatesNoOverlap(&cur) {
		return domain.ErrConcurrentWrite
	}
	r.appointments[ap.ID] = cur
	return nil
}

func (r *AppointmentMemoryRepository) SoftDeleteAppointment(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.appointments[ap.ID]
	if !ok || cur.TenantID != ap.TenantID || cur.Deletion.IsDeleted() {
		return httperr.NotFoundErr("appointment_not_found")
	}
	cur.Deletion = ap.Deletion
	cur.LastModifiedAt = ap.LastModifiedAt
	cur.LastModifiedBy = ap.LastModifiedBy
	r.appointments[ap.ID] = cur
	return nil
}

func (r *AppointmentMemoryRepository) UpdateStatus(_ context.Context, ap *models.Appointment, from domain.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.appointments[ap.ID]
	if !ok || cur.TenantID != ap.TenantID || cur.Deletion.IsDeleted() {
		return httperr.NotFoundErr("appointment_not_found")
	}
	if domain.Status(cur.Status) != from {
		return httperr.InvalidTransition("invalid_state")
	}
	cur.Status = ap.Status
	cur.ConfirmedAt = ap.ConfirmedAt
	cur.CanceledAt = ap.CanceledAt
	cur.CancelReason = ap.CancelReason
	cur.LastModifiedAt = ap.LastModifiedAt
	cur.LastModifiedBy = ap.LastModifiedBy
	r.appointments[ap.ID] = cur
	return nil
}

// violatesNoOverlap mirrors appointments_no_overlap. Caller holds r.mu.
func (r *AppointmentMemoryRepository) violatesNoOverlap(ap *models.Appointment) bool {
	if !domain.Blocking(ap) {
		return false
	}
	for id, other := range r.appointments {
		if id == ap.ID || other.TenantID != ap.TenantID || other.EmployeeID != ap.EmployeeID {
			continue
		}
		if domain.Blocking(&other) && domain.Overlaps(ap.StartTime, ap.EndTime, other.StartTime, other.EndTime) {
			return true
		}
	}
	return false
}

// --------------------------------------------------
// Audit
// --------------------------------------------------

func (r *AppointmentMemoryRepository) CreateAuditLog(_ context.Context, entry *models.AuditLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.auditLogs = append(r.auditLogs, *entry)
	return nil
}

func (r *AppointmentMemoryRepository) ListAuditLogs(_ context.Context, tenantID, entityID uuid.UUID) ([]models.AuditLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.AuditLog{}
	for _, l := range r.auditLogs {
		if l.TenantID == tenantID && l.EntityID != nil && *l.EntityID == entityID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *AppointmentMemoryRepository) SearchAuditLogs(_ context.Context, q domain.AuditQuery) ([]models.AuditLog, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.AuditLog
	for i := len(r.auditLogs) - 1; i >= 0; i-- {
		l := r.auditLogs[i]
		switch {
		case l.TenantID != q.TenantID,
			q.Action != "" && l.Action != q.Action,
			q.Entity != "" && l.Entity != q.Entity,
			!q.From.IsZero() && l.CreatedAt.Before(q.From),
			!q.To.IsZero() && !l.CreatedAt.Before(q.To):
			continue
		}
		matched = append(matched, l)
	}

	total := int64(len(matched))
	from := (q.Page - 1) * q.Limit
	if from < 0 || q.Limit <= 0 || from >= len(matched) {
		return []models.AuditLog{}, total, nil
	}
	to := from + q.Limit
	if to > len(matched) {
		to = len(matched)
	}
	return matched[from:to], total, nil
}

// --------------------------------------------------
// Atomic boundary
// --------------------------------------------------

// WithEmployeeLock serializes fn per employee. Appointment writes made by fn
// are undone when it fails.
func (r *AppointmentMemoryRepository) WithEmployeeLock(
	ctx context.Context,
	tenantID uuid.UUID,
	employeeID uuid.UUID,
	fn func(tx domain.Repository) error,
) error {
	key := tenantID.String() + ":" + employeeID.String()
	lock := r.lockFor(key)
	defer r.unref(key, lock)
	select {
	case lock.ch <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-lock.ch }()

	tx := &memoryTx{AppointmentMemoryRepository: r, undo: map[uuid.UUID]*models.Appointment{}}
	if err := fn(tx); err != nil {
		tx.rollback()
		return err
	}
	if err := ctx.Err(); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

// employeeLock is dropped from the map once no caller holds or waits on it.
type employeeLock struct {
	ch   chan struct{}
	refs int
}

func (r *AppointmentMemoryRepository) lockFor(key string) *employeeLock {
	r.locksMu.Lock()
	defer r.locksMu.Unlock()
	l, ok := r.locks[key]
	if !ok {
		l = &employeeLock{ch: make(chan struct{}, 1)}
		r.locks[key] = l
	}
	l.refs++
	return l
}

func (r *AppointmentMemoryRepository) unref(key string, l *employeeLock) {
	r.locksMu.Lock()
	defer r.locksMu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(r.locks, key)
	}
}

// memoryTx records the previous version of every appointment it writes.
type memoryTx struct {
	*AppointmentMemoryRepository
	undo map[uuid.UUID]*models.Appointment // nil value: row did not exist
}

func (tx *memoryTx) remember(id uuid.UUID) {
	if _, seen := tx.undo[id]; seen {
		return
	}
	tx.mu.RLock()
	prev, ok := tx.appointments[id]
	tx.mu.RUnlock()
	if ok {
		tx.undo[id] = &prev
	} else {
		tx.undo[id] = nil
	}
}

func (tx *memoryTx) InsertAppointment(ctx context.Context, ap *models.Appointment) error {
	if ap.ID == uuid.Nil {
		ap.ID = uuid.New()
	}
	tx.remember(ap.ID)
	return tx.AppointmentMemoryRepository.InsertAppointment(ctx, ap)
}

func (tx *memoryTx) MoveAppointment(ctx context.Context, ap *models.Appointment, from domain.Status) error {
	tx.remember(ap.ID)
	return tx.AppointmentMemoryRepository.MoveAppointment(ctx, ap, from)
}

func (tx *memoryTx) SoftDeleteAppointment(ctx context.Context, ap *models.Appointment) error {
	tx.remember(ap.ID)
	return tx.AppointmentMemoryRepository.SoftDeleteAppointment(ctx, ap)
}

func (tx *memoryTx) UpdateStatus(ctx context.Context, ap *models.Appointment, from domain.Status) error {
	tx.remember(ap.ID)
	return tx.AppointmentMemoryRepository.UpdateStatus(ctx, ap, from)
}

func (tx *memoryTx) WithEmployeeLock(context.Context, uuid.UUID, uuid.UUID, func(domain.Repository) error) error {
	panic("repository: nested WithEmployeeLock")
}

func (tx *memoryTx) rollback() {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	for id, prev := range tx.undo {
		if prev == nil {
			delete(tx.appointments, id)
			continue
		}
		tx.appointments[id] = *prev
	}
}

func sortByStart(aps []models.Appointment) {
	sort.Slice(aps, func(i, j int) bool {
		return aps[i].StartTime.Before(aps[j].StartTime)
	})
}

// Compile-time check
var _ domain.Repository = (*AppointmentMemoryRepository)(nil)
