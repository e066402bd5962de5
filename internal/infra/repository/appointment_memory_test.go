package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func appointmentAt(tenantID, employeeID uuid.UUID, h, m, minutes int, status domain.Status) *models.Appointment {
	start := monday.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
	return &models.Appointment{
		TenantID:   tenantID,
		EmployeeID: employeeID,
		StartTime:  start,
		EndTime:    start.Add(time.Duration(minutes) * time.Minute),
		Status:     string(status),
	}
}

func TestMemory_InsertRejectsOverlap(t *testing.T) {
	ctx := context.Background()
	repo := NewAppointmentMemoryRepository()
	tenant, emp := uuid.New(), uuid.New()

	if err := repo.InsertAppointment(ctx, appointmentAt(tenant, emp, 10, 0, 60, domain.StatusConfirmed)); err != nil {
		t.Fatalf("first insert: %v", err)
	}

	err := repo.InsertAppointment(ctx, appointmentAt(tenant, emp, 10, 30, 30, domain.StatusPending))
	if !errors.Is(err, domain.ErrConcurrentWrite) {
		t.Fatalf("overlapping insert err = %v, want ErrConcurrentWrite", err)
	}

	// Adjacent, canceled and other-employee rows are all fine.
	if err := repo.InsertAppointment(ctx, appointmentAt(tenant, emp, 11, 0, 30, domain.StatusPending)); err != nil {
		t.Errorf("adjacent insert: %v", err)
	}
	if err := repo.InsertAppointment(ctx, appointmentAt(tenant, emp, 10, 0, 60, domain.StatusCanceled)); err != nil {
		t.Errorf("canceled insert: %v", err)
	}
	if err := repo.InsertAppointment(ctx, appointmentAt(tenant, uuid.New(), 10, 0, 60, domain.StatusConfirmed)); err != nil {
		t.Errorf("other employee insert: %v", err)
	}
}

func TestMemory_ListActiveForEmployee(t *testing.T) {
	ctx := context.Background()
	repo := NewAppointmentMemoryRepository()
	tenant, emp := uuid.New(), uuid.New()

	late := appointmentAt(tenant, emp, 14, 0, 30, domain.StatusConfirmed)
	early := appointmentAt(tenant, emp, 9, 0, 30, domain.StatusPending)
	canceled := appointmentAt(tenant, emp, 12, 0, 30, domain.StatusCanceled)
	deleted := appointmentAt(tenant, emp, 16, 0, 30, domain.StatusConfirmed)
	for _, ap := range []*models.Appointment{late, early, canceled, deleted} {
		if err := repo.InsertAppointment(ctx, ap); err != nil {
			t.Fatal(err)
		}
	}
	domain.SoftDelete(deleted, uuid.New(), monday)
	if err := repo.SoftDeleteAppointment(ctx, deleted); err != nil {
		t.Fatal(err)
	}

	got, err := repo.ListActiveForEmployee(ctx, tenant, emp, monday, monday.AddDate(0, 0, 1))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != early.ID || got[1].ID != late.ID {
		t.Fatalf("ListActiveForEmployee = %+v, want [early late]", got)
	}

	all, _ := repo.ListForEmployee(ctx, tenant, emp, monday, monday.AddDate(0, 0, 1))
	if len(all) != 3 {
		t.Errorf("ListForEmployee returned %d rows, want 3", len(all))
	}

	if _, err := repo.GetAppointment(ctx, tenant, deleted.ID); !httperr.IsKind(err, httperr.KindNotFound) {
		t.Errorf("GetAppointment(deleted) err = %v, want not found", err)
	}
	if _, err := repo.GetAppointment(ctx, uuid.New(), early.ID); !httperr.IsKind(err, httperr.KindNotFound) {
		t.Errorf("GetAppointment(other tenant) err = %v, want not found", err)
	}
}

func TestMemory_UpdateStatusIsConditional(t *testing.T) {
	ctx := context.Background()
	repo := NewAppointmentMemoryRepository()
	ap := appointmentAt(uuid.New(), uuid.New(), 10, 0, 30, domain.StatusPending)
	if err := repo.InsertAppointment(ctx, ap); err != nil {
		t.Fatal(err)
	}

	ap.Status = string(domain.StatusConfirmed)
	if err := repo.UpdateStatus(ctx, ap, domain.StatusPending); err != nil {
		t.Fatalf("first UpdateStatus: %v", err)
	}

	ap.Status = string(domain.StatusCanceled)
	err := repo.UpdateStatus(ctx, ap, domain.StatusPending)
	if !httperr.IsKind(err, httperr.KindInvalidTransition) {
		t.Fatalf("stale UpdateStatus err = %v, want invalid transition", err)
	}

	stored, _ := repo.GetAppointment(ctx, ap.TenantID, ap.ID)
	if stored.Status != string(domain.StatusConfirmed) {
		t.Errorf("stored status = %s, want confirmed", stored.Status)
	}
}

func TestMemory_WithEmployeeLockRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := NewAppointmentMemoryRepository()
	tenant, emp := uuid.New(), uuid.New()

	boom := errors.New("boom")
	var inserted uuid.UUID
	err := repo.WithEmployeeLock(ctx, tenant, emp, func(tx domain.Repository) error {
		ap := appointmentAt(tenant, emp, 10, 0, 30, domain.StatusConfirmed)
		if err := tx.InsertAppointment(ctx, ap); err != nil {
			return err
		}
		inserted = ap.ID
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if _, err := repo.GetAppointment(ctx, tenant, inserted); !httperr.IsKind(err, httperr.KindNotFound) {
		t.Errorf("insert survived rollback: %v", err)
	}
}

func TestMemory_WithEmployeeLockHonoursContext(t *testing.T) {
	repo := NewAppointmentMemoryRepository()
	tenant, emp := uuid.New(), uuid.New()

	held := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = repo.WithEmployeeLock(context.Background(), tenant, emp, func(domain.Repository) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := repo.WithEmployeeLock(ctx, tenant, emp, func(domain.Repository) error {
		t.Error("fn ran while lock was held")
		return nil
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}

	close(release)
	<-done

	// A different employee is never blocked.
	if err := repo.WithEmployeeLock(context.Background(), tenant, uuid.New(), func(domain.Repository) error { return nil }); err != nil {
		t.Errorf("other employee lock: %v", err)
	}

	repo.locksMu.Lock()
	tracked := len(repo.locks)
	repo.locksMu.Unlock()
	if tracked != 0 {
		t.Errorf("%d idle employee locks kept after release", tracked)
	}
}

func TestMemory_MoveAppointmentIsConditional(t *testing.T) {
	ctx := context.Background()
	repo := NewAppointmentMemoryRepository()
	ap := appointmentAt(uuid.New(), uuid.New(), 10, 0, 30, domain.StatusConfirmed)
	if err := repo.InsertAppointment(ctx, ap); err != nil {
		t.Fatal(err)
	}

	// canceled after the mover read the row
	read, _ := repo.GetAppointment(ctx, ap.TenantID, ap.ID)
	canceled, _ := repo.GetAppointment(ctx, ap.TenantID, ap.ID)
	canceled.Status = string(domain.StatusCanceled)
	if err := repo.UpdateStatus(ctx, canceled, domain.StatusConfirmed); err != nil {
		t.Fatal(err)
	}

	read.StartTime = monday.Add(14 * time.Hour)
	read.EndTime = read.StartTime.Add(30 * time.Minute)
	err := repo.MoveAppointment(ctx, read, domain.Status(read.Status))
	if !httperr.IsKind(err, httperr.KindInvalidTransition) {
		t.Fatalf("stale move err = %v, want invalid transition", err)
	}

	stored, _ := repo.GetAppointment(ctx, ap.TenantID, ap.ID)
	if stored.Status != string(domain.StatusCanceled) || !stored.StartTime.Equal(ap.StartTime) {
		t.Errorf("stored = %s at %s, want canceled at 10:00", stored.Status, stored.StartTime.Format("15:04"))
	}
}

func TestMemory_SoftDeleteKeepsStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewAppointmentMemoryRepository()
	ap := appointmentAt(uuid.New(), uuid.New(), 10, 0, 30, domain.StatusPending)
	if err := repo.InsertAppointment(ctx, ap); err != nil {
		t.Fatal(err)
	}

	stale, _ := repo.GetAppointment(ctx, ap.TenantID, ap.ID)
	confirmed, _ := repo.GetAppointment(ctx, ap.TenantID, ap.ID)
	confirmed.Status = string(domain.StatusConfirmed)
	if err := repo.UpdateStatus(ctx, confirmed, domain.StatusPending); err != nil {
		t.Fatal(err)
	}

	domain.SoftDelete(stale, uuid.New(), monday)
	if err := repo.SoftDeleteAppointment(ctx, stale); err != nil {
		t.Fatal(err)
	}
	if err := repo.SoftDeleteAppointment(ctx, stale); !httperr.IsKind(err, httperr.KindNotFound) {
		t.Errorf("second delete err = %v, want not found", err)
	}

	all, _ := repo.ListForEmployee(ctx, ap.TenantID, ap.EmployeeID, monday, monday.AddDate(0, 0, 1))
	if len(all) != 0 {
		t.Errorf("deleted row still listed: %+v", all)
	}
	repo.mu.RLock()
	row := repo.appointments[ap.ID]
	repo.mu.RUnlock()
	if row.Status != string(domain.StatusConfirmed) {
		t.Errorf("delete wrote status %s over confirmed", row.Status)
	}
}

func TestMemory_GetEmployeeFiltersDeletedServices(t *testing.T) {
	ctx := context.Background()
	repo := NewAppointmentMemoryRepository()
	tenant := repo.AddTenant(models.Tenant{Name: "Acme", Slug: "acme", Timezone: "UTC"})

	kept := repo.AddService(models.Service{TenantID: tenant.ID, Name: "Cut", DurationMinutes: 30, Active: true})
	gone := repo.AddService(models.Service{
		TenantID:        tenant.ID,
		Name:            "Old",
		DurationMinutes: 30,
		Deletion:        models.Deleted(monday, uuid.New()),
	})
	emp := repo.AddEmployee(models.Employee{TenantID: tenant.ID, Name: "Ana", Active: true, Services: []models.Service{kept, gone}})

	got, err := repo.GetEmployee(ctx, tenant.ID, emp.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.OffersService(kept.ID) || got.OffersService(gone.ID) {
		t.Errorf("services = %+v, want only %s", got.Services, kept.ID)
	}

	if bySlug, err := repo.GetTenantBySlug(ctx, "ACME"); err != nil || bySlug.ID != tenant.ID {
		t.Errorf("GetTenantBySlug = %v, %v", bySlug, err)
	}
}

func TestMemory_SearchAuditLogs(t *testing.T) {
	ctx := context.Background()
	repo := NewAppointmentMemoryRepository()
	tenant := uuid.New()

	for i, action := range []string{"appointment_created", "appointment_canceled", "appointment_created"} {
		_ = repo.CreateAuditLog(ctx, &models.AuditLog{
			TenantID:  tenant,
			Action:    action,
			Entity:    "appointment",
			CreatedAt: monday.Add(time.Duration(i) * time.Hour),
		})
	}
	_ = repo.CreateAuditLog(ctx, &models.AuditLog{TenantID: uuid.New(), Action: "appointment_created"})

	got, total, err := repo.SearchAuditLogs(ctx, domain.AuditQuery{TenantID: tenant, Action: "appointment_created", Page: 1, Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || len(got) != 1 || !got[0].CreatedAt.Equal(monday.Add(2*time.Hour)) {
		t.Errorf("page 1 = %+v, total %d", got, total)
	}

	got, _, _ = repo.SearchAuditLogs(ctx, domain.AuditQuery{TenantID: tenant, Page: 3, Limit: 2})
	if len(got) != 0 {
		t.Errorf("page past the end = %+v", got)
	}

	got, total, _ = repo.SearchAuditLogs(ctx, domain.AuditQuery{TenantID: tenant, From: monday.Add(time.Hour), Page: 1, Limit: 10})
	if total != 2 || len(got) != 2 {
		t.Errorf("from filter total = %d", total)
	}
}
