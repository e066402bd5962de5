package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/tenant-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/tenant-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/tenant-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

// mon returns a time on Monday 2026-03-02, UTC.
func mon(h, m int) time.Time {
	return time.Date(2026, 3, 2, h, m, 0, 0, time.UTC)
}

func weekdays(start, end, breakStart, breakEnd string) []models.WorkingHours {
	rows := make([]models.WorkingHours, domain.DaysPerWeek)
	for d := 0; d < domain.DaysPerWeek; d++ {
		rows[d] = models.WorkingHours{Weekday: d}
		if d >= 1 && d <= 5 {
			rows[d].IsWorkingDay = true
			rows[d].StartTime, rows[d].EndTime = start, end
			rows[d].BreakStart, rows[d].BreakEnd = breakStart, breakEnd
		}
	}
	return rows
}

type fixture struct {
	repo   *repository.AppointmentMemoryRepository
	cache  *cache.MemorySlotCache
	deps   Deps
	actor  uuid.UUID
	tenant models.Tenant
	emp    models.Employee
	svc30  models.Service
	svc45  models.Service
	other  models.Service
	client models.Customer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := repository.NewAppointmentMemoryRepository()
	f := &fixture{
		repo:  repo,
		cache: cache.NewMemorySlotCache(time.Hour),
		actor: uuid.New(),
	}
	f.deps = Deps{Repo: repo, Cache: f.cache, Log: zap.NewNop()}

	f.tenant = repo.AddTenant(models.Tenant{Name: "Acme", Slug: "acme", Timezone: "UTC"})
	f.svc30 = repo.AddService(models.Service{TenantID: f.tenant.ID, Name: "Cut", DurationMinutes: 30, Active: true})
	f.svc45 = repo.AddService(models.Service{TenantID: f.tenant.ID, Name: "Color", DurationMinutes: 45, Active: true})
	f.other = repo.AddService(models.Service{TenantID: f.tenant.ID, Name: "Massage", DurationMinutes: 60, Active: true})
	f.emp = repo.AddEmployee(models.Employee{
		TenantID:     f.tenant.ID,
		Name:         "Ana",
		Active:       true,
		WorkingHours: weekdays("09:00", "17:00", "", ""),
		Services:     []models.Service{f.svc30, f.svc45},
	})
	f.client = repo.AddCustomer(models.Customer{TenantID: f.tenant.ID, Name: "Bob", Email: "bob@example.com"})
	return f
}

// withAudit routes events into the memory store. The returned func drains
// the dispatcher.
func (f *fixture) withAudit(t *testing.T) func() {
	t.Helper()
	d := audit.NewDispatcher(zap.NewNop(), audit.New(f.repo))
	f.deps.Audit = d
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := d.Close(ctx); err != nil {
			t.Fatalf("dispatcher close: %v", err)
		}
	}
}

func (f *fixture) booker() *BookAppointment {
	return NewBookAppointment(f.deps, RetryPolicy{MaxRetries: 3, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond})
}

func (f *fixture) bookInput(start time.Time, svc models.Service) BookInput {
	customer := f.client.ID
	return BookInput{
		TenantID:    f.tenant.ID,
		EmployeeID:  f.emp.ID,
		ServiceID:   svc.ID,
		CustomerID:  &customer,
		StartTime:   start,
		ActorID:     &f.actor,
		AutoConfirm: true,
	}
}

func (f *fixture) book(t *testing.T, start time.Time, svc models.Service) *models.Appointment {
	t.Helper()
	ap, err := f.booker().Execute(context.Background(), f.bookInput(start, svc))
	if err != nil {
		t.Fatalf("book %s: %v", start.Format("15:04"), err)
	}
	return ap
}

func (f *fixture) slots(t *testing.T, svc models.Service) []time.Time {
	t.Helper()
	got, err := NewGetAvailability(f.deps, 30*time.Minute).Execute(context.Background(), domain.AvailabilityInput{
		TenantID:   f.tenant.ID,
		EmployeeID: f.emp.ID,
		ServiceID:  svc.ID,
		Date:       mon(0, 0),
	})
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	return got
}

func contains(ts []time.Time, want time.Time) bool {
	for _, t := range ts {
		if t.Equal(want) {
			return true
		}
	}
	return false
}
