package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
	"github.com/BruksfildServices01/tenant-scheduler/internal/timezone"
)

type GetAvailability struct {
	Deps
	granularity time.Duration
}

func NewGetAvailability(deps Deps, granularity time.Duration) *GetAvailability {
	return &GetAvailability{Deps: deps, granularity: granularity}
}

// Execute returns the start times at which the service can be booked with
// the employee on in.Date, ascending. An inactive employee or service, a
// service the employee does not offer, or a closed day yields no slots.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]time.Time, error) {

	tenant, err := uc.Repo.GetTenant(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}

	emp, err := uc.Repo.GetEmployee(ctx, in.TenantID, in.EmployeeID)
	if err != nil {
		return nil, err
	}

	svc, err := uc.Repo.GetService(ctx, in.TenantID, in.ServiceID)
	if err != nil {
		return nil, err
	}

	if !emp.Bookable() || !svc.Bookable() || !emp.OffersService(svc.ID) {
		return []time.Time{}, nil
	}

	loc := timezone.Location(tenant.Timezone)
	day := timezone.StartOfDay(in.Date, loc)

	cal, err := domain.NewCalendar(emp.WorkingHours)
	if err != nil {
		return nil, err
	}
	window, open := cal.Window(int(day.Weekday()))
	if !open {
		return []time.Time{}, nil
	}

	key := domain.NewCacheKey(tenant.ID, emp.ID, day)
	if cached, ok := uc.cached(ctx, key, svc.ID); ok {
		return inLocation(cached, loc), nil
	}

	// The generation is read before the appointments so a booking that
	// lands while we solve keeps its stale result out of the cache.
	version, cacheable := uc.cacheVersion(ctx, key)

	busy, err := uc.busy(ctx, tenant.ID, emp.ID, day, window)
	if err != nil {
		return nil, err
	}

	slots := domain.Slots(window.On(day), svc.Duration(), uc.granularity, busy)
	if slots == nil {
		slots = []time.Time{}
	}

	if cacheable {
		if err := uc.Cache.Set(ctx, key, svc.ID, slots, version); err != nil {
			uc.logger().Warn("availability cache write failed", zap.String("key", key.String()), zap.Error(err))
		}
	}

	return slots, nil
}

// FreeWindows returns the merged gaps of the employee's working window on
// date that no appointment or break occupies.
func (uc *GetAvailability) FreeWindows(
	ctx context.Context,
	tenantID uuid.UUID,
	employeeID uuid.UUID,
	date time.Time,
) ([]domain.Interval, error) {

	tenant, err := uc.Repo.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	emp, err := uc.Repo.GetEmployee(ctx, tenantID, employeeID)
	if err != nil {
		return nil, err
	}
	if !emp.Bookable() {
		return []domain.Interval{}, nil
	}

	cal, err := domain.NewCalendar(emp.WorkingHours)
	if err != nil {
		return nil, err
	}

	day := timezone.StartOfDay(date, timezone.Location(tenant.Timezone))
	window, open := cal.Window(int(day.Weekday()))
	if !open {
		return []domain.Interval{}, nil
	}

	busy, err := uc.busy(ctx, tenantID, employeeID, day, window)
	if err != nil {
		return nil, err
	}
	return busy.Subtract(window.On(day)), nil
}

func (uc *GetAvailability) cached(ctx context.Context, key domain.CacheKey, serviceID uuid.UUID) ([]time.Time, bool) {
	if uc.Cache == nil {
		return nil, false
	}
	slots, ok, err := uc.Cache.Get(ctx, key, serviceID)
	if err != nil {
		uc.logger().Warn("availability cache read failed", zap.String("key", key.String()), zap.Error(err))
		return nil, false
	}
	return slots, ok
}

func (uc *GetAvailability) cacheVersion(ctx context.Context, key domain.CacheKey) (uint64, bool) {
	if uc.Cache == nil {
		return 0, false
	}
	v, err := uc.Cache.Version(ctx, key)
	if err != nil {
		uc.logger().Warn("availability cache version read failed", zap.String("key", key.String()), zap.Error(err))
		return 0, false
	}
	return v, true
}

// busy collects the day's blocking appointments and the break, merged.
func (uc *GetAvailability) busy(
	ctx context.Context,
	tenantID uuid.UUID,
	employeeID uuid.UUID,
	day time.Time,
	window domain.Window,
) (*domain.IntervalSet, error) {

	span := window.On(day)
	apps, err := uc.Repo.ListActiveForEmployee(ctx, tenantID, employeeID, span.Start, span.End)
	if err != nil {
		return nil, err
	}

	set := busyFrom(apps)
	if br, ok := window.BreakOn(day); ok {
		set.Add(br)
	}
	set.Merge()
	return set, nil
}

func busyFrom(apps []models.Appointment) *domain.IntervalSet {
	set := domain.NewIntervalSet()
	for i := range apps {
		set.Add(domain.IntervalOf(&apps[i]))
	}
	return set
}

func inLocation(ts []time.Time, loc *time.Location) []time.Time {
	out := make([]time.Time, len(ts))
	for i, t := range ts {
		out[i] = t.In(loc)
	}
	return out
}
