package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CacheKey scopes cached availability. Invalidation works on a whole key;
// entries inside it are per service.
type CacheKey struct {
	TenantID   uuid.UUID
	EmployeeID uuid.UUID
	Day        string // YYYY-MM-DD in the tenant timezone
}

func NewCacheKey(tenantID, employeeID uuid.UUID, day time.Time) CacheKey {
	return CacheKey{TenantID: tenantID, EmployeeID: employeeID, Day: day.Format("2006-01-02")}
}

func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%s:%s", k.TenantID, k.EmployeeID, k.Day)
}

// SlotCache stores solved availability. Implementations must be safe for
// concurrent use; a cache error is never fatal to a request.
//
// Every invalidation bumps the employee's generation. Readers take Version
// before loading appointments and hand it to Set, which drops the write if
// an invalidation happened in between.
type SlotCache interface {
	Get(ctx context.Context, key CacheKey, serviceID uuid.UUID) ([]time.Time, bool, error)
	Version(ctx context.Context, key CacheKey) (uint64, error)
	Set(ctx context.Context, key CacheKey, serviceID uuid.UUID, slots []time.Time, version uint64) error
	Invalidate(ctx context.Context, key CacheKey) error
	InvalidateEmployee(ctx context.Context, tenantID, employeeID uuid.UUID) error
}
