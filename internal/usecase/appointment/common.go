package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/tenant-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
	"github.com/BruksfildServices01/tenant-scheduler/internal/timezone"
)

const entityAppointment = "appointment"

// Deps bundles the collaborators shared by the appointment use cases.
type Deps struct {
	Repo  domain.Repository
	Cache domain.SlotCache
	Audit *audit.Dispatcher
	Log   *zap.Logger
}

func (d Deps) logger() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}

// invalidateDay drops the cached availability of the tenant-local day that
// contains t. Failures are logged: entries still expire by TTL.
func (d Deps) invalidateDay(ctx context.Context, tenant *models.Tenant, employeeID uuid.UUID, t time.Time) {
	if d.Cache == nil {
		return
	}
	loc := timezone.Location(tenant.Timezone)
	key := domain.NewCacheKey(tenant.ID, employeeID, t.In(loc))
	if err := d.Cache.Invalidate(ctx, key); err != nil {
		d.logger().Warn("availability cache invalidation failed",
			zap.String("key", key.String()),
			zap.Error(err),
		)
	}
}

func (d Deps) dispatch(ap *models.Appointment, action string, actor *uuid.UUID, meta any) {
	if d.Audit == nil {
		return
	}
	id := ap.ID
	d.Audit.Dispatch(audit.Event{
		TenantID:   ap.TenantID,
		ActorID:    actor,
		Action:     action,
		Entity:     entityAppointment,
		EntityID:   &id,
		EmployeeID: ap.EmployeeID,
		Metadata:   meta,
	})
}
