package audit

import (
	"context"
	"encoding/json"

	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

// Store persists audit rows. Both repositories implement it.
type Store interface {
	CreateAuditLog(ctx context.Context, entry *models.AuditLog) error
}

// Logger is the Sink that writes one AuditLog row per event.
type Logger struct {
	store Store
}

func New(store Store) *Logger {
	return &Logger{store: store}
}

func (l *Logger) Write(ctx context.Context, ev Event) error {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	entry := models.AuditLog{
		TenantID:  ev.TenantID,
		ActorID:   ev.ActorID,
		Action:    ev.Action,
		Entity:    ev.Entity,
		EntityID:  ev.EntityID,
		Metadata:  metaJSON,
		CreatedAt: ev.OccurredAt,
	}

	return l.store.CreateAuditLog(ctx, &entry)
}
