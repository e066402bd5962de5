package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Actions recorded for appointments and calendars.
const (
	ActionAppointmentCreated     = "appointment_created"
	ActionAppointmentConfirmed   = "appointment_confirmed"
	ActionAppointmentCanceled    = "appointment_canceled"
	ActionAppointmentRescheduled = "appointment_rescheduled"
	ActionAppointmentDeleted     = "appointment_deleted"
	ActionWorkingHoursUpdated    = "working_hours_updated"
)

type Event struct {
	TenantID   uuid.UUID
	ActorID    *uuid.UUID
	Action     string
	Entity     string
	EntityID   *uuid.UUID
	EmployeeID uuid.UUID
	Metadata   any
	OccurredAt time.Time
}

// Sink receives dispatched events. Each sink is called once per event.
type Sink interface {
	Write(ctx context.Context, ev Event) error
}

type Dispatcher struct {
	sinks   []Sink
	log     *zap.Logger
	queue   chan Event
	timeout time.Duration

	closeOnce sync.Once
	done      chan struct{}
}

func NewDispatcher(log *zap.Logger, sinks ...Sink) *Dispatcher {
	d := &Dispatcher{
		sinks:   sinks,
		log:     log,
		queue:   make(chan Event, 100),
		timeout: 5 * time.Second,
		done:    make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		for _, s := range d.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
			if err := s.Write(ctx, ev); err != nil {
				d.log.Warn("audit sink failed",
					zap.String("action", ev.Action),
					zap.Stringer("tenant_id", ev.TenantID),
					zap.Error(err),
				)
			}
			cancel()
		}
	}
}

// Dispatch never blocks the caller. A full queue drops the event.
func (d *Dispatcher) Dispatch(ev Event) {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	select {
	case d.queue <- ev:
	default:
		d.log.Warn("audit queue full, dropping event", zap.String("action", ev.Action))
	}
}

// Close stops accepting events and waits for the queue to drain or ctx to
// end. Dispatch must not be called after Close.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.closeOnce.Do(func() { close(d.queue) })
	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
