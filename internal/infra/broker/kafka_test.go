package broker

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/tenant-scheduler/internal/audit"
)

func TestEncode(t *testing.T) {
	tenant, emp, id := uuid.New(), uuid.New(), uuid.New()
	ev := audit.Event{
		TenantID:   tenant,
		EmployeeID: emp,
		EntityID:   &id,
		Action:     audit.ActionAppointmentCreated,
		OccurredAt: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		Metadata:   map[string]string{"status": "confirmed"},
	}

	msg, err := encode(ev)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := string(msg.Key), tenant.String()+":"+emp.String(); got != want {
		t.Errorf("Key = %q, want %q", got, want)
	}
	if len(msg.Headers) != 2 || string(msg.Headers[1].Value) != audit.ActionAppointmentCreated {
		t.Errorf("Headers = %+v", msg.Headers)
	}

	var body Message
	if err := json.Unmarshal(msg.Value, &body); err != nil {
		t.Fatal(err)
	}
	if body.EventType != audit.ActionAppointmentCreated || body.EntityID == nil || *body.EntityID != id {
		t.Errorf("body = %+v", body)
	}
	if body.EventID != string(msg.Headers[0].Value) {
		t.Errorf("event_id header %q does not match body %q", msg.Headers[0].Value, body.EventID)
	}
}
