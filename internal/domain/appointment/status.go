package appointment

import "github.com/BruksfildServices01/tenant-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCanceled  Status = "canceled"
)

// ActiveStatuses are the states that take part in conflict detection.
var ActiveStatuses = []Status{StatusPending, StatusConfirmed}

func (s Status) Blocks() bool {
	return s == StatusPending || s == StatusConfirmed
}

// ===============================
// Validations
// ===============================

// CanConfirm reports whether current may move to Confirmed. Confirmed is
// accepted as a no-op.
func CanConfirm(current Status) error {
	switch current {
	case StatusPending, StatusConfirmed:
		return nil
	}
	return httperr.InvalidTransition("invalid_state")
}

// CanCancel accepts an already canceled appointment as a no-op.
func CanCancel(current Status) error {
	switch current {
	case StatusPending, StatusConfirmed, StatusCanceled:
		return nil
	}
	return httperr.InvalidTransition("invalid_state")
}

func CanReschedule(current Status) error {
	if !current.Blocks() {
		return httperr.InvalidTransition("invalid_state")
	}
	return nil
}

// InitialStatus is Confirmed when the creating actor may auto-confirm.
func InitialStatus(autoConfirm bool) Status {
	if autoConfirm {
		return StatusConfirmed
	}
	return StatusPending
}
