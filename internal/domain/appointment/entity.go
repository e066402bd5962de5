package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Confirm moves ap to Confirmed. changed is false when it already was.
func Confirm(ap *models.Appointment, actor *uuid.UUID, now time.Time) (changed bool, err error) {
	current := Status(ap.Status)
	if err := CanConfirm(current); err != nil {
		return false, err
	}
	if current == StatusConfirmed {
		return false, nil
	}

	ap.Status = string(StatusConfirmed)
	ap.ConfirmedAt = &now
	ap.Touch(actor, now)
	return true, nil
}

// Cancel moves ap to Canceled. changed is false when it already was, so
// callers skip side effects.
func Cancel(ap *models.Appointment, reason string, actor *uuid.UUID, now time.Time) (changed bool, err error) {
	current := Status(ap.Status)
	if err := CanCancel(current); err != nil {
		return false, err
	}
	if current == StatusCanceled {
		return false, nil
	}

	ap.Status = string(StatusCanceled)
	ap.CanceledAt = &now
	ap.CancelReason = reason
	ap.Touch(actor, now)
	return true, nil
}

// SoftDelete marks ap as removed. Deleting twice keeps the first marker.
func SoftDelete(ap *models.Appointment, actor uuid.UUID, now time.Time) bool {
	if ap.Deletion.IsDeleted() {
		return false
	}
	ap.Deletion = models.Deleted(now, actor)
	ap.Touch(&actor, now)
	return true
}

// IntervalOf returns the appointment's time range.
func IntervalOf(ap *models.Appointment) Interval {
	return Interval{Start: ap.StartTime, End: ap.EndTime}
}

// Blocking reports whether ap takes part in conflict detection.
func Blocking(ap *models.Appointment) bool {
	return Status(ap.Status).Blocks() && !ap.Deletion.IsDeleted()
}
