package models

import (
	"time"

	"github.com/google/uuid"
)

// GuestContact holds the contact fields of a booking made without a
// customer record.
type GuestContact struct {
	Name  string `gorm:"size:100" json:"name"`
	Email string `gorm:"size:100" json:"email"`
	Phone string `gorm:"size:20" json:"phone"`
}

type Appointment struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;index:idx_appointment_employee_time,priority:1;not null" json:"tenant_id"`

	EmployeeID uuid.UUID `gorm:"type:uuid;index:idx_appointment_employee_time,priority:2;not null" json:"employee_id"`
	ServiceID  uuid.UUID `gorm:"type:uuid;not null" json:"service_id"`

	CustomerID         *uuid.UUID   `gorm:"type:uuid" json:"customer_id"`
	IsGuestAppointment bool         `json:"is_guest_appointment"`
	Guest              GuestContact `gorm:"embedded;embeddedPrefix:guest_" json:"guest"`

	StartTime time.Time `gorm:"index:idx_appointment_employee_time,priority:3;not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	Notes           string     `gorm:"size:255" json:"notes"`
	CustomerMessage string     `gorm:"size:500" json:"customer_message,omitempty"`
	CancelReason    string     `gorm:"size:255" json:"cancel_reason,omitempty"`
	ConfirmedAt     *time.Time `json:"confirmed_at"`
	CanceledAt      *time.Time `json:"canceled_at"`

	Deletion Deletion `gorm:"column:deletion" json:"deletion"`

	CreatedAt      time.Time  `json:"created_at"`
	CreatedBy      *uuid.UUID `gorm:"type:uuid" json:"created_by"`
	LastModifiedAt time.Time  `gorm:"autoUpdateTime" json:"last_modified_at"`
	LastModifiedBy *uuid.UUID `gorm:"type:uuid" json:"last_modified_by"`
}

// Touch records who changed the appointment last.
func (a *Appointment) Touch(actor *uuid.UUID, now time.Time) {
	a.LastModifiedAt = now
	a.LastModifiedBy = actor
}
