package dto

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentListDTO struct {
	ID         uuid.UUID  `json:"id"`
	EmployeeID uuid.UUID  `json:"employee_id"`
	ServiceID  uuid.UUID  `json:"service_id"`
	CustomerID *uuid.UUID `json:"customer_id,omitempty"`
	GuestName  string     `json:"guest_name,omitempty"`
	IsGuest    bool       `json:"is_guest"`
	StartTime  time.Time  `json:"start_time"`
	EndTime    time.Time  `json:"end_time"`
	Status     string     `json:"status"`
}
