package models

import (
	"time"

	"github.com/google/uuid"
)

// WorkingHours is one weekday row of an employee calendar. Times are
// "HH:MM" in the tenant timezone.
type WorkingHours struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EmployeeID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_employee_weekday;not null" json:"employee_id"`

	Weekday int `gorm:"uniqueIndex:idx_employee_weekday" json:"weekday"`

	IsWorkingDay bool   `json:"is_working_day"`
	StartTime    string `gorm:"size:5" json:"start_time"`
	EndTime      string `gorm:"size:5" json:"end_time"`
	BreakStart   string `gorm:"size:5" json:"break_start,omitempty"`
	BreakEnd     string `gorm:"size:5" json:"break_end,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
