package models

import (
	"time"

	"github.com/google/uuid"
)

type Employee struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;index;not null" json:"tenant_id"`

	Name   string `gorm:"size:100;not null" json:"name"`
	Active bool   `gorm:"not null" json:"active"`

	WorkingHours []WorkingHours `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE;" json:"working_hours"`
	Services     []Service      `gorm:"many2many:employee_services;" json:"services"`

	Deletion Deletion `gorm:"column:deletion" json:"deletion"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *Employee) OffersService(serviceID uuid.UUID) bool {
	for _, s := range e.Services {
		if s.ID == serviceID {
			return true
		}
	}
	return false
}

// Bookable reports whether the employee can take new appointments.
func (e *Employee) Bookable() bool {
	return e.Active && !e.Deletion.IsDeleted()
}
