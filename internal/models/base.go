package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// assignID gives new rows a random UUID unless the caller picked one.
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (t *Tenant) BeforeCreate(*gorm.DB) error {
	assignID(&t.ID)
	return nil
}

func (e *Employee) BeforeCreate(*gorm.DB) error {
	assignID(&e.ID)
	return nil
}

func (w *WorkingHours) BeforeCreate(*gorm.DB) error {
	assignID(&w.ID)
	return nil
}

func (s *Service) BeforeCreate(*gorm.DB) error {
	assignID(&s.ID)
	return nil
}

func (c *Customer) BeforeCreate(*gorm.DB) error {
	assignID(&c.ID)
	return nil
}

func (a *Appointment) BeforeCreate(*gorm.DB) error {
	assignID(&a.ID)
	return nil
}

func (l *AuditLog) BeforeCreate(*gorm.DB) error {
	assignID(&l.ID)
	return nil
}
