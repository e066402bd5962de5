package models

import (
	"time"

	"github.com/google/uuid"
)

type Service struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;index;not null" json:"tenant_id"`

	Name            string `gorm:"size:100;not null" json:"name"`
	DurationMinutes int    `gorm:"not null" json:"duration_minutes"`
	Active          bool   `gorm:"not null" json:"active"`

	Deletion Deletion `gorm:"column:deletion" json:"deletion"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

func (s *Service) Bookable() bool {
	return s.Active && s.DurationMinutes > 0 && !s.Deletion.IsDeleted()
}
