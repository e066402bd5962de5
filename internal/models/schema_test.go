package models

import (
	"sync"
	"testing"

	"gorm.io/gorm/schema"
)

// Active carries no column default: gorm leaves a zero bool out of the
// INSERT whenever the field has one.
func TestActiveColumnsHaveNoDefault(t *testing.T) {
	cache := &sync.Map{}
	for _, model := range []any{&Employee{}, &Service{}} {
		s, err := schema.Parse(model, cache, schema.NamingStrategy{})
		if err != nil {
			t.Fatalf("parse %T: %v", model, err)
		}
		f := s.LookUpField("Active")
		if f == nil {
			t.Fatalf("%T has no Active field", model)
		}
		if f.HasDefaultValue {
			t.Errorf("%s.active has default %q; inactive rows would be created active", s.Table, f.DefaultValue)
		}
	}
}
