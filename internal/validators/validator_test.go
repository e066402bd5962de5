package validators

import (
	"testing"

	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
)

type guest struct {
	Name  string `validate:"required,max=10"`
	Email string `validate:"required_without=Phone,omitempty,email"`
	Phone string `validate:"omitempty,max=20"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name string
		in   guest
		code string
	}{
		{name: "valid email", in: guest{Name: "Ana", Email: "ana@example.com"}},
		{name: "valid phone", in: guest{Name: "Ana", Phone: "+5511999999999"}},
		{name: "missing name", in: guest{Email: "ana@example.com"}, code: "invalid_name"},
		{name: "bad email", in: guest{Name: "Ana", Email: "nope"}, code: "invalid_email"},
		{name: "no contact", in: guest{Name: "Ana"}, code: "invalid_email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if tt.code == "" {
				if err != nil {
					t.Fatalf("Struct() = %v, want nil", err)
				}
				return
			}
			be, ok := httperr.AsBusiness(err)
			if !ok || be.Kind != httperr.KindValidation || be.Code != tt.code {
				t.Fatalf("Struct() = %v, want validation %s", err, tt.code)
			}
		})
	}
}

func TestToSnake(t *testing.T) {
	if got := toSnake("EmployeeID"); got != "employee_id" {
		t.Errorf("toSnake(EmployeeID) = %q", got)
	}
	if got := toSnake("StartTime"); got != "start_time" {
		t.Errorf("toSnake(StartTime) = %q", got)
	}
}
