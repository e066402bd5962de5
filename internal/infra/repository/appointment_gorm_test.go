package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		concurrent bool
		kind       httperr.Kind
		unavail    bool
	}{
		{name: "serialization failure", err: &pgconn.PgError{Code: "40001"}, concurrent: true},
		{name: "deadlock", err: &pgconn.PgError{Code: "40P01"}, concurrent: true},
		{name: "exclusion violation", err: &pgconn.PgError{Code: "23P01"}, concurrent: true},
		{name: "wrapped unique violation", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), concurrent: true},
		{name: "not found", err: gorm.ErrRecordNotFound, kind: httperr.KindNotFound},
		{name: "business passthrough", err: httperr.Conflict("time_conflict"), kind: httperr.KindConflict},
		{name: "syntax error", err: &pgconn.PgError{Code: "42601"}, unavail: true},
		{name: "connection lost", err: errors.New("conn closed"), unavail: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err, "thing_not_found")

			if errors.Is(got, domain.ErrConcurrentWrite) != tt.concurrent {
				t.Errorf("ErrConcurrentWrite = %v, want %v (err %v)", !tt.concurrent, tt.concurrent, got)
			}
			if errors.Is(got, httperr.ErrUnavailable) != tt.unavail {
				t.Errorf("ErrUnavailable = %v, want %v (err %v)", !tt.unavail, tt.unavail, got)
			}
			if tt.kind != 0 && !httperr.IsKind(got, tt.kind) {
				t.Errorf("kind of %v, want %s", got, tt.kind)
			}
		})
	}
}

func TestClassify_KeepsContextErrors(t *testing.T) {
	got := classify(context.DeadlineExceeded, "x")
	if !errors.Is(got, context.DeadlineExceeded) {
		t.Errorf("classify lost context error: %v", got)
	}
	if classify(nil, "x") != nil {
		t.Error("classify(nil) != nil")
	}
}
