package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/appointment"
)

func TestMemorySlotCache_GetSetExpire(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	c := NewMemorySlotCache(time.Minute)
	c.now = func() time.Time { return now }

	key := domain.NewCacheKey(uuid.New(), uuid.New(), now)
	svc := uuid.New()
	slots := []time.Time{now.Add(time.Hour), now.Add(90 * time.Minute)}

	if _, hit, _ := c.Get(ctx, key, svc); hit {
		t.Fatal("hit on empty cache")
	}
	if err := c.Set(ctx, key, svc, slots, 0); err != nil {
		t.Fatal(err)
	}

	got, hit, err := c.Get(ctx, key, svc)
	if err != nil || !hit || len(got) != 2 || !got[0].Equal(slots[0]) {
		t.Fatalf("Get = %v, %v, %v", got, hit, err)
	}

	if _, hit, _ := c.Get(ctx, key, uuid.New()); hit {
		t.Error("hit for a different service")
	}

	now = now.Add(time.Minute)
	if _, hit, _ := c.Get(ctx, key, svc); hit {
		t.Error("entry still served after ttl")
	}
}

func TestMemorySlotCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	tenant, emp, other := uuid.New(), uuid.New(), uuid.New()
	svc := uuid.New()
	c := NewMemorySlotCache(time.Hour)

	monday := domain.NewCacheKey(tenant, emp, day)
	tuesday := domain.NewCacheKey(tenant, emp, day.AddDate(0, 0, 1))
	otherKey := domain.NewCacheKey(tenant, other, day)
	for _, k := range []domain.CacheKey{monday, tuesday, otherKey} {
		_ = c.Set(ctx, k, svc, []time.Time{day}, 0)
	}

	_ = c.Invalidate(ctx, monday)
	if _, hit, _ := c.Get(ctx, monday, svc); hit {
		t.Error("monday survived Invalidate")
	}
	if _, hit, _ := c.Get(ctx, tuesday, svc); !hit {
		t.Error("tuesday dropped by Invalidate(monday)")
	}

	_ = c.InvalidateEmployee(ctx, tenant, emp)
	if _, hit, _ := c.Get(ctx, tuesday, svc); hit {
		t.Error("tuesday survived InvalidateEmployee")
	}
	if _, hit, _ := c.Get(ctx, otherKey, svc); !hit {
		t.Error("other employee dropped by InvalidateEmployee")
	}
}

func TestRedisKeys(t *testing.T) {
	tenant, emp := uuid.New(), uuid.New()
	key := domain.NewCacheKey(tenant, emp, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))

	want := "availability:" + tenant.String() + ":" + emp.String() + ":2026-03-02"
	if got := dayKey(key); got != want {
		t.Errorf("dayKey = %q, want %q", got, want)
	}
	if got := indexKey(tenant, emp); got != "availability:idx:"+tenant.String()+":"+emp.String() {
		t.Errorf("indexKey = %q", got)
	}
	if got := genKey(tenant, emp); got != "availability:gen:"+tenant.String()+":"+emp.String() {
		t.Errorf("genKey = %q", got)
	}
}

func TestMemorySlotCache_SetDropsStaleVersion(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	tenant, emp, svc := uuid.New(), uuid.New(), uuid.New()
	c := NewMemorySlotCache(time.Hour)

	monday := domain.NewCacheKey(tenant, emp, day)
	tuesday := domain.NewCacheKey(tenant, emp, day.AddDate(0, 0, 1))

	v, _ := c.Version(ctx, monday)
	_ = c.Invalidate(ctx, monday)
	if err := c.Set(ctx, monday, svc, []time.Time{day}, v); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, monday, svc); hit {
		t.Error("slots solved before Invalidate were stored")
	}

	v, _ = c.Version(ctx, tuesday)
	_ = c.InvalidateEmployee(ctx, tenant, emp)
	_ = c.Set(ctx, tuesday, svc, []time.Time{day}, v)
	if _, hit, _ := c.Get(ctx, tuesday, svc); hit {
		t.Error("slots solved before InvalidateEmployee were stored")
	}

	v, _ = c.Version(ctx, tuesday)
	_ = c.Set(ctx, tuesday, svc, []time.Time{day}, v)
	if _, hit, _ := c.Get(ctx, tuesday, svc); !hit {
		t.Error("current version not stored")
	}
}
