package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/appointment"
)

type memoryEntry struct {
	slots   []time.Time
	expires time.Time
}

// MemorySlotCache is a process-local SlotCache used when REDIS_URL is unset.
type MemorySlotCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[domain.CacheKey]map[uuid.UUID]memoryEntry
	gens    map[employeeRef]uint64
}

type employeeRef struct {
	tenantID   uuid.UUID
	employeeID uuid.UUID
}

func refOf(key domain.CacheKey) employeeRef {
	return employeeRef{tenantID: key.TenantID, employeeID: key.EmployeeID}
}

func NewMemorySlotCache(ttl time.Duration) *MemorySlotCache {
	return &MemorySlotCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[domain.CacheKey]map[uuid.UUID]memoryEntry),
		gens:    make(map[employeeRef]uint64),
	}
}

func (c *MemorySlotCache) Get(_ context.Context, key domain.CacheKey, serviceID uuid.UUID) ([]time.Time, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key][serviceID]
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(e.expires) {
		delete(c.entries[key], serviceID)
		return nil, false, nil
	}
	return append([]time.Time(nil), e.slots...), true, nil
}

func (c *MemorySlotCache) Version(_ context.Context, key domain.CacheKey) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[refOf(key)], nil
}

func (c *MemorySlotCache) Set(_ context.Context, key domain.CacheKey, serviceID uuid.UUID, slots []time.Time, version uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gens[refOf(key)] != version {
		return nil
	}

	bucket, ok := c.entries[key]
	if !ok {
		bucket = make(map[uuid.UUID]memoryEntry)
		c.entries[key] = bucket
	}
	bucket[serviceID] = memoryEntry{
		slots:   append([]time.Time(nil), slots...),
		expires: c.now().Add(c.ttl),
	}
	return nil
}

func (c *MemorySlotCache) Invalidate(_ context.Context, key domain.CacheKey) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	c.gens[refOf(key)]++
	return nil
}

func (c *MemorySlotCache) InvalidateEmployee(_ context.Context, tenantID, employeeID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[employeeRef{tenantID: tenantID, employeeID: employeeID}]++
	for key := range c.entries {
		if key.TenantID == tenantID && key.EmployeeID == employeeID {
			delete(c.entries, key)
		}
	}
	return nil
}

var _ domain.SlotCache = (*MemorySlotCache)(nil)
