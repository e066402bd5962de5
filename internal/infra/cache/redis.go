package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/appointment"
)

const keyPrefix = "availability"

// RedisSlotCache stores one hash per (tenant, employee, day) whose fields
// are service IDs. A per-employee set indexes the day hashes so a calendar
// change can drop them all, and a per-employee counter carries the
// generation that Set watches.
type RedisSlotCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSlotCache(rdb *redis.Client, ttl time.Duration) *RedisSlotCache {
	return &RedisSlotCache{rdb: rdb, ttl: ttl}
}

// NewRedisClient parses a redis:// URL and checks the connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

func dayKey(key domain.CacheKey) string {
	return keyPrefix + ":" + key.String()
}

func indexKey(tenantID, employeeID uuid.UUID) string {
	return keyPrefix + ":idx:" + tenantID.String() + ":" + employeeID.String()
}

func genKey(tenantID, employeeID uuid.UUID) string {
	return keyPrefix + ":gen:" + tenantID.String() + ":" + employeeID.String()
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readGen(ctx context.Context, cmd getter, key string) (uint64, error) {
	v, err := cmd.Get(ctx, key).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func (c *RedisSlotCache) Get(ctx context.Context, key domain.CacheKey, serviceID uuid.UUID) ([]time.Time, bool, error) {
	raw, err := c.rdb.HGet(ctx, dayKey(key), serviceID.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var slots []time.Time
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, false, err
	}
	return slots, true, nil
}

func (c *RedisSlotCache) Version(ctx context.Context, key domain.CacheKey) (uint64, error) {
	return readGen(ctx, c.rdb, genKey(key.TenantID, key.EmployeeID))
}

func (c *RedisSlotCache) Set(ctx context.Context, key domain.CacheKey, serviceID uuid.UUID, slots []time.Time, version uint64) error {
	if slots == nil {
		slots = []time.Time{}
	}
	payload, err := json.Marshal(slots)
	if err != nil {
		return err
	}

	hk := dayKey(key)
	ik := indexKey(key.TenantID, key.EmployeeID)
	gk := genKey(key.TenantID, key.EmployeeID)
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		gen, err := readGen(ctx, tx, gk)
		if err != nil {
			return err
		}
		if gen != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, hk, serviceID.String(), payload)
			pipe.Expire(ctx, hk, c.ttl)
			pipe.SAdd(ctx, ik, hk)
			pipe.Expire(ctx, ik, c.ttl)
			return nil
		})
		return err
	}, gk)
	// An invalidation raced the write; the slots are stale anyway.
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

func (c *RedisSlotCache) Invalidate(ctx context.Context, key domain.CacheKey) error {
	hk := dayKey(key)
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey(key.TenantID, key.EmployeeID))
		pipe.Del(ctx, hk)
		pipe.SRem(ctx, indexKey(key.TenantID, key.EmployeeID), hk)
		return nil
	})
	return err
}

func (c *RedisSlotCache) InvalidateEmployee(ctx context.Context, tenantID, employeeID uuid.UUID) error {
	if err := c.rdb.Incr(ctx, genKey(tenantID, employeeID)).Err(); err != nil {
		return err
	}
	ik := indexKey(tenantID, employeeID)
	keys, err := c.rdb.SMembers(ctx, ik).Result()
	if err != nil {
		return err
	}
	return c.rdb.Del(ctx, append(keys, ik)...).Err()
}

var _ domain.SlotCache = (*RedisSlotCache)(nil)
