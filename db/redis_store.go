package db

import (
	"context"
	"fmt"
	"time"

	model_entry "network-rrd/models/if_entry"
	model_device "network-rrd/models/network_device"

	"github.com/go-redis/redis/v8"
)

// RedisStore keeps the latest counters of every interface as a redis hash,
// keyed <prefix>:<hostname>:<index>.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (rs *RedisStore) Name() string {
	return "redis"
}

func (rs *RedisStore) Key(hostname, index string) string {
	return rs.prefix + ":" + hostname + ":" + index
}

func (rs *RedisStore) Save(ctx context.Context, hostname string, r model_entry.InterfaceRecord, at time.Time) error {
	key := rs.Key(hostname, r.Index)

	err := rs.client.HSet(ctx, key,
		"descr", r.Description,
		"in", r.InOctets,
		"out", r.OutOctets,
		"time", at.Unix(),
	).Err()
	if err != nil {
		return fmt.Errorf("failed to store %s in redis: %w", key, err)
	}

	if rs.ttl > 0 {
		if err := rs.client.Expire(ctx, key, rs.ttl).Err(); err != nil {
			return fmt.Errorf("failed to set ttl for key %s: %w", key, err)
		}
	}
	return nil
}

// Write stores every interface of device; it stops at the first failure.
func (rs *RedisStore) Write(ctx context.Context, device *model_device.NetworkDevice) error {
	for _, r := range device.Interfaces {
		if err := rs.Save(ctx, device.Hostname, r, device.Time); err != nil {
			return err
		}
	}
	return nil
}
