package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/store"
)

// SnapshotCache 保存会话状态的快照。没有快照时 Load 返回 nil, nil
type SnapshotCache interface {
	Load(ctx context.Context, sessionID string) (*store.State, error)
	Save(ctx context.Context, sessionID string, st store.State) error
	Delete(ctx context.Context, sessionID string) error
}

type RedisCache struct {
	rdb        *redis.Client
	expiration time.Duration
}

func NewRedisCache(rdb *redis.Client, expiration time.Duration) *RedisCache {
	return &RedisCache{
		rdb:        rdb,
		expiration: expiration,
	}
}

func snapshotKey(sessionID string) string {
	return fmt.Sprintf("session_%s_snapshot", sessionID)
}

func (c *RedisCache) Load(ctx context.Context, sessionID string) (*store.State, error) {
	data, err := c.rdb.Get(ctx, snapshotKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var st store.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("无法解析会话快照: %w", err)
	}
	return &st, nil
}

func (c *RedisCache) Save(ctx context.Context, sessionID string, st store.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, snapshotKey(sessionID), data, c.expiration).Err()
}

func (c *RedisCache) Delete(ctx context.Context, sessionID string) error {
	return c.rdb.Del(ctx, snapshotKey(sessionID)).Err()
}
