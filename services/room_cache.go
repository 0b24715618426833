package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"hotel-booking/models"
)

const roomCachePrefix = "rooms:list:"

// RoomCache holds room list results keyed by query. Failures are logged and
// treated as a miss, never surfaced to the caller.
type RoomCache interface {
	Get(ctx context.Context, q models.RoomQuery) ([]models.Room, bool)
	Set(ctx context.Context, q models.RoomQuery, rooms []models.Room)
	Invalidate(ctx context.Context)
}

type RedisRoomCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisRoomCache(client *redis.Client, ttl time.Duration) *RedisRoomCache {
	return &RedisRoomCache{Client: client, TTL: ttl}
}

func roomCacheKey(q models.RoomQuery) string {
	b, _ := json.Marshal(q)
	return roomCachePrefix + string(b)
}

func (c *RedisRoomCache) Get(ctx context.Context, q models.RoomQuery) ([]models.Room, bool) {
	raw, err := c.Client.Get(ctx, roomCacheKey(q)).Bytes()
	if err != nil {
		if err != redis.Nil {
			zap.L().Warn("room cache get failed", zap.Error(err))
		}
		return nil, false
	}
	var rooms []models.Room
	if err := json.Unmarshal(raw, &rooms); err != nil {
		zap.L().Warn("room cache entry corrupt", zap.Error(err))
		return nil, false
	}
	return rooms, true
}

func (c *RedisRoomCache) Set(ctx context.Context, q models.RoomQuery, rooms []models.Room) {
	raw, err := json.Marshal(rooms)
	if err != nil {
		return
	}
	if err := c.Client.Set(ctx, roomCacheKey(q), raw, c.TTL).Err(); err != nil {
		zap.L().Warn("room cache set failed", zap.Error(err))
	}
}

func (c *RedisRoomCache) Invalidate(ctx context.Context) {
	iter := c.Client.Scan(ctx, 0, roomCachePrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		zap.L().Warn("room cache scan failed", zap.Error(err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.Client.Del(ctx, keys...).Err(); err != nil {
		zap.L().Warn("room cache invalidate failed", zap.Error(err))
	}
}
