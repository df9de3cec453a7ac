package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"

	"roomie-match-go/internal/model"
)

type redisKeyedStream struct {
	rdb *redis.Client
}

// NewRedisKeyedStream 创建基于 Redis 的 KeyedStream。
// 一个路径映射为一个 hash，子项是 hash 的字段；IncrChild 走 HINCRBY，
// 因此未读计数的并发自增不会丢失更新。
func NewRedisKeyedStream(rdb *redis.Client) KeyedStream {
	return &redisKeyedStream{rdb: rdb}
}

// pathKey 把层级路径转换为 Redis 键，如 chats/42/messages -> rm:chats:42:messages。
func pathKey(path string) string {
	return "rm:" + strings.ReplaceAll(path, "/", ":")
}

func (s *redisKeyedStream) SetChild(ctx context.Context, path, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", path, key, err)
	}
	if err := s.rdb.HSet(ctx, pathKey(path), key, data).Err(); err != nil {
		return fmt.Errorf("set %s/%s: %w", path, key, err)
	}
	return nil
}

func (s *redisKeyedStream) GetChild(ctx context.Context, path, key string, out interface{}) error {
	data, err := s.rdb.HGet(ctx, pathKey(path), key).Result()
	if errors.Is(err, redis.Nil) {
		return model.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get %s/%s: %w", path, key, err)
	}
	if err := json.Unmarshal([]byte(data), out); err != nil {
		return fmt.Errorf("decode %s/%s: %w", path, key, err)
	}
	return nil
}

func (s *redisKeyedStream) Children(ctx context.Context, path string) (map[string]json.RawMessage, error) {
	entries, err := s.rdb.HGetAll(ctx, pathKey(path)).Result()
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", path, err)
	}
	result := make(map[string]json.RawMessage, len(entries))
	for k, v := range entries {
		result[k] = json.RawMessage(v)
	}
	return result, nil
}

func (s *redisKeyedStream) UpdateChildren(ctx context.Context, path string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	pairs := make([]interface{}, 0, len(updates)*2)
	for k, v := range updates {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s/%s: %w", path, k, err)
		}
		pairs = append(pairs, k, data)
	}
	if err := s.rdb.HSet(ctx, pathKey(path), pairs...).Err(); err != nil {
		return fmt.Errorf("update %s: %w", path, err)
	}
	return nil
}

func (s *redisKeyedStream) IncrChild(ctx context.Context, path, key string, delta int64) (int64, error) {
	val, err := s.rdb.HIncrBy(ctx, pathKey(path), key, delta).Result()
	if err != nil {
		return 0, fmt.Errorf("incr %s/%s: %w", path, key, err)
	}
	return val, nil
}

func (s *redisKeyedStream) Remove(ctx context.Context, path string) error {
	if err := s.rdb.Del(ctx, pathKey(path)).Err(); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

func (s *redisKeyedStream) Publish(ctx context.Context, channel string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode publish %s: %w", channel, err)
	}
	if err := s.rdb.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", channel, err)
	}
	return nil
}

func (s *redisKeyedStream) Subscribe(ctx context.Context, channel string) (<-chan []byte, func()) {
	pubsub := s.rdb.Subscribe(ctx, channel)
	out := make(chan []byte)
	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			select {
			case out <- []byte(msg.Payload):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, func() { _ = pubsub.Close() }
}
