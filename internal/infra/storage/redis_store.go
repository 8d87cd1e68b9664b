package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore 以 Redis 字符串保存对象，键为 "<bucket>/<key>"
type RedisStore struct {
	client    *redis.Client
	namespace string
}

// NewRedisStore 创建 Redis 对象存储
func NewRedisStore(client *redis.Client, namespace string) *RedisStore {
	return &RedisStore{client: client, namespace: namespace}
}

func (s *RedisStore) fullKey(key string) string {
	if s.namespace == "" {
		return key
	}
	return s.namespace + "/" + key
}

// Get 读取对象
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.fullKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("从Redis读取对象失败: %w", err)
	}
	return data, nil
}

// Put 覆盖写入对象，不设置过期时间
func (s *RedisStore) Put(ctx context.Context, key string, data []byte, _ string) error {
	if err := s.client.Set(ctx, s.fullKey(key), data, 0).Err(); err != nil {
		return fmt.Errorf("写入Redis对象失败: %w", err)
	}
	return nil
}

// Describe 存储描述
func (s *RedisStore) Describe() string {
	return fmt.Sprintf("Redis (%s)", s.namespace)
}
