package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// Redis key 前缀
const (
	refreshTokenKey    = "refresh_token:"
	userPermissionsKey = "user_permissions:"
)

// Store 会话存储：每个用户一个有效的刷新令牌和一份权限快照
type Store interface {
	Put(ctx context.Context, userID uint, refreshToken string, ttl time.Duration) error
	Get(ctx context.Context, userID uint) (string, bool, error)
	Invalidate(ctx context.Context, userID uint) error
	CachePermissions(ctx context.Context, userID uint, permissions []string, ttl time.Duration) error
	GetCachedPermissions(ctx context.Context, userID uint) ([]string, bool, error)
}

// Config Redis配置
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
	Prefix   string
}

// RedisStore Redis会话存储实现
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore 创建Redis会话存储
func NewRedisStore(config *Config) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", config.Host, config.Port),
		Password: config.Password,
		DB:       config.DB,
	})
	return NewRedisStoreWithClient(client, config.Prefix)
}

// NewRedisStoreWithClient 使用已有客户端创建会话存储
func NewRedisStoreWithClient(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
	}
}

// Close 关闭Redis连接
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping 测试Redis连接
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Put 保存刷新令牌，覆盖旧值使之前的令牌失效
func (s *RedisStore) Put(ctx context.Context, userID uint, refreshToken string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.refreshKey(userID), refreshToken, ttl).Err(); err != nil {
		return fmt.Errorf("保存刷新令牌失败: %w", err)
	}
	return nil
}

// Get 读取刷新令牌，不存在时返回 false
func (s *RedisStore) Get(ctx context.Context, userID uint) (string, bool, error) {
	token, err := s.client.Get(ctx, s.refreshKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("读取刷新令牌失败: %w", err)
	}
	return token, true, nil
}

// Invalidate 删除刷新令牌和权限缓存，会话不存在时同样成功
func (s *RedisStore) Invalidate(ctx context.Context, userID uint) error {
	if err := s.client.Del(ctx, s.refreshKey(userID), s.permissionsKey(userID)).Err(); err != nil {
		return fmt.Errorf("删除会话失败: %w", err)
	}
	return nil
}

// CachePermissions 缓存权限快照
func (s *RedisStore) CachePermissions(ctx context.Context, userID uint, permissions []string, ttl time.Duration) error {
	if permissions == nil {
		permissions = []string{}
	}
	data, err := json.Marshal(permissions)
	if err != nil {
		return fmt.Errorf("序列化权限失败: %w", err)
	}
	if err := s.client.Set(ctx, s.permissionsKey(userID), data, ttl).Err(); err != nil {
		return fmt.Errorf("缓存权限失败: %w", err)
	}
	return nil
}

// GetCachedPermissions 读取权限快照，不存在或内容损坏时返回 false
func (s *RedisStore) GetCachedPermissions(ctx context.Context, userID uint) ([]string, bool, error) {
	data, err := s.client.Get(ctx, s.permissionsKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("读取权限缓存失败: %w", err)
	}

	var permissions []string
	if err := json.Unmarshal(data, &permissions); err != nil {
		return nil, false, nil
	}
	return permissions, true, nil
}

func (s *RedisStore) refreshKey(userID uint) string {
	return s.prefix + refreshTokenKey + strconv.FormatUint(uint64(userID), 10)
}

func (s *RedisStore) permissionsKey(userID uint) string {
	return s.prefix + userPermissionsKey + strconv.FormatUint(uint64(userID), 10)
}
