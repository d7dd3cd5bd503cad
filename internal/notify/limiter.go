package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter 单飞锁: 窗口期内同一个 key 只允许获取一次
type Limiter interface {
	// Acquire 尝试获取锁, 获取成功后锁在 window 之后自动释放
	// 参数: ctx 上下文, key 锁名称, window 锁持有时长
	// 返回值: bool 是否获取成功, error 错误信息
	Acquire(ctx context.Context, key string, window time.Duration) (bool, error)

	// Reset 立即释放指定 key 的锁
	Reset(ctx context.Context, key string) error
}

// Clock 时间源, 便于测试时替换
type Clock interface {
	Now() time.Time
}

// SystemClock 系统时间
type SystemClock struct{}

// Now 返回当前时间
func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock 手动推进的时钟
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock 创建手动时钟
// 参数: start 起始时间
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now 返回当前时间
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance 将时钟向前推进 d
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// MemoryLimiter 进程内实现
type MemoryLimiter struct {
	mu    sync.Mutex
	clock Clock
	until map[string]time.Time
}

// NewMemoryLimiter 创建内存锁
// 参数: clock 时间源, 为 nil 时使用系统时间
// 返回值: *MemoryLimiter 实例
func NewMemoryLimiter(clock Clock) *MemoryLimiter {
	if clock == nil {
		clock = SystemClock{}
	}
	return &MemoryLimiter{
		clock: clock,
		until: make(map[string]time.Time),
	}
}

// Acquire 尝试获取锁
func (m *MemoryLimiter) Acquire(ctx context.Context, key string, window time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	if until, exists := m.until[key]; exists && now.Before(until) {
		return false, nil
	}
	m.until[key] = now.Add(window)
	return true, nil
}

// Reset 释放锁
func (m *MemoryLimiter) Reset(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.until, key)
	return nil
}

// RedisLimiter Redis 实现, 多个进程共享同一个窗口
type RedisLimiter struct {
	client *redis.Client
	prefix string
}

// NewRedisLimiter 创建 Redis 锁
// 参数: client Redis客户端, prefix key前缀
// 返回值: *RedisLimiter 实例
func NewRedisLimiter(client *redis.Client, prefix string) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: prefix}
}

// Acquire 使用 SET NX PX 获取锁, 过期由 Redis 负责
func (r *RedisLimiter) Acquire(ctx context.Context, key string, window time.Duration) (bool, error) {
	return r.client.SetNX(ctx, r.getKey(key), 1, window).Result()
}

// Reset 删除锁
func (r *RedisLimiter) Reset(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.getKey(key)).Err()
}

// Close 关闭 Redis 连接
func (r *RedisLimiter) Close() error {
	return r.client.Close()
}

// Key 返回锁在 Redis 中的完整 key
func (r *RedisLimiter) Key(key string) string {
	return r.getKey(key)
}

func (r *RedisLimiter) getKey(key string) string {
	return fmt.Sprintf("%s:%s", r.prefix, key)
}

// NoOpLimiter 不做限制, 每次都允许
type NoOpLimiter struct{}

// Acquire 总是成功
func (NoOpLimiter) Acquire(ctx context.Context, key string, window time.Duration) (bool, error) {
	return true, nil
}

// Reset 无操作
func (NoOpLimiter) Reset(ctx context.Context, key string) error {
	return nil
}

// DefaultRedisPrefix Redis 锁的默认 key 前缀
const DefaultRedisPrefix = "vgo-diet:notify"

// LimiterConfig 锁配置
type LimiterConfig struct {
	Type      string // memory, redis 或 none
	Prefix    string
	RedisAddr string
	RedisDB   int
	RedisPass string
	Clock     Clock
}

// NewLimiter 根据配置创建锁
// 参数: config 锁配置
// 返回值: Limiter 锁实例, error 错误信息
func NewLimiter(config LimiterConfig) (Limiter, error) {
	switch config.Type {
	case "", "memory":
		return NewMemoryLimiter(config.Clock), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     config.RedisAddr,
			DB:       config.RedisDB,
			Password: config.RedisPass,
		})
		prefix := config.Prefix
		if prefix == "" {
			prefix = DefaultRedisPrefix
		}
		return NewRedisLimiter(client, prefix), nil
	case "none":
		return NoOpLimiter{}, nil
	default:
		return nil, fmt.Errorf("unsupported notify limiter type: %s", config.Type)
	}
}
