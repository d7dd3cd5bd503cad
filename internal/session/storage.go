package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// 持久化使用的 key
const (
	KeyToken    = "token"
	KeyUserInfo = "userInfo"
)

// ErrCorruptStorage 存储文件内容无法解析
var ErrCorruptStorage = errors.New("存储文件已损坏")

// Storage 字符串键值持久化存储
type Storage interface {
	// Get 读取 key, 不存在时返回 ok=false
	Get(key string) (value string, ok bool, err error)

	// Set 写入 key
	Set(key, value string) error

	// Remove 删除 key, key 不存在不报错
	Remove(key string) error
}

// MemoryStorage 内存存储, 进程退出即丢失
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryStorage 创建内存存储
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string]string)}
}

// Get 读取 key
func (m *MemoryStorage) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

// Set 写入 key
func (m *MemoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// Remove 删除 key
func (m *MemoryStorage) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// FileStorage 将所有 key 保存在一个 JSON 文件中
type FileStorage struct {
	path   string
	logger *zap.Logger
	mu     sync.Mutex
}

// NewFileStorage 创建文件存储
// 参数: path JSON 文件路径, 所在目录不存在时在首次写入时创建; logger 日志记录器, 可为 nil
// 返回值: *FileStorage 实例
func NewFileStorage(path string, logger *zap.Logger) *FileStorage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStorage{path: path, logger: logger}
}

// Path 返回文件路径
func (f *FileStorage) Path() string {
	return f.path
}

// Get 读取 key
func (f *FileStorage) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := data[key]
	return v, ok, nil
}

// Set 写入 key
func (f *FileStorage) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.readForWrite()
	if err != nil {
		return err
	}
	data[key] = value
	return f.write(data)
}

// Remove 删除 key
func (f *FileStorage) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.readForWrite()
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)
	return f.write(data)
}

func (f *FileStorage) read() (map[string]string, error) {
	data := make(map[string]string)
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return data, nil
	}
	if err != nil {
		return nil, fmt.Errorf("读取存储文件失败: %w", err)
	}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptStorage, err)
	}
	return data, nil
}

// readForWrite 损坏的文件按空内容处理, 下一次写入会覆盖它
func (f *FileStorage) readForWrite() (map[string]string, error) {
	data, err := f.read()
	if errors.Is(err, ErrCorruptStorage) {
		f.logger.Warn("storage file is corrupt, overwriting",
			zap.String("path", f.path),
			zap.Error(err))
		return make(map[string]string), nil
	}
	return data, err
}

func (f *FileStorage) write(data map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("创建存储目录失败: %w", err)
	}
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化存储内容失败: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0600); err != nil {
		return fmt.Errorf("写入存储文件失败: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("写入存储文件失败: %w", err)
	}
	return nil
}

// RedisStorage Redis 存储, 多个终端共享同一个登录态
type RedisStorage struct {
	client *redis.Client
	prefix string
}

// NewRedisStorage 创建 Redis 存储
// 参数: client Redis客户端, prefix key前缀
// 返回值: *RedisStorage 实例
func NewRedisStorage(client *redis.Client, prefix string) *RedisStorage {
	return &RedisStorage{client: client, prefix: prefix}
}

// Get 读取 key
func (r *RedisStorage) Get(key string) (string, bool, error) {
	v, err := r.client.Get(context.Background(), r.getKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Set 写入 key, 不设置过期时间
func (r *RedisStorage) Set(key, value string) error {
	return r.client.Set(context.Background(), r.getKey(key), value, 0).Err()
}

// Remove 删除 key
func (r *RedisStorage) Remove(key string) error {
	return r.client.Del(context.Background(), r.getKey(key)).Err()
}

// Close 关闭 Redis 连接
func (r *RedisStorage) Close() error {
	return r.client.Close()
}

func (r *RedisStorage) getKey(key string) string {
	return fmt.Sprintf("%s:%s", r.prefix, key)
}

// StorageConfig 存储配置
type StorageConfig struct {
	Type      string // file, redis 或 memory
	Path      string
	Prefix    string
	RedisAddr string
	RedisDB   int
	RedisPass string
	Logger    *zap.Logger
}

// NewStorage 根据配置创建存储
// 参数: config 存储配置
// 返回值: Storage 存储实例, error 错误信息
func NewStorage(config StorageConfig) (Storage, error) {
	switch config.Type {
	case "", "file":
		if config.Path == "" {
			return nil, fmt.Errorf("file storage requires a path")
		}
		return NewFileStorage(config.Path, config.Logger), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     config.RedisAddr,
			DB:       config.RedisDB,
			Password: config.RedisPass,
		})
		prefix := config.Prefix
		if prefix == "" {
			prefix = "vgo-diet"
		}
		return NewRedisStorage(client, prefix), nil
	case "memory":
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unsupported session storage type: %s", config.Type)
	}
}
