package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀, 如 VGO_DIET_SERVER_ADDRESS
const EnvPrefix = "VGO_DIET"

// Config 应用配置结构
type Config struct {
	Server    ServerConfig    `mapstructure:"server" json:"server"`
	API       APIConfig       `mapstructure:"api" json:"api"`
	Notify    NotifyConfig    `mapstructure:"notify" json:"notify"`
	Session   SessionConfig   `mapstructure:"session" json:"session"`
	DevServer DevServerConfig `mapstructure:"devserver" json:"devserver"`
	Log       LogConfig       `mapstructure:"log" json:"log"`
}

// ServerConfig 后端服务配置
type ServerConfig struct {
	Address string `mapstructure:"address" json:"address"`
}

// APIConfig 接口配置
type APIConfig struct {
	BasePath string        `mapstructure:"base_path" json:"base_path"`
	Timeout  time.Duration `mapstructure:"timeout" json:"timeout"`
}

// NotifyConfig 错误提示配置
type NotifyConfig struct {
	Type      string        `mapstructure:"type" json:"type"` // memory, redis 或 none
	Window    time.Duration `mapstructure:"window" json:"window"`
	Key       string        `mapstructure:"key" json:"key"`
	Prefix    string        `mapstructure:"prefix" json:"prefix"` // Redis key 前缀
	RedisAddr string        `mapstructure:"redis_addr" json:"redis_addr"`
	RedisDB   int           `mapstructure:"redis_db" json:"redis_db"`
	RedisPass string        `mapstructure:"redis_pass" json:"-"`
}

// SessionConfig 登录态存储配置
type SessionConfig struct {
	Storage   string `mapstructure:"storage" json:"storage"` // file, redis 或 memory
	Path      string `mapstructure:"path" json:"path"`
	Prefix    string `mapstructure:"prefix" json:"prefix"`
	RedisAddr string `mapstructure:"redis_addr" json:"redis_addr"`
	RedisDB   int    `mapstructure:"redis_db" json:"redis_db"`
	RedisPass string `mapstructure:"redis_pass" json:"-"`
}

// DevServerConfig 开发代理配置
type DevServerConfig struct {
	Port   string `mapstructure:"port" json:"port"`
	Target string `mapstructure:"target" json:"target"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level" json:"level"`
	Format string `mapstructure:"format" json:"format"`
}

// DefaultSessionPath 默认的登录态文件路径
func DefaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".vgo-diet", "storage.json")
}

// Load 加载配置文件
// 参数: path 指定的配置文件路径, 为空时在 ./config 和 . 中查找 config.yaml
// 返回值: *Config 配置对象, error 错误信息
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	// 读取环境变量
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// 如果配置文件不存在，使用默认值
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "http://localhost:8080")
	v.SetDefault("api.base_path", "/api")
	v.SetDefault("api.timeout", 5*time.Second)
	v.SetDefault("notify.type", "memory")
	v.SetDefault("notify.window", 500*time.Millisecond)
	v.SetDefault("notify.key", "error-message")
	v.SetDefault("notify.prefix", "vgo-diet:notify")
	v.SetDefault("notify.redis_addr", "localhost:6379")
	v.SetDefault("notify.redis_db", 0)
	v.SetDefault("notify.redis_pass", "")
	v.SetDefault("session.storage", "file")
	v.SetDefault("session.path", DefaultSessionPath())
	v.SetDefault("session.prefix", "vgo-diet")
	v.SetDefault("session.redis_addr", "localhost:6379")
	v.SetDefault("session.redis_db", 0)
	v.SetDefault("session.redis_pass", "")
	v.SetDefault("devserver.port", "3000")
	v.SetDefault("devserver.target", "http://localhost:8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}
