package config

import (
	"os"
	"strconv"
	"time"
)

// DBConfig 数据库配置
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	// 慢查询阈值，0 表示默认 100ms
	SlowQueryThreshold time.Duration `yaml:"slow_query_threshold"`
}

// StoreConfig 选择持久化实现：postgres（远端）或 sqlite（本地文件）
type StoreConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// MQConfig 消息队列配置
type MQConfig struct {
	URL     string `yaml:"url"`
	Enabled bool   `yaml:"enabled"`
}

// RedisConfig Redis配置
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Enabled  bool   `yaml:"enabled"`
}

// JWTConfig JWT配置
type JWTConfig struct {
	Secret string        `yaml:"secret"`
	TTL    time.Duration `yaml:"ttl"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port string `yaml:"port"`
	// 每个用户每秒允许的写请求数
	WriteRPS   float64 `yaml:"write_rps"`
	WriteBurst int     `yaml:"write_burst"`
}

// OtelConfig OpenTelemetry 配置
type OtelConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
	Version  string `yaml:"version"`
}

// NotifyConfig 推送中继配置
type NotifyConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// CacheConfig dashboard 缓存配置
type CacheConfig struct {
	DashboardTTL time.Duration `yaml:"dashboard_ttl"`
}

// WorkerConfig worker 配置
type WorkerConfig struct {
	MaxRetries   int64         `yaml:"max_retries"`
	DedupTTL     time.Duration `yaml:"dedup_ttl"`
	ReminderTick time.Duration `yaml:"reminder_tick"`
}

// OutboxConfig outbox dispatcher 配置
type OutboxConfig struct {
	Interval   time.Duration `yaml:"interval"`
	BatchSize  int           `yaml:"batch_size"`
	MaxRetries int           `yaml:"max_retries"`
}

// Config 是 server / worker / habitctl 共用的完整配置
type Config struct {
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
	DB     DBConfig     `yaml:"db"`
	Redis  RedisConfig  `yaml:"redis"`
	MQ     MQConfig     `yaml:"mq"`
	JWT    JWTConfig    `yaml:"jwt"`
	Otel   OtelConfig   `yaml:"otel"`
	Notify NotifyConfig `yaml:"notify"`
	Cache  CacheConfig  `yaml:"cache"`
	Worker WorkerConfig `yaml:"worker"`
	Outbox OutboxConfig `yaml:"outbox"`
}

// applyDefaults 填充未配置的字段
func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = ":8080"
	}
	if c.Server.WriteRPS <= 0 {
		c.Server.WriteRPS = 5
	}
	if c.Server.WriteBurst <= 0 {
		c.Server.WriteBurst = 10
	}
	if c.Store.Driver == "" {
		c.Store.Driver = "sqlite"
	}
	if c.Store.Path == "" {
		c.Store.Path = "data/superoutine.db"
	}
	if c.JWT.TTL == 0 {
		c.JWT.TTL = 24 * time.Hour
	}
	if c.Notify.Timeout == 0 {
		c.Notify.Timeout = 5 * time.Second
	}
	if c.Cache.DashboardTTL == 0 {
		c.Cache.DashboardTTL = 5 * time.Minute
	}
	if c.Worker.MaxRetries == 0 {
		c.Worker.MaxRetries = 3
	}
	if c.Worker.DedupTTL == 0 {
		c.Worker.DedupTTL = 24 * time.Hour
	}
	if c.Worker.ReminderTick == 0 {
		c.Worker.ReminderTick = time.Minute
	}
	if c.Outbox.Interval == 0 {
		c.Outbox.Interval = time.Second
	}
	if c.Outbox.BatchSize <= 0 {
		c.Outbox.BatchSize = 100
	}
	if c.Outbox.MaxRetries <= 0 {
		c.Outbox.MaxRetries = 5
	}
}

// OverrideDBFromEnv 从环境变量覆盖数据库配置
func OverrideDBFromEnv(cfg *DBConfig) {
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Port = p
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.Password = password
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Name = name
	}
}

// OverrideStoreFromEnv 从环境变量覆盖存储配置
func OverrideStoreFromEnv(cfg *StoreConfig) {
	if driver := os.Getenv("STORE_DRIVER"); driver != "" {
		cfg.Driver = driver
	}
	if path := os.Getenv("STORE_PATH"); path != "" {
		cfg.Path = path
	}
}

// OverrideMQFromEnv 从环境变量覆盖MQ配置
func OverrideMQFromEnv(cfg *MQConfig) {
	if url := os.Getenv("MQ_URL"); url != "" {
		cfg.URL = url
		cfg.Enabled = true
	}
}

// OverrideRedisFromEnv 从环境变量覆盖Redis配置
func OverrideRedisFromEnv(cfg *RedisConfig) {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Addr = addr
		cfg.Enabled = true
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Password = password
	}
}

// OverrideJWTFromEnv 从环境变量覆盖JWT配置
func OverrideJWTFromEnv(cfg *JWTConfig) {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.Secret = secret
	}
}

// OverrideServerFromEnv 从环境变量覆盖服务器配置
func OverrideServerFromEnv(cfg *ServerConfig) {
	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Port = port
	}
}

// OverrideOtelFromEnv 从环境变量覆盖 OpenTelemetry 配置
func OverrideOtelFromEnv(cfg *OtelConfig) {
	if endpoint := os.Getenv("OTEL_ENDPOINT"); endpoint != "" {
		cfg.Endpoint = endpoint
		cfg.Enabled = true
	}
}

// OverrideNotifyFromEnv 从环境变量覆盖推送配置
func OverrideNotifyFromEnv(cfg *NotifyConfig) {
	if url := os.Getenv("NOTIFY_URL"); url != "" {
		cfg.URL = url
	}
}
