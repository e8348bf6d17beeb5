package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

const (
	DocStoreJSONBin = "jsonbin"
	DocStoreMySQL   = "mysql"
	DocStoreMemory  = "memory"
)

var ErrMasterKeyRequired = errors.New("doc_store.master_key is required for the jsonbin document store")

type Config struct {
	Server    ServerConfig
	DocStore  DocStoreConfig `mapstructure:"doc_store"`
	Database  DatabaseConfig
	JWT       JWTConfig
	Storage   StorageConfig
	Tracing   TracingConfig `mapstructure:"tracing"`
	Redis     RedisConfig
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// 配置文件所在目录，供热加载使用
	Path string `mapstructure:"-"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

type ServerConfig struct {
	Port string
	Mode string
}

// DocStoreConfig 文档存储配置，每个集合对应一个 bin
type DocStoreConfig struct {
	Type           string `mapstructure:"type"`
	BaseURL        string `mapstructure:"base_url"`
	MasterKey      string `mapstructure:"master_key"`
	EmployeesBin   string `mapstructure:"employees_bin"`
	EvaluationsBin string `mapstructure:"evaluations_bin"`
	AnswersBin     string `mapstructure:"answers_bin"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

func (c DocStoreConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Bins 集合名到 bin ID 的映射
func (c DocStoreConfig) Bins() map[string]string {
	return map[string]string{
		"employees":   c.EmployeesBin,
		"evaluations": c.EvaluationsBin,
		"answers":     c.AnswersBin,
	}
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
	MinioSecure   bool   `mapstructure:"minio_secure"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// DashboardConfig 仪表盘图表使用的问题文本
type DashboardConfig struct {
	LeadershipQuestion string `mapstructure:"leadership_question"`
	DelegationQuestion string `mapstructure:"delegation_question"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("doc_store.type", DocStoreJSONBin)
	v.SetDefault("doc_store.base_url", "https://api.jsonbin.io/v3")
	v.SetDefault("doc_store.timeout_seconds", 10)
	v.SetDefault("jwt.expire_hours", 1)
	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", "uploads")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parsetime", true)
	v.SetDefault("rate_limit.max_requests", 1000)
	v.SetDefault("rate_limit.window_minutes", 1)
	v.SetDefault("dashboard.leadership_question", "¿Cómo calificaría su capacidad de liderazgo?")
	v.SetDefault("dashboard.delegation_question", "¿Confía y delega responsabilidades en su equipo?")
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("EVAL")
	v.AutomaticEnv()

	setDefaults(v)

	// Document store
	v.BindEnv("doc_store.type", "DOCSTORE_TYPE")
	v.BindEnv("doc_store.base_url", "DOCSTORE_BASE_URL")
	v.BindEnv("doc_store.master_key", "DOCSTORE_MASTER_KEY")
	v.BindEnv("doc_store.employees_bin", "DOCSTORE_EMPLOYEES_BIN")
	v.BindEnv("doc_store.evaluations_bin", "DOCSTORE_EVALUATIONS_BIN")
	v.BindEnv("doc_store.answers_bin", "DOCSTORE_ANSWERS_BIN")

	// Database
	v.BindEnv("database.host", "DATABASE_HOST")
	v.BindEnv("database.port", "DATABASE_PORT")
	v.BindEnv("database.user", "DATABASE_USER")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "DATABASE_NAME")

	// JWT
	v.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	v.BindEnv("redis.enabled", "REDIS_ENABLED")
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	v.BindEnv("server.mode", "SERVER_MODE")

	// Storage
	v.BindEnv("storage.type", "STORAGE_TYPE")
	v.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	v.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	v.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	v.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Tracing
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.Path = path
	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	// 生产环境校验 JWT Secret 强度
	if c.Server.Mode == "release" && len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(c.JWT.Secret))
	}

	switch c.DocStore.Type {
	case DocStoreJSONBin:
		if c.DocStore.MasterKey == "" && c.Server.Mode == "release" {
			return ErrMasterKeyRequired
		}
	case DocStoreMySQL, DocStoreMemory:
	default:
		return fmt.Errorf("unknown doc_store.type %q", c.DocStore.Type)
	}

	return nil
}
