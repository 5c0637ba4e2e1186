package config

import (
	"fmt"
	"os"
	"time"

	"github.com/gogotex/data-service/internal/storage"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Storage backends for documents.
const (
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

// DataCollection is the fixed collection holding every document.
const DataCollection = "data"

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	MinIO     storage.MinIOConfig
	LogLevel  string
}

type ServerConfig struct {
	Port         string
	Host         string
	AdminPort    string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// MaxBodyBytes caps POST bodies; 0 means unbounded.
	MaxBodyBytes int64
}

type MongoDBConfig struct {
	Settings   MongoSettings
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
	Backend    string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	UseRedis      bool
	WindowSeconds int
}

// Flags returns the command line flags understood by LoadConfig.
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("data-service", pflag.ContinueOnError)
	fs.String("port", "5000", "public listener port (SERVER_PORT)")
	fs.String("admin-port", "9090", "admin listener port, empty disables it (ADMIN_PORT)")
	fs.String("log-level", "info", "debug|info|warn|error (LOG_LEVEL)")
	fs.String("env-file", ".env", "dotenv file loaded before reading the environment (ENV_FILE)")
	return fs
}

// LoadConfig loads configuration from flags, environment variables and a .env file.
// fs may be nil; changed flags override the environment.
func LoadConfig(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("ENV_FILE", ".env")
	v.SetDefault("SERVER_PORT", "5000")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("ADMIN_PORT", "9090")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_BODY_BYTES", 0)
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("STORAGE_BACKEND", BackendMongo)
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("RATE_LIMIT_ENABLED", false)
	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("RATE_LIMIT_USE_REDIS", false)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)
	v.SetDefault("MINIO_BUCKET", "data-snapshots")

	if fs != nil {
		for key, name := range map[string]string{
			"SERVER_PORT": "port",
			"ADMIN_PORT":  "admin-port",
			"LOG_LEVEL":   "log-level",
			"ENV_FILE":    "env-file",
		} {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	// existing environment wins over the file
	if err := godotenv.Load(v.GetString("ENV_FILE")); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	mongo := ResolveMongo(EnvSnapshot())

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("SERVER_PORT"),
			Host:         v.GetString("SERVER_HOST"),
			AdminPort:    v.GetString("ADMIN_PORT"),
			Environment:  v.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			MaxBodyBytes: v.GetInt64("MAX_BODY_BYTES"),
		},
		MongoDB: MongoDBConfig{
			Settings:   mongo,
			URI:        mongo.URI(),
			Database:   mongo.Database,
			Collection: DataCollection,
			Timeout:    time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
			Backend:    v.GetString("STORAGE_BACKEND"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       0,
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         v.GetInt("RATE_LIMIT_BURST"),
			UseRedis:      v.GetBool("RATE_LIMIT_USE_REDIS"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		MinIO: storage.MinIOConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
			Bucket:    v.GetString("MINIO_BUCKET"),
		},
		LogLevel: v.GetString("LOG_LEVEL"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.MongoDB.Backend {
	case BackendMongo, BackendMemory:
	default:
		return fmt.Errorf("STORAGE_BACKEND must be %q or %q (got %q)", BackendMongo, BackendMemory, c.MongoDB.Backend)
	}
	if c.Server.MaxBodyBytes < 0 {
		return fmt.Errorf("MAX_BODY_BYTES must not be negative (got %d)", c.Server.MaxBodyBytes)
	}
	if c.MongoDB.Timeout <= 0 {
		return fmt.Errorf("MONGODB_TIMEOUT must be positive")
	}
	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst < 0) {
		return fmt.Errorf("rate limit needs RATE_LIMIT_RPS > 0 and RATE_LIMIT_BURST >= 0")
	}
	return nil
}
