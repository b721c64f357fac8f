package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Database  DatabaseConfig  `yaml:"database"`
	SQLite    SQLiteConfig    `yaml:"sqlite"`
	Redis     RedisConfig     `yaml:"redis"`
	CORS      CORSConfig      `yaml:"cors"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Snapshot  SnapshotConfig  `yaml:"snapshot"`
}

type ServerConfig struct {
	Port            string  `yaml:"port"`
	GinMode         string  `yaml:"gin_mode"`
	Environment     string  `yaml:"environment"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
}

// StorageConfig selects the slot backend holding the dealer collection.
type StorageConfig struct {
	Backend string `yaml:"backend"` // memory, redis, postgres, sqlite
	SlotKey string `yaml:"slot_key"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type DashboardConfig struct {
	DefaultPageSize int           `yaml:"default_page_size"`
	NoticeDuration  time.Duration `yaml:"notice_duration"`
}

// SnapshotConfig controls periodic uploads of the dealer collection to S3.
type SnapshotConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Schedule        string `yaml:"schedule"`
	Prefix          string `yaml:"prefix"`
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			GinMode:         "debug",
			Environment:     "development",
			RateLimitPerSec: 20,
			RateLimitBurst:  40,
		},
		Storage: StorageConfig{
			Backend: BackendMemory,
			SlotKey: "dealers_data",
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    "5432",
			User:    "admin",
			DBName:  "dealers",
			SSLMode: "disable",
		},
		SQLite: SQLiteConfig{Path: "./dealers.db"},
		Redis: RedisConfig{
			Host: "localhost",
			Port: "6379",
		},
		CORS: CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
		Dashboard: DashboardConfig{
			DefaultPageSize: 10,
			NoticeDuration:  3 * time.Second,
		},
		Snapshot: SnapshotConfig{
			Schedule: "0 3 * * *",
			Prefix:   "snapshots",
			Region:   "ap-northeast-2",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE and finally environment variables (a .env file is read first).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadYAML(path, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config file %s: %w", path, err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Port = getEnv("SERVER_PORT", cfg.Server.Port)
	cfg.Server.GinMode = getEnv("GIN_MODE", cfg.Server.GinMode)
	cfg.Server.Environment = getEnv("ENVIRONMENT", cfg.Server.Environment)
	cfg.Server.RateLimitPerSec = parseFloat(getEnv("RATE_LIMIT_PER_SEC", ""), cfg.Server.RateLimitPerSec)
	cfg.Server.RateLimitBurst = parseInt(getEnv("RATE_LIMIT_BURST", ""), cfg.Server.RateLimitBurst)

	cfg.Storage.Backend = strings.ToLower(getEnv("STORAGE_BACKEND", cfg.Storage.Backend))
	cfg.Storage.SlotKey = getEnv("STORAGE_SLOT_KEY", cfg.Storage.SlotKey)

	cfg.Database.Host = getEnv("DB_HOST", cfg.Database.Host)
	cfg.Database.Port = getEnv("DB_PORT", cfg.Database.Port)
	cfg.Database.User = getEnv("DB_USER", cfg.Database.User)
	cfg.Database.Password = getEnv("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.DBName = getEnv("DB_NAME", cfg.Database.DBName)
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", cfg.Database.SSLMode)

	cfg.SQLite.Path = getEnv("SQLITE_PATH", cfg.SQLite.Path)

	cfg.Redis.Host = getEnv("REDIS_HOST", cfg.Redis.Host)
	cfg.Redis.Port = getEnv("REDIS_PORT", cfg.Redis.Port)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", ""), cfg.Redis.DB)

	if origins := getEnv("ALLOWED_ORIGINS", ""); origins != "" {
		cfg.CORS.AllowedOrigins = parseSlice(origins)
	}

	cfg.Dashboard.DefaultPageSize = parseInt(getEnv("DEFAULT_PAGE_SIZE", ""), cfg.Dashboard.DefaultPageSize)
	cfg.Dashboard.NoticeDuration = parseDuration(getEnv("NOTICE_DURATION", ""), cfg.Dashboard.NoticeDuration)

	cfg.Snapshot.Enabled = parseBool(getEnv("SNAPSHOT_ENABLED", ""), cfg.Snapshot.Enabled)
	cfg.Snapshot.Schedule = getEnv("SNAPSHOT_SCHEDULE", cfg.Snapshot.Schedule)
	cfg.Snapshot.Prefix = getEnv("SNAPSHOT_PREFIX", cfg.Snapshot.Prefix)
	cfg.Snapshot.Region = getEnv("AWS_REGION", cfg.Snapshot.Region)
	cfg.Snapshot.Bucket = getEnv("AWS_S3_BUCKET", cfg.Snapshot.Bucket)
	cfg.Snapshot.AccessKeyID = getEnv("AWS_ACCESS_KEY_ID", cfg.Snapshot.AccessKeyID)
	cfg.Snapshot.SecretAccessKey = getEnv("AWS_SECRET_ACCESS_KEY", cfg.Snapshot.SecretAccessKey)
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory, BackendRedis, BackendPostgres, BackendSQLite:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if strings.TrimSpace(c.Storage.SlotKey) == "" {
		return fmt.Errorf("storage slot key must not be empty")
	}
	if c.Dashboard.DefaultPageSize <= 0 {
		log.Printf("dashboard default page size %d is invalid; defaulting to 10", c.Dashboard.DefaultPageSize)
		c.Dashboard.DefaultPageSize = 10
	}
	if c.Dashboard.NoticeDuration <= 0 {
		c.Dashboard.NoticeDuration = 3 * time.Second
	}
	if c.Snapshot.Enabled && c.Snapshot.Bucket == "" {
		return fmt.Errorf("snapshot enabled but AWS_S3_BUCKET is empty")
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Invalid integer %s, using default %d", s, fallback)
		return fallback
	}
	return n
}

func parseFloat(s string, fallback float64) float64 {
	if s == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		log.Printf("Invalid number %s, using default %v", s, fallback)
		return fallback
	}
	return f
}

func parseBool(s string, fallback bool) bool {
	if s == "" {
		return fallback
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return fallback
	}
	return b
}

func parseSlice(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
