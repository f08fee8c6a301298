package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `json:"server" yaml:"server"`
	Database DatabaseConfig `json:"database" yaml:"database"`
	Cache    CacheConfig    `json:"cache" yaml:"cache"`
	Storage  StorageConfig  `json:"storage" yaml:"storage"`
	Pricing  PricingConfig  `json:"pricing" yaml:"pricing"`
	Logging  LoggingConfig  `json:"logging" yaml:"logging"`
	Workers  WorkersConfig  `json:"workers" yaml:"workers"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host            string        `json:"host" yaml:"host"`
	Port            int           `json:"port" yaml:"port"`
	Mode            string        `json:"mode" yaml:"mode"`
	ReadTimeout     time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout" yaml:"write_timeout"`
	IdleTimeout     time.Duration `json:"idle_timeout" yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	URL            string        `json:"url" yaml:"url"`
	Host           string        `json:"host" yaml:"host"`
	Port           int           `json:"port" yaml:"port"`
	User           string        `json:"user" yaml:"user"`
	Password       string        `json:"password" yaml:"password"`
	DBName         string        `json:"db_name" yaml:"db_name"`
	SSLMode        string        `json:"ssl_mode" yaml:"ssl_mode"`
	MaxConnections int           `json:"max_connections" yaml:"max_connections"`
	MaxIdleConns   int           `json:"max_idle_conns" yaml:"max_idle_conns"`
	MaxLifetime    time.Duration `json:"max_lifetime" yaml:"max_lifetime"`
	AutoMigrate    bool          `json:"auto_migrate" yaml:"auto_migrate"`
}

// CacheConfig selects the dashboard cache backend. An empty RedisAddr keeps
// the cache in process memory.
type CacheConfig struct {
	RedisAddr     string        `json:"redis_addr" yaml:"redis_addr"`
	RedisPassword string        `json:"redis_password" yaml:"redis_password"`
	RedisDB       int           `json:"redis_db" yaml:"redis_db"`
	TTL           time.Duration `json:"ttl" yaml:"ttl"`
}

// StorageConfig configures the S3 report archive
type StorageConfig struct {
	Bucket         string        `json:"bucket" yaml:"bucket"`
	Region         string        `json:"region" yaml:"region"`
	Endpoint       string        `json:"endpoint" yaml:"endpoint"`
	AccessKey      string        `json:"access_key" yaml:"access_key"`
	SecretKey      string        `json:"secret_key" yaml:"secret_key"`
	Prefix         string        `json:"prefix" yaml:"prefix"`
	PresignExpires time.Duration `json:"presign_expires" yaml:"presign_expires"`
}

// Enabled reports whether report archiving is configured
func (c *StorageConfig) Enabled() bool {
	return c.Bucket != ""
}

// PricingConfig holds the reference carbon credit price
type PricingConfig struct {
	CreditPrice float64 `json:"credit_price" yaml:"credit_price"`
	Currency    string  `json:"currency" yaml:"currency"`
}

// LoggingConfig
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

// WorkersConfig
type WorkersConfig struct {
	DashboardRefresh string `json:"dashboard_refresh" yaml:"dashboard_refresh"`
}

// Default returns the configuration used when nothing else is provided
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			Mode:            "debug",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Database: DatabaseConfig{
			Host:           "localhost",
			Port:           5432,
			User:           os.Getenv("USER"),
			DBName:         "agrocarbon",
			SSLMode:        "disable",
			MaxConnections: 25,
			MaxIdleConns:   5,
			MaxLifetime:    30 * time.Minute,
			AutoMigrate:    true,
		},
		Cache: CacheConfig{
			TTL: 5 * time.Minute,
		},
		Storage: StorageConfig{
			Region:         "us-east-1",
			Prefix:         "reports/",
			PresignExpires: 15 * time.Minute,
		},
		Pricing: PricingConfig{
			CreditPrice: 50,
			Currency:    "BRL",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Workers: WorkersConfig{
			DashboardRefresh: "@every 5m",
		},
	}
}

// LoadConfig loads configuration from file, .env and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := Default()

	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := decode(configPath, data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// .env only fills variables that are not already set
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	overrideWithEnv(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func decode(path string, data []byte, config *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, config)
	default:
		return json.Unmarshal(data, config)
	}
}

func overrideWithEnv(config *Config) {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		config.Server.Mode = mode
	}

	if url := os.Getenv("DATABASE_URL"); url != "" {
		config.Database.URL = url
	}
	if dbHost := os.Getenv("DATABASE_HOST"); dbHost != "" {
		config.Database.Host = dbHost
	}
	if dbPort := os.Getenv("DATABASE_PORT"); dbPort != "" {
		if p, err := strconv.Atoi(dbPort); err == nil {
			config.Database.Port = p
		}
	}
	if dbUser := os.Getenv("DATABASE_USER"); dbUser != "" {
		config.Database.User = dbUser
	}
	if dbPass := os.Getenv("DATABASE_PASSWORD"); dbPass != "" {
		config.Database.Password = dbPass
	}
	if dbName := os.Getenv("DATABASE_DBNAME"); dbName != "" {
		config.Database.DBName = dbName
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		config.Cache.RedisAddr = addr
	}
	if pass := os.Getenv("REDIS_PASSWORD"); pass != "" {
		config.Cache.RedisPassword = pass
	}

	if bucket := os.Getenv("S3_BUCKET"); bucket != "" {
		config.Storage.Bucket = bucket
	}
	if region := os.Getenv("S3_REGION"); region != "" {
		config.Storage.Region = region
	}
	if endpoint := os.Getenv("S3_ENDPOINT"); endpoint != "" {
		config.Storage.Endpoint = endpoint
	}
	if key := os.Getenv("S3_ACCESS_KEY"); key != "" {
		config.Storage.AccessKey = key
	}
	if secret := os.Getenv("S3_SECRET_KEY"); secret != "" {
		config.Storage.SecretKey = secret
	}

	if price := os.Getenv("CREDIT_PRICE"); price != "" {
		if p, err := strconv.ParseFloat(price, 64); err == nil {
			config.Pricing.CreditPrice = p
		}
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
}

// Validate checks values that would otherwise fail later at startup
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Pricing.CreditPrice <= 0 {
		return fmt.Errorf("credit price must be positive, got %v", c.Pricing.CreditPrice)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl must be >= 0, got %s", c.Cache.TTL)
	}
	return nil
}

// GetDatabaseURL returns the database connection string
func (c *DatabaseConfig) GetDatabaseURL() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// GetServerAddr returns the server address
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
