package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Host string `mapstructure:"SERVER_HOST"`
	Port int    `mapstructure:"SERVER_PORT"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"DB_HOST"`
	Port     int    `mapstructure:"DB_PORT"`
	User     string `mapstructure:"DB_USER"`
	Password string `mapstructure:"DB_PASSWORD"`
	DBName   string `mapstructure:"DB_NAME"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"REDIS_ADDR"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type JWTConfig struct {
	Secret          string `mapstructure:"JWT_SECRET"`
	AccessTTLHours  int    `mapstructure:"JWT_ACCESS_TTL_HOURS"`
	RefreshTTLHours int    `mapstructure:"JWT_REFRESH_TTL_HOURS"`
}

type StorageConfig struct {
	Bucket    string `mapstructure:"STORAGE_BUCKET"`
	Region    string `mapstructure:"STORAGE_REGION"`
	Endpoint  string `mapstructure:"STORAGE_ENDPOINT"`
	AccessKey string `mapstructure:"STORAGE_ACCESS_KEY"`
	SecretKey string `mapstructure:"STORAGE_SECRET_KEY"`
	PublicURL string `mapstructure:"STORAGE_PUBLIC_URL"`
}

type GeocoderConfig struct {
	BaseURL string `mapstructure:"GEOCODER_BASE_URL"`
	APIKey  string `mapstructure:"GEOCODER_API_KEY"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:",squash"`
	Database DatabaseConfig `mapstructure:",squash"`
	Redis    RedisConfig    `mapstructure:",squash"`
	JWT      JWTConfig      `mapstructure:",squash"`
	Storage  StorageConfig  `mapstructure:",squash"`
	Geocoder GeocoderConfig `mapstructure:",squash"`
}

var (
	instance *Config
	mu       sync.RWMutex
)

// Load reads .env (if present) and the process environment into the
// singleton Config. Call once at startup before Get.
func Load() (*Config, error) {
	mu.Lock()
	defer mu.Unlock()

	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "moaclass")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("JWT_ACCESS_TTL_HOURS", 24)
	v.SetDefault("JWT_REFRESH_TTL_HOURS", 24*14)
	v.SetDefault("STORAGE_REGION", "ap-northeast-2")
	v.SetDefault("GEOCODER_BASE_URL", "https://dapi.kakao.com/v2/local/search/address.json")

	keys := []string{
		"SERVER_HOST", "SERVER_PORT",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
		"JWT_SECRET", "JWT_ACCESS_TTL_HOURS", "JWT_REFRESH_TTL_HOURS",
		"STORAGE_BUCKET", "STORAGE_REGION", "STORAGE_ENDPOINT",
		"STORAGE_ACCESS_KEY", "STORAGE_SECRET_KEY", "STORAGE_PUBLIC_URL",
		"GEOCODER_BASE_URL", "GEOCODER_API_KEY",
	}
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	instance = &cfg
	return instance, nil
}

// Get returns the loaded config. Panics when Load has not run; use GetSafe
// in paths that may execute before startup finishes.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	if instance == nil {
		panic("config: Load must be called before Get")
	}
	return instance
}

func GetSafe() (*Config, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return instance, instance != nil
}

// Set replaces the singleton; test hook.
func Set(cfg *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = cfg
}
