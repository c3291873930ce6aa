package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Poe2Scout Poe2ScoutConfig `mapstructure:"poe2scout"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Matcher   MatcherConfig   `mapstructure:"matcher"`
	Update    UpdateConfig    `mapstructure:"update"`
	Redis     RedisConfig     `mapstructure:"redis"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
}

// Poe2ScoutConfig holds catalog API configuration
type Poe2ScoutConfig struct {
	BaseURL              string `mapstructure:"base_url"`
	UserAgent            string `mapstructure:"user_agent"`
	Timeout              int    `mapstructure:"timeout"` // seconds
	MaxRequestsPerSecond int    `mapstructure:"max_requests_per_second"`
	PerPage              int    `mapstructure:"per_page"`
	RequestDelayMs       int    `mapstructure:"request_delay_ms"`
	League               string `mapstructure:"league"`
	LoadBaseItems        bool   `mapstructure:"load_base_items"`
}

const (
	MinPerPage = 1
	MaxPerPage = 10000
)

func (c Poe2ScoutConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

func (c Poe2ScoutConfig) RequestDelay() time.Duration {
	return time.Duration(c.RequestDelayMs) * time.Millisecond
}

// PageSize clamps PerPage to what the API accepts
func (c Poe2ScoutConfig) PageSize() int {
	return min(max(c.PerPage, MinPerPage), MaxPerPage)
}

// CacheConfig durations are in minutes
type CacheConfig struct {
	DefaultTTL    int `mapstructure:"default_ttl"`
	LookupTTL     int `mapstructure:"lookup_ttl"`
	SweepInterval int `mapstructure:"sweep_interval"`
}

func (c CacheConfig) DefaultTTLDuration() time.Duration {
	return time.Duration(c.DefaultTTL) * time.Minute
}

func (c CacheConfig) LookupTTLDuration() time.Duration {
	return time.Duration(c.LookupTTL) * time.Minute
}

func (c CacheConfig) SweepIntervalDuration() time.Duration {
	return time.Duration(c.SweepInterval) * time.Minute
}

type MatcherConfig struct {
	MinSimilarity  float64 `mapstructure:"min_similarity"`
	SubstringScore float64 `mapstructure:"substring_score"`
}

type UpdateConfig struct {
	AutoReload     bool `mapstructure:"auto_reload"`
	ReloadInterval int  `mapstructure:"reload_interval"` // minutes
}

func (c UpdateConfig) ReloadIntervalDuration() time.Duration {
	return time.Duration(c.ReloadInterval) * time.Minute
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	Password      string `mapstructure:"password"`
	Database      int    `mapstructure:"database"`
	ConsumerGroup string `mapstructure:"consumer_group"`
	MinIdleTime   int    `mapstructure:"min_idle_time"` // seconds
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads dir/config.yaml if present, overlays dir/.env and environment variables
func Load(dir string) (*Config, error) {
	// Missing .env is fine
	_ = godotenv.Load(filepath.Join(dir, ".env"))

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "localhost")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("poe2scout.base_url", "https://poe2scout.com/api")
	v.SetDefault("poe2scout.user_agent", "Poe2ScoutPricer/1.0")
	v.SetDefault("poe2scout.timeout", 30)
	v.SetDefault("poe2scout.max_requests_per_second", 10)
	v.SetDefault("poe2scout.per_page", 1000)
	v.SetDefault("poe2scout.request_delay_ms", 100)
	v.SetDefault("poe2scout.league", "Standard")
	v.SetDefault("poe2scout.load_base_items", false)

	v.SetDefault("cache.default_ttl", 60)
	v.SetDefault("cache.lookup_ttl", 120)
	v.SetDefault("cache.sweep_interval", 5)

	v.SetDefault("matcher.min_similarity", 0.6)
	v.SetDefault("matcher.substring_score", 0.8)

	v.SetDefault("update.auto_reload", true)
	v.SetDefault("update.reload_interval", 30)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.consumer_group", "pricer_consumer")
	v.SetDefault("redis.min_idle_time", 120)
}
