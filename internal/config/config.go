package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Backend   BackendConfig   `mapstructure:"backend"`
	Page      PageConfig      `mapstructure:"page"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Log       LogConfig       `mapstructure:"log"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxHeaderBytes int           `mapstructure:"max_header_bytes"`
}

// BackendConfig points at the recommendation service that serves
// /cuisines and /recommend.
type BackendConfig struct {
	BaseURL string `mapstructure:"base_url"`
	// Zero means no client-side timeout.
	Timeout         time.Duration `mapstructure:"timeout"`
	CuisineCacheTTL time.Duration `mapstructure:"cuisine_cache_ttl"`
}

type PageConfig struct {
	TTL               time.Duration `mapstructure:"ttl"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
	Burst             int  `mapstructure:"burst"`
}

var cfg *Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	// zero keeps /pages/:id/events streams open
	v.SetDefault("server.write_timeout", time.Duration(0))
	v.SetDefault("server.max_header_bytes", 1<<20)

	v.SetDefault("backend.base_url", "http://127.0.0.1:5000")
	v.SetDefault("backend.timeout", time.Duration(0))
	v.SetDefault("backend.cuisine_cache_ttl", time.Duration(0))

	v.SetDefault("page.ttl", 2*time.Hour)
	v.SetDefault("page.cleanup_interval", 10*time.Minute)
	v.SetDefault("page.heartbeat_interval", 30*time.Second)

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Origin", "Content-Type", "Accept"})
	v.SetDefault("cors.max_age", 300)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.requests_per_minute", 600)
	v.SetDefault("rate_limit.burst", 50)
}

// Load reads the YAML file at configPath. An empty path loads defaults and
// environment overrides only.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// 配置文件优先，未设置的项使用 DINEOUT_ 前缀的环境变量
	v.SetEnvPrefix("DINEOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, err
	}

	c.Backend.BaseURL = strings.TrimRight(c.Backend.BaseURL, "/")

	cfg = c
	return c, nil
}

func Get() *Config {
	return cfg
}
