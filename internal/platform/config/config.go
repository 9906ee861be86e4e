package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Proxy     ProxyConfig     `mapstructure:"proxy"`
	Push      PushConfig      `mapstructure:"push"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Retention RetentionConfig `mapstructure:"retention"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type DatabaseConfig struct {
	Path           string `mapstructure:"path"`
	MaxConnections int    `mapstructure:"max_connections"`
}

type JWTConfig struct {
	Secret          string        `mapstructure:"secret"`
	AccessTokenTTL  time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL time.Duration `mapstructure:"refresh_token_ttl"`
}

// ProxyConfig controls the optional reverse-proxy header authentication.
// When enabled, requests arriving from a whitelisted proxy address may
// authenticate with the configured username header instead of a bearer token.
type ProxyConfig struct {
	AuthEnabled    bool     `mapstructure:"auth_enabled"`
	UserHeader     string   `mapstructure:"user_header"`
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

type PushConfig struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxFailCount int           `mapstructure:"max_fail_count"`
}

type RateLimitConfig struct {
	WebhookPerMinute  int `mapstructure:"webhook_per_minute"`
	APIReadPerMinute  int `mapstructure:"api_read_per_minute"`
	APIWritePerMinute int `mapstructure:"api_write_per_minute"`
}

// RetentionConfig controls background pruning of read notifications.
type RetentionConfig struct {
	NotificationAge time.Duration `mapstructure:"notification_age"`
	SweepInterval   time.Duration `mapstructure:"sweep_interval"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

func Load(path string) (*Config, error) {
	viper.SetConfigFile(path)
	viper.AutomaticEnv()
	viper.SetEnvPrefix("FRAMERR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8543)
	viper.SetDefault("database.path", "data/framerr.db")
	viper.SetDefault("database.max_connections", 10)
	viper.SetDefault("proxy.user_header", "Remote-User")
	viper.SetDefault("push.timeout", 10*time.Second)
	viper.SetDefault("push.max_fail_count", 5)
	viper.SetDefault("retention.notification_age", 30*24*time.Hour)
	viper.SetDefault("retention.sweep_interval", time.Hour)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
