package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port           int           `mapstructure:"port"`
	Environment    string        `mapstructure:"environment"`
	LogLevel       string        `mapstructure:"log_level"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	ReadLimit      int64         `mapstructure:"read_limit"`
	SendBuffer     int           `mapstructure:"send_buffer"`
	WriteWait      time.Duration `mapstructure:"write_wait"`
	PingPeriod     time.Duration `mapstructure:"ping_period"`
	PongWait       time.Duration `mapstructure:"pong_wait"`
	Redis          RedisConfig   `mapstructure:"redis"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

func (c *Config) IsProduction() bool { return c.Environment == "production" }

// Load reads configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence. An empty file path skips
// the file.
func Load(file string) (*Config, error) {
	v := viper.New()

	v.SetDefault("port", 8080)
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("allowed_origins", []string{})
	v.SetDefault("read_limit", 65536)
	v.SetDefault("send_buffer", 256)
	v.SetDefault("write_wait", "10s")
	v.SetDefault("ping_period", "54s")
	v.SetDefault("pong_wait", "60s")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "24h")

	v.SetEnvPrefix("ROOMRELAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unprefixed names kept for existing deployments.
	for key, env := range map[string]string{
		"port":            "PORT",
		"environment":     "ENVIRONMENT",
		"allowed_origins": "ALLOWED_ORIGINS",
		"redis.host":      "REDIS_HOST",
		"redis.port":      "REDIS_PORT",
		"redis.password":  "REDIS_PASSWORD",
	} {
		if err := v.BindEnv(key, "ROOMRELAY_"+strings.ToUpper(strings.NewReplacer(".", "_").Replace(key)), env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.AllowedOrigins = splitOrigins(cfg.AllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.ReadLimit <= 0 {
		return errors.New("read_limit must be positive")
	}
	if c.SendBuffer <= 0 {
		return errors.New("send_buffer must be positive")
	}
	if c.WriteWait <= 0 {
		return errors.New("write_wait must be positive")
	}
	if c.PongWait < 0 || c.PingPeriod < 0 {
		return errors.New("ping_period and pong_wait must not be negative")
	}
	if c.PongWait > 0 && (c.PingPeriod == 0 || c.PingPeriod >= c.PongWait) {
		return fmt.Errorf("ping_period (%s) must be positive and shorter than pong_wait (%s)", c.PingPeriod, c.PongWait)
	}
	return nil
}

// splitOrigins accepts both list values and a single comma-separated string,
// which is what an environment variable produces.
func splitOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, o := range strings.Split(item, ",") {
			if o = strings.TrimSpace(o); o != "" {
				out = append(out, o)
			}
		}
	}
	return out
}
