package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage and catalog drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Tailscale  TailscaleConfig  `yaml:"tailscale"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	Redis      RedisConfig      `yaml:"redis"`
	Tracing    TracingConfig    `yaml:"tracing"`
	Generation GenerationConfig `yaml:"generation"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	// Driver is "postgres" (default) or "memory".
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type CatalogConfig struct {
	// Driver is "sqlite" (default), "postgres" or "memory" (built-in demo catalog).
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type RedisConfig struct {
	Enabled bool          `yaml:"enabled"`
	Addr    string        `yaml:"addr"`
	TTL     time.Duration `yaml:"ttl"`
}

type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

type GenerationConfig struct {
	// Seed drives rep-range variation. Zero seeds from the clock.
	Seed int64 `yaml:"seed"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// UsesPostgres reports whether programs are stored in Postgres.
func (d DatabaseConfig) UsesPostgres() bool {
	return d.Driver == DriverPostgres
}

// Load reads config from a YAML file, applies defaults, then environment
// variable overrides. Env vars use the prefix TRAINPLAN_ and
// underscore-separated paths:
//
//	TRAINPLAN_SERVER_HOST, TRAINPLAN_SERVER_PORT,
//	TRAINPLAN_DB_DRIVER, TRAINPLAN_DB_HOST, TRAINPLAN_DB_PORT, TRAINPLAN_DB_NAME,
//	TRAINPLAN_DB_USER, TRAINPLAN_DB_PASSWORD, TRAINPLAN_DB_SSLMODE,
//	TRAINPLAN_AUTH_API_KEY,
//	TRAINPLAN_TAILSCALE_ENABLED, TRAINPLAN_TAILSCALE_HOSTNAME, TRAINPLAN_TAILSCALE_STATE_DIR,
//	TRAINPLAN_CATALOG_DRIVER, TRAINPLAN_CATALOG_PATH,
//	TRAINPLAN_KAFKA_ENABLED, TRAINPLAN_KAFKA_BROKERS (comma-separated), TRAINPLAN_KAFKA_TOPIC,
//	TRAINPLAN_REDIS_ENABLED, TRAINPLAN_REDIS_ADDR, TRAINPLAN_REDIS_TTL,
//	TRAINPLAN_TRACING_ENABLED, TRAINPLAN_TRACING_SAMPLE_RATIO,
//	TRAINPLAN_GENERATION_SEED
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DriverPostgres
	}
	if cfg.Catalog.Driver == "" {
		cfg.Catalog.Driver = DriverSQLite
	}
	if cfg.Catalog.Driver == DriverSQLite && cfg.Catalog.Path == "" {
		cfg.Catalog.Path = "exercises.db"
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "trainplan.programs"
	}
	if cfg.Redis.TTL == 0 {
		cfg.Redis.TTL = 24 * time.Hour
	}
	if cfg.Tracing.SampleRatio == 0 {
		cfg.Tracing.SampleRatio = 1
	}
	if cfg.Tailscale.Hostname == "" {
		cfg.Tailscale.Hostname = "trainplan"
	}
}

func applyEnvOverrides(cfg *Config) {
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	integer := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	boolean := func(key string, dst *bool) {
		if v := os.Getenv(key); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}

	str("TRAINPLAN_SERVER_HOST", &cfg.Server.Host)
	integer("TRAINPLAN_SERVER_PORT", &cfg.Server.Port)

	str("TRAINPLAN_DB_DRIVER", &cfg.Database.Driver)
	str("TRAINPLAN_DB_HOST", &cfg.Database.Host)
	integer("TRAINPLAN_DB_PORT", &cfg.Database.Port)
	str("TRAINPLAN_DB_NAME", &cfg.Database.Name)
	str("TRAINPLAN_DB_USER", &cfg.Database.User)
	str("TRAINPLAN_DB_PASSWORD", &cfg.Database.Password)
	str("TRAINPLAN_DB_SSLMODE", &cfg.Database.SSLMode)

	str("TRAINPLAN_AUTH_API_KEY", &cfg.Auth.APIKey)

	boolean("TRAINPLAN_TAILSCALE_ENABLED", &cfg.Tailscale.Enabled)
	str("TRAINPLAN_TAILSCALE_HOSTNAME", &cfg.Tailscale.Hostname)
	str("TRAINPLAN_TAILSCALE_STATE_DIR", &cfg.Tailscale.StateDir)

	str("TRAINPLAN_CATALOG_DRIVER", &cfg.Catalog.Driver)
	str("TRAINPLAN_CATALOG_PATH", &cfg.Catalog.Path)

	boolean("TRAINPLAN_KAFKA_ENABLED", &cfg.Kafka.Enabled)
	if v := os.Getenv("TRAINPLAN_KAFKA_BROKERS"); v != "" {
		var brokers []string
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
		cfg.Kafka.Brokers = brokers
	}
	str("TRAINPLAN_KAFKA_TOPIC", &cfg.Kafka.Topic)

	boolean("TRAINPLAN_REDIS_ENABLED", &cfg.Redis.Enabled)
	str("TRAINPLAN_REDIS_ADDR", &cfg.Redis.Addr)
	if v := os.Getenv("TRAINPLAN_REDIS_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Redis.TTL = d
		}
	}

	boolean("TRAINPLAN_TRACING_ENABLED", &cfg.Tracing.Enabled)
	if v := os.Getenv("TRAINPLAN_TRACING_SAMPLE_RATIO"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Tracing.SampleRatio = f
		}
	}

	if v := os.Getenv("TRAINPLAN_GENERATION_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Generation.Seed = n
		}
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 && !c.Tailscale.Enabled {
		return fmt.Errorf("server.port is required")
	}
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database.host is required")
		}
		if c.Database.Port == 0 {
			return fmt.Errorf("database.port is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("database.name is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database.user is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("database.driver %q must be postgres or memory", c.Database.Driver)
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	switch c.Catalog.Driver {
	case DriverSQLite:
	case DriverMemory:
	case DriverPostgres:
		if !c.Database.UsesPostgres() {
			return fmt.Errorf("catalog.driver postgres requires database.driver postgres")
		}
	default:
		return fmt.Errorf("catalog.driver %q must be sqlite, postgres or memory", c.Catalog.Driver)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers is required when kafka is enabled")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when redis is enabled")
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("tracing.sample_ratio must be within 0-1, got %v", c.Tracing.SampleRatio)
	}
	return nil
}
