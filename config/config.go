package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Push       PushConfig       `yaml:"push"`
	Control    ControlConfig    `yaml:"control"`
	Snapshot   SnapshotConfig   `yaml:"snapshot"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// ControlConfig selects the actuator decision policy.
// "manual" mirrors the stored operator override flags verbatim;
// "automatic" drives the LED and pump from sensor data and the plant
// profile. Which one is authoritative is still an open product question,
// so it stays configurable per deployment.
type ControlConfig struct {
	Policy string `yaml:"policy"`
}

// SnapshotConfig configures the background daily history snapshot loop.
type SnapshotConfig struct {
	Enabled       bool          `yaml:"enabled"`
	IntervalHours int           `yaml:"interval_hours"`
	Interval      time.Duration `yaml:"-"` // Ignored by YAML parser
	Timezone      string        `yaml:"timezone"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 60
	}

	switch cfg.Control.Policy {
	case "":
		log.Printf("control.policy is not set; defaulting to manual")
		cfg.Control.Policy = "manual"
	case "manual", "automatic":
	default:
		return nil, fmt.Errorf("invalid control.policy %q (want manual or automatic)", cfg.Control.Policy)
	}

	if cfg.Snapshot.IntervalHours <= 0 {
		cfg.Snapshot.IntervalHours = 24
	}
	cfg.Snapshot.Interval = time.Duration(cfg.Snapshot.IntervalHours) * time.Hour

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	return &cfg, nil
}
