package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Broadcast BroadcastConfig `yaml:"broadcast"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Channel   ChannelConfig   `yaml:"channel"`
	Client    ClientConfig    `yaml:"client"`
	NATS      NATSConfig      `yaml:"nats"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port           int      `yaml:"port"`
	Mode           string   `yaml:"mode"` // development or production
	AllowedOrigins []string `yaml:"allowed_origins"`
}

func (s ServerConfig) Production() bool {
	return s.Mode == "production"
}

type BroadcastConfig struct {
	Interval time.Duration `yaml:"interval"`
}

func (b *BroadcastConfig) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Interval string `yaml:"interval"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	return parseDurations(map[*time.Duration]string{&b.Interval: raw.Interval})
}

type RateLimitConfig struct {
	Window        time.Duration `yaml:"window"`
	MaxRequests   int           `yaml:"max_requests"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

func (r *RateLimitConfig) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Window        string `yaml:"window"`
		MaxRequests   int    `yaml:"max_requests"`
		SweepInterval string `yaml:"sweep_interval"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	r.MaxRequests = raw.MaxRequests
	return parseDurations(map[*time.Duration]string{
		&r.Window:        raw.Window,
		&r.SweepInterval: raw.SweepInterval,
	})
}

type ChannelConfig struct {
	ReadBufferSize  int `yaml:"read_buffer_size"`
	WriteBufferSize int `yaml:"write_buffer_size"`
	SendBufferSize  int `yaml:"send_buffer_size"`
}

type ClientConfig struct {
	BackoffFloor   time.Duration `yaml:"backoff_floor"`
	BackoffCeiling time.Duration `yaml:"backoff_ceiling"`
	MaxAttempts    int           `yaml:"max_attempts"`
}

func (c *ClientConfig) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		BackoffFloor   string `yaml:"backoff_floor"`
		BackoffCeiling string `yaml:"backoff_ceiling"`
		MaxAttempts    int    `yaml:"max_attempts"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	c.MaxAttempts = raw.MaxAttempts
	return parseDurations(map[*time.Duration]string{
		&c.BackoffFloor:   raw.BackoffFloor,
		&c.BackoffCeiling: raw.BackoffCeiling,
	})
}

// parseDurations fills each target from its Go duration string, leaving
// empty strings at zero for setDefaults to handle.
func parseDurations(fields map[*time.Duration]string) error {
	for target, s := range fields {
		if s == "" {
			continue
		}
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("parse duration %q: %w", s, err)
		}
		*target = d
	}
	return nil
}

type NATSConfig struct {
	// URL of the alert feed broker. Empty disables the feed.
	URL string `yaml:"url"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads config from a YAML file and applies environment variable
// overrides. A missing file is not an error; defaults and env vars apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	applyEnvOverrides(cfg)
	setDefaults(cfg)

	return cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3001
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "development"
	}
	if cfg.Broadcast.Interval == 0 {
		cfg.Broadcast.Interval = 2 * time.Second
	}
	if cfg.RateLimit.Window == 0 {
		cfg.RateLimit.Window = 15 * time.Minute
	}
	if cfg.RateLimit.MaxRequests == 0 {
		cfg.RateLimit.MaxRequests = 100
	}
	if cfg.RateLimit.SweepInterval == 0 {
		cfg.RateLimit.SweepInterval = 5 * time.Minute
	}
	if cfg.Channel.ReadBufferSize == 0 {
		cfg.Channel.ReadBufferSize = 1024
	}
	if cfg.Channel.WriteBufferSize == 0 {
		cfg.Channel.WriteBufferSize = 1024
	}
	if cfg.Channel.SendBufferSize == 0 {
		cfg.Channel.SendBufferSize = 64
	}
	if cfg.Client.BackoffFloor == 0 {
		cfg.Client.BackoffFloor = time.Second
	}
	if cfg.Client.BackoffCeiling == 0 {
		cfg.Client.BackoffCeiling = 5 * time.Second
	}
	if cfg.Client.MaxAttempts == 0 {
		cfg.Client.MaxAttempts = 5
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FLEETWATCH_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("FLEETWATCH_MODE"); v != "" {
		cfg.Server.Mode = v
	}
	if v := os.Getenv("FLEETWATCH_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.Server.AllowedOrigins = append(cfg.Server.AllowedOrigins, o)
			}
		}
	}
	if v := os.Getenv("FLEETWATCH_NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("FLEETWATCH_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("FLEETWATCH_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
