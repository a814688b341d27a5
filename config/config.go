package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Queue     QueueConfig     `yaml:"queue"`
	Assistant AssistantConfig `yaml:"assistant"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	TokenEventsTopic   string   `yaml:"token_events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type QueueConfig struct {
	SweepIntervalSeconds int `yaml:"sweep_interval_seconds"`
	ReadyExpiryMinutes   int `yaml:"ready_expiry_minutes"`
	SessionTTLMinutes    int `yaml:"session_ttl_minutes"`
	RateLimitPerMinute   int `yaml:"rate_limit_per_minute"`
	RateLimitBurst       int `yaml:"rate_limit_burst"`
	MenuCacheSeconds     int `yaml:"menu_cache_seconds"`
}

type AssistantConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// The credential may come from the environment instead of the file.
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.Assistant.APIKey = key
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Queue.SweepIntervalSeconds <= 0 {
		cfg.Queue.SweepIntervalSeconds = 30
	}
	if cfg.Queue.ReadyExpiryMinutes <= 0 {
		cfg.Queue.ReadyExpiryMinutes = 10
	}
	if cfg.Queue.SessionTTLMinutes <= 0 {
		cfg.Queue.SessionTTLMinutes = 240
	}
	if cfg.Queue.RateLimitPerMinute <= 0 {
		cfg.Queue.RateLimitPerMinute = 60
	}
	if cfg.Queue.RateLimitBurst <= 0 {
		cfg.Queue.RateLimitBurst = 10
	}
	if cfg.Queue.MenuCacheSeconds <= 0 {
		cfg.Queue.MenuCacheSeconds = 15
	}
	if cfg.Assistant.Model == "" {
		cfg.Assistant.Model = "gemini-2.5-flash"
	}
	if cfg.Assistant.BaseURL == "" {
		cfg.Assistant.BaseURL = "https://generativelanguage.googleapis.com"
	}
}
