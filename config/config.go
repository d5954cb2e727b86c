package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIURL = "http://localhost:5000/api"

	EnvConfigPath  = "CONFIG_PATH"
	EnvAPIURL      = "FLIGHTBOOK_API_URL"
	EnvSessionFile = "FLIGHTBOOK_SESSION_FILE"
)

type Config struct {
	API      APIConfig      `yaml:"api"`
	Storage  StorageConfig  `yaml:"storage"`
	Redis    RedisConfig    `yaml:"redis"`
	Database DatabaseConfig `yaml:"database"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Log      LogConfig      `yaml:"log"`
	Backend  BackendConfig  `yaml:"backend"`
}

type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout is zero when unset, leaving the transport defaults in charge.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

type StorageConfig struct {
	Driver    string `yaml:"driver"`
	Path      string `yaml:"path"`
	Namespace string `yaml:"namespace"`
	TTLHours  int    `yaml:"ttl_hours"`
}

func (s StorageConfig) TTL() time.Duration {
	return time.Duration(s.TTLHours) * time.Hour
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
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

type KafkaConfig struct {
	Brokers       []string `yaml:"brokers"`
	ActivityTopic string   `yaml:"activity_topic"`
	GroupID       string   `yaml:"group_id"`
}

func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0 && k.ActivityTopic != ""
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// BackendConfig drives the local stub backend only.
type BackendConfig struct {
	Address            string `yaml:"address"`
	JWTSecret          string `yaml:"jwt_secret"`
	StartingBalance    int64  `yaml:"starting_balance"`
	SurgeThreshold     int    `yaml:"surge_threshold"`
	SurgeWindowSeconds int    `yaml:"surge_window_seconds"`
	SurgePercent       int64  `yaml:"surge_percent"`
}

func (b BackendConfig) SurgeWindow() time.Duration {
	return time.Duration(b.SurgeWindowSeconds) * time.Second
}

func Default() *Config {
	return &Config{
		API: APIConfig{BaseURL: DefaultAPIURL},
		Storage: StorageConfig{
			Driver:    "file",
			Path:      DefaultSessionPath(),
			Namespace: "default",
		},
		Redis: RedisConfig{Addr: "localhost:6379"},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			User:    "flightbook",
			Name:    "flightbook",
			SSLMode: "disable",
		},
		Kafka: KafkaConfig{GroupID: "flightbook-notifier"},
		Log:   LogConfig{Level: "info"},
		Backend: BackendConfig{
			Address:            ":5000",
			JWTSecret:          "dev-secret-change-me",
			StartingBalance:    50000,
			SurgeThreshold:     3,
			SurgeWindowSeconds: 300,
			SurgePercent:       10,
		},
	}
}

// DefaultSessionPath follows the XDG layout: $XDG_CONFIG_HOME/flightbook/session.json.
func DefaultSessionPath() string {
	configDirectory := os.Getenv("XDG_CONFIG_HOME")
	if configDirectory == "" {
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "flightbook-session.json")
		}
		configDirectory = filepath.Join(homeDirectory, ".config")
	}
	return filepath.Join(configDirectory, "flightbook", "session.json")
}

// LoadConfig reads a YAML file on top of Default and applies environment
// overrides.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyEnv()

	return cfg, nil
}

// Load resolves the config path from CONFIG_PATH (default "config.yaml").
// A missing default file is not an error; an explicitly named one is.
func Load() (*Config, error) {
	path := os.Getenv(EnvConfigPath)
	explicit := path != ""
	if !explicit {
		path = "config.yaml"
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			cfg = Default()
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		c.API.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSessionFile)); v != "" {
		c.Storage.Path = v
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultAPIURL
	}
}
