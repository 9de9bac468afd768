package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DatabaseURLEnv = "DATABASE_URL"
	ConfigPathEnv  = "TRANSFORMER_CONFIG"

	DefaultConfigPath = "./configs/transformer.yaml"
)

type ServerConfig struct {
	Port              string        `yaml:"port"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
}

const (
	_portDefault              = "8080"
	_requestTimeoutDefault    = 10 * time.Second
	_readHeaderTimeoutDefault = 10 * time.Second
	_shutdownTimeoutDefault   = 15 * time.Second
)

func (c *ServerConfig) Setup() {
	if c.Port == "" {
		c.Port = _portDefault
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = _requestTimeoutDefault
	}
	if c.ReadHeaderTimeout <= 0 {
		c.ReadHeaderTimeout = _readHeaderTimeoutDefault
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = _shutdownTimeoutDefault
	}
}

type DatabaseConfig struct {
	URL             string        `yaml:"-"` // only from env
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout"`
}

const (
	_maxOpenConnsDefault    = 10
	_maxIdleConnsDefault    = 5
	_connMaxLifetimeDefault = 30 * time.Minute
	_connectTimeoutDefault  = 5 * time.Second
)

func (c *DatabaseConfig) Setup() error {
	if c.URL == "" {
		return fmt.Errorf("%s is required", DatabaseURLEnv)
	}
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = _maxOpenConnsDefault
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = _maxIdleConnsDefault
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		c.MaxIdleConns = c.MaxOpenConns
	}
	if c.ConnMaxLifetime <= 0 {
		c.ConnMaxLifetime = _connMaxLifetimeDefault
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = _connectTimeoutDefault
	}
	return nil
}

type StoreConfig struct {
	MaxQueriesPerSecond int `yaml:"max_queries_per_second"` // 0 is unlimited
}

func (c *StoreConfig) Setup() {
	if c.MaxQueriesPerSecond < 0 {
		c.MaxQueriesPerSecond = 0
	}
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Store    StoreConfig    `yaml:"store"`
	Log      LogConfig      `yaml:"log"`
}

func (c *Config) ValidateAndSetup() error {
	c.Server.Setup()
	if err := c.Database.Setup(); err != nil {
		return fmt.Errorf("%w: can't setup database", err)
	}
	c.Store.Setup()
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	return nil
}

// Load reads the YAML file at filename, falling back to defaults if it does not
// exist, then takes the database URL from the environment.
func Load(filename string) (Config, error) {
	var cfg Config
	input, err := os.ReadFile(filename)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("%w: can't read file", err)
	default:
		if err := yaml.Unmarshal(input, &cfg); err != nil {
			return cfg, fmt.Errorf("%w: can't unmarshal config", err)
		}
	}

	cfg.Database.URL = os.Getenv(DatabaseURLEnv)

	if err := cfg.ValidateAndSetup(); err != nil {
		return cfg, fmt.Errorf("%w: can't setup cfg", err)
	}

	return cfg, nil
}

// Path returns the config file path from the environment or the default one.
func Path() string {
	if p := os.Getenv(ConfigPathEnv); p != "" {
		return p
	}
	return DefaultConfigPath
}
