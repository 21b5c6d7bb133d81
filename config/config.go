// Package config reads the application configuration from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "./humidor.yaml"

const (
	LookupNone       = "none"
	LookupGenAI      = "genai"
	LookupCigarWorld = "cigarworld"
)

// Config is the root application configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	Lookup LookupConfig `yaml:"lookup"`
	Neo4j  Neo4jConfig  `yaml:"neo4j"`
}

// StoreConfig holds the location of the humidor's data file.
type StoreConfig struct {
	Path string `yaml:"path" env:"HUMIDOR_DATA_FILE" env-default:"data.json"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"127.0.0.1"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8501"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// Addr returns the address to listen on.
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"console"`
}

// LookupConfig holds the settings of the service which pre-fills the add form.
type LookupConfig struct {
	Provider string        `yaml:"provider" env:"LOOKUP_PROVIDER" env-default:"none"`
	APIKey   string        `yaml:"api_key"  env:"GEMINI_API_KEY"`
	Model    string        `yaml:"model"    env:"LOOKUP_MODEL"    env-default:"gemini-2.5-flash"`
	BaseURL  string        `yaml:"base_url" env:"LOOKUP_BASE_URL" env-default:"https://www.cigarworld.de"`
	Timeout  time.Duration `yaml:"timeout"  env:"LOOKUP_TIMEOUT"  env-default:"30s"`
}

// Neo4jConfig holds the graph database the humidor is exported to.
type Neo4jConfig struct {
	URI      string `yaml:"uri"      env:"DB_URI"`
	User     string `yaml:"user"     env:"DB_USER"     env-default:"neo4j"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	Database string `yaml:"database" env:"DB_NAME"     env-default:"neo4j"`
}

// Load reads configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags).
// The YAML file path is path, CONFIG_PATH env otherwise, with fallback to DefaultPath.
// If the file does not exist and no path was set explicitly, configuration is loaded from ENV + defaults only.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	explicitPath := path != ""
	if !explicitPath {
		path = DefaultPath
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate checks the enumerated and the mandatory settings.
func (c *Config) Validate() error {
	var err error
	if c.Store.Path == "" {
		err = errors.Join(err, errors.New("store.path is required"))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		err = errors.Join(err, fmt.Errorf("server.port %d is out of range", c.Server.Port))
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		err = errors.Join(err, fmt.Errorf("log.format must be json or console, got %q", c.Log.Format))
	}
	switch c.Lookup.Provider {
	case LookupNone, "":
	case LookupGenAI:
		if c.Lookup.APIKey == "" {
			err = errors.Join(err, errors.New("lookup.api_key is required by the genai provider"))
		}
	case LookupCigarWorld:
		if c.Lookup.BaseURL == "" {
			err = errors.Join(err, errors.New("lookup.base_url is required by the cigarworld provider"))
		}
	default:
		err = errors.Join(err, fmt.Errorf("unknown lookup.provider %q", c.Lookup.Provider))
	}
	return err
}

// Write dumps the configuration as YAML, with the secrets masked.
func (c Config) Write(w io.Writer) error {
	if c.Lookup.APIKey != "" {
		c.Lookup.APIKey = "***"
	}
	if c.Neo4j.Password != "" {
		c.Neo4j.Password = "***"
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}
