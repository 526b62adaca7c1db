package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bbcarchdev/patchwork/internal/domain"
)

// Config holds the patchwork configuration.
type Config struct {
	HTTP      HTTPConfig                 `yaml:"http"`
	Logging   LoggingConfig              `yaml:"logging"`
	Patchwork PatchworkConfig            `yaml:"patchwork"`
	S3        S3Config                   `yaml:"s3"`
	SPARQL    SPARQLConfig               `yaml:"sparql"`
	Partition map[string]PartitionConfig `yaml:"partition"`
	NATS      NATSConfig                 `yaml:"nats"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// PatchworkConfig holds the resolver settings.
type PatchworkConfig struct {
	// Root is the public base URI items and partitions are minted under.
	Root string `yaml:"root"`
	// Cache is an s3:// or file:// URI.
	Cache string `yaml:"cache"`
	// Bucket is the deprecated spelling of an s3 cache.
	Bucket           string `yaml:"bucket"`
	DB               string `yaml:"db"`
	MaxOpenConns     int    `yaml:"max_open_conns"`
	ReadinessTimeout int    `yaml:"readiness_timeout_sec"`
	// Score is the default relevance threshold; nil means 40.
	Score        *int   `yaml:"score"`
	DefaultLimit int    `yaml:"default_limit"`
	MaxLimit     int    `yaml:"max_limit"`
	CorefContext string `yaml:"coref_context"` // concrete (default), source
}

// S3Config tunes the object-storage cache client.
type S3Config struct {
	Endpoint   string `yaml:"endpoint"`
	Access     string `yaml:"access"`
	Secret     string `yaml:"secret"`
	Region     string `yaml:"region"`
	FetchLimit int    `yaml:"fetch_limit"` // kilobytes
	Verbose    bool   `yaml:"verbose"`
}

// SPARQLConfig holds the SPARQL endpoint used when no database is configured.
type SPARQLConfig struct {
	Endpoint   string `yaml:"endpoint"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// PartitionConfig declares a named listing.
type PartitionConfig struct {
	Class string `yaml:"class"`
	Title string `yaml:"title"`
}

// NATSConfig holds the update trigger settings.
type NATSConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// DefaultScore is the relevance threshold used when none is configured.
const DefaultScore = 40

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes, defaults and validates a YAML document.
func Parse(data []byte) (Config, error) {
	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Patchwork.Score == nil {
		score := DefaultScore
		c.Patchwork.Score = &score
	}
	if c.Patchwork.DefaultLimit <= 0 {
		c.Patchwork.DefaultLimit = 25
	}
	if c.Patchwork.MaxLimit <= 0 {
		c.Patchwork.MaxLimit = 100
	}
	if c.Patchwork.MaxOpenConns <= 0 {
		c.Patchwork.MaxOpenConns = 10
	}
	if c.Patchwork.ReadinessTimeout <= 0 {
		c.Patchwork.ReadinessTimeout = 10
	}
	if c.Patchwork.CorefContext == "" {
		c.Patchwork.CorefContext = "concrete"
	}
	if c.S3.FetchLimit <= 0 {
		c.S3.FetchLimit = 2048
	}
	if c.S3.Region == "" {
		c.S3.Region = "us-east-1"
	}
	if c.SPARQL.TimeoutSec <= 0 {
		c.SPARQL.TimeoutSec = 30
	}
	if c.NATS.Subject == "" {
		c.NATS.Subject = "patchwork.updates"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if err := validateRoot(c.Patchwork.Root); err != nil {
		return err
	}
	switch c.Patchwork.CorefContext {
	case "concrete", "source":
		// ok
	default:
		return fmt.Errorf(
			"patchwork.coref_context must be \"concrete\" or \"source\", got %q",
			c.Patchwork.CorefContext,
		)
	}
	if c.Patchwork.DB == "" && c.SPARQL.Endpoint == "" {
		return errors.New("patchwork.db or sparql.endpoint is required")
	}
	if c.Patchwork.Cache != "" {
		u, err := url.Parse(c.Patchwork.Cache)
		if err != nil {
			return fmt.Errorf("%w: patchwork.cache: %w", domain.ErrUnsupportedConfiguration, err)
		}
		switch u.Scheme {
		case "s3", "file":
			// ok
		default:
			return fmt.Errorf("%w: patchwork.cache scheme %q (want s3 or file)",
				domain.ErrUnsupportedConfiguration, u.Scheme)
		}
	}
	return nil
}

func validateRoot(root string) error {
	if root == "" {
		return errors.New("patchwork.root is required")
	}
	u, err := url.Parse(root)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("patchwork.root must be an absolute http(s) URI, got %q", root)
	}
	return nil
}

// ScoreThreshold returns the configured default score.
func (c *Config) ScoreThreshold() int {
	if c.Patchwork.Score == nil {
		return DefaultScore
	}
	return *c.Patchwork.Score
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
