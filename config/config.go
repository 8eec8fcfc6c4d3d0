package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config contains agent common configuration
type Config struct {
	// Logger log instance, if nil will use default nop logger
	Logger *zap.Logger
	// Debug whether to enable debug mode
	Debug bool
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Logger: zap.NewNop(),
		Debug:  false,
	}
}

// NewDebugConfig returns configuration with debug mode enabled
func NewDebugConfig() *Config {
	debugLogger, err := zap.NewDevelopment()
	if err != nil {
		debugLogger = zap.NewNop()
	}

	return &Config{
		Logger: debugLogger,
		Debug:  true,
	}
}

// WithLogger sets custom logger
func (c *Config) WithLogger(logger *zap.Logger) *Config {
	c.Logger = logger
	return c
}

// WithProductionLogger sets production environment logger
func (c *Config) WithProductionLogger() *Config {
	logger, err := zap.NewProduction()
	if err != nil {
		c.Logger = zap.NewNop()
	} else {
		c.Logger = logger
	}
	return c
}

// WithDevelopmentLogger sets debug logger
func (c *Config) WithDevelopmentLogger() *Config {
	devLogger, err := zap.NewDevelopment()
	if err != nil {
		return c
	}
	c.Logger = devLogger
	c.Debug = true
	return c
}

// GetLogger gets logger instance
func (c *Config) GetLogger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// Defaults for the polling pipeline.
const (
	// DefaultEndpoint is the Buildkite REST API base URL
	DefaultEndpoint = "https://api.buildkite.com/v1"
	// DefaultNamespace is the CloudWatch namespace metrics are submitted under
	DefaultNamespace = "Buildkite"
	// DefaultIntervalSeconds is the delay between the end of one cycle and
	// the start of the next
	DefaultIntervalSeconds = 5
	// MaxBatchSize is the CloudWatch PutMetricData per-request item limit
	MaxBatchSize = 20
)

// Environment variable names read by FromEnv. APIToken and OrgSlug are
// required and checked once at startup.
const (
	EnvAPIToken  = "BUILDKITE_API_TOKEN"
	EnvOrgSlug   = "BUILDKITE_ORG_SLUG"
	EnvEndpoint  = "BUILDKITE_ENDPOINT"
	EnvNamespace = "CLOUDWATCH_NAMESPACE"
	EnvInterval  = "POLL_INTERVAL_SECONDS"
)

// AgentAWSConfig AWS specific configuration for the CloudWatch client
type AgentAWSConfig struct {
	AssumeRoleARN   string `yaml:"assume-role-arn,omitempty" toml:"assume-role-arn,omitempty" json:"assume-role-arn,omitempty"`
	AccessKey       string `yaml:"access-key,omitempty" toml:"access-key,omitempty" json:"access-key,omitempty"`
	SecretAccessKey string `yaml:"secret-access-key,omitempty" toml:"secret-access-key,omitempty" json:"secret-access-key,omitempty"`
	SessionToken    string `yaml:"session-token,omitempty" toml:"session-token,omitempty" json:"session-token,omitempty"`
}

// AgentConfig represents the full configuration of the metrics agent:
// the Buildkite credentials, the CloudWatch target, and the polling
// cadence.
type AgentConfig struct {
	// APIToken is the Buildkite API bearer credential
	APIToken string `yaml:"api-token,omitempty" toml:"api-token,omitempty" json:"api-token,omitempty"`
	// OrgSlug is the Buildkite organization identifier
	OrgSlug string `yaml:"org-slug,omitempty" toml:"org-slug,omitempty" json:"org-slug,omitempty"`
	// Endpoint is the Buildkite API base URL
	Endpoint string `yaml:"endpoint,omitempty" toml:"endpoint,omitempty" json:"endpoint,omitempty"`
	// Namespace is the CloudWatch namespace metrics are submitted under
	Namespace string `yaml:"namespace,omitempty" toml:"namespace,omitempty" json:"namespace,omitempty"`
	// Region is the AWS region, empty defers to the SDK's own resolution
	Region string `yaml:"region,omitempty" toml:"region,omitempty" json:"region,omitempty"`
	// IntervalSeconds is the delay between polling cycles
	IntervalSeconds int `yaml:"interval-seconds,omitempty" toml:"interval-seconds,omitempty" json:"interval-seconds,omitempty"`
	// BatchSize is the number of data points per PutMetricData call
	BatchSize int `yaml:"batch-size,omitempty" toml:"batch-size,omitempty" json:"batch-size,omitempty"`

	// AWS holds optional explicit AWS credentials
	AWS *AgentAWSConfig `yaml:"aws,omitempty" toml:"aws,omitempty" json:"aws,omitempty"`
}

// NewAgentConfig creates a new AgentConfig with default values
func NewAgentConfig() *AgentConfig {
	return &AgentConfig{
		Endpoint:        DefaultEndpoint,
		Namespace:       DefaultNamespace,
		IntervalSeconds: DefaultIntervalSeconds,
		BatchSize:       MaxBatchSize,
	}
}

// WithCredentials sets the Buildkite API token and organization slug
func (c *AgentConfig) WithCredentials(token, org string) *AgentConfig {
	c.APIToken = token
	c.OrgSlug = org
	return c
}

// WithEndpoint sets the Buildkite API base URL
func (c *AgentConfig) WithEndpoint(endpoint string) *AgentConfig {
	c.Endpoint = strings.TrimSuffix(endpoint, "/")
	return c
}

// WithNamespace sets the CloudWatch namespace
func (c *AgentConfig) WithNamespace(namespace string) *AgentConfig {
	c.Namespace = namespace
	return c
}

// WithRegion sets the AWS region
func (c *AgentConfig) WithRegion(region string) *AgentConfig {
	c.Region = region
	return c
}

// WithInterval sets the delay between polling cycles
func (c *AgentConfig) WithInterval(d time.Duration) *AgentConfig {
	c.IntervalSeconds = int(d / time.Second)
	return c
}

// WithBatchSize sets the number of data points per transport call
func (c *AgentConfig) WithBatchSize(size int) *AgentConfig {
	c.BatchSize = size
	return c
}

// WithAWSConfig sets explicit AWS credentials
func (c *AgentConfig) WithAWSConfig(awsConfig *AgentAWSConfig) *AgentConfig {
	c.AWS = awsConfig
	return c
}

// Interval returns the polling delay as a duration
func (c *AgentConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// FromEnv overlays configuration from the environment. Set variables win
// over file and default values.
func (c *AgentConfig) FromEnv() *AgentConfig {
	if v := os.Getenv(EnvAPIToken); v != "" {
		c.APIToken = v
	}
	if v := os.Getenv(EnvOrgSlug); v != "" {
		c.OrgSlug = v
	}
	if v := os.Getenv(EnvEndpoint); v != "" {
		c.Endpoint = strings.TrimSuffix(v, "/")
	}
	if v := os.Getenv(EnvNamespace); v != "" {
		c.Namespace = v
	}
	if v := os.Getenv(EnvInterval); v != "" {
		if sec, err := strconv.Atoi(v); err == nil && sec > 0 {
			c.IntervalSeconds = sec
		}
	}
	return c
}

// Validate checks the configuration before the first cycle runs. A
// missing credential or organization identifier is startup-fatal.
func (c *AgentConfig) Validate() error {
	if c.APIToken == "" {
		return fmt.Errorf("%s is required", EnvAPIToken)
	}
	if c.OrgSlug == "" {
		return fmt.Errorf("%s is required", EnvOrgSlug)
	}
	if c.BatchSize <= 0 || c.BatchSize > MaxBatchSize {
		return fmt.Errorf("batch size must be between 1 and %d, got %d", MaxBatchSize, c.BatchSize)
	}
	if c.IntervalSeconds <= 0 {
		return fmt.Errorf("poll interval must be positive, got %d", c.IntervalSeconds)
	}
	return nil
}

// LoadFile merges settings from a TOML or YAML config file, selected by
// file extension.
func (c *AgentConfig) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse TOML config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse YAML config: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config format: %s", path)
	}

	return nil
}

// LoadAgentConfig builds the agent configuration from defaults, an
// optional config file, and the environment, then validates it.
func LoadAgentConfig(path string) (*AgentConfig, error) {
	cfg := NewAgentConfig()

	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.FromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
