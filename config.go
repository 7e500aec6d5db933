package unmeshed

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/unmeshed/unmeshed-mcp-server/policy"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/scy"
	"github.com/viant/scy/cred"
	"github.com/viant/toolbox"
	"gopkg.in/yaml.v3"
)

// Environment variables read by LoadConfigFromEnv
const (
	EnvClientID  = "UNMESHED_CLIENT_ID"
	EnvAuthToken = "UNMESHED_AUTH_TOKEN"
	EnvServerURL = "UNMESHED_SERVER_URL"
	EnvPort      = "UNMESHED_PORT"
)

const (
	// LocalPort is used for local development servers when no port is given
	LocalPort = 8080

	defaultStepTimeoutMs = math.MaxInt64
)

// Config is a serialisable representation of the adapter configuration. It can
// be populated from YAML/JSON and environment variables.
type Config struct {
	ClientID      string         `json:"clientId,omitempty" yaml:"clientId,omitempty"`
	AuthToken     string         `json:"authToken,omitempty" yaml:"authToken,omitempty"`
	ServerURL     string         `json:"serverURL,omitempty" yaml:"serverURL,omitempty"`
	Port          int            `json:"port,omitempty" yaml:"port,omitempty"`
	AuthSecretURL string         `json:"authSecretURL,omitempty" yaml:"authSecretURL,omitempty"`
	AuthSecretKey string         `json:"authSecretKey,omitempty" yaml:"authSecretKey,omitempty"`
	StepTimeoutMs int64          `json:"stepTimeoutMs,omitempty" yaml:"stepTimeoutMs,omitempty"`
	Policy        *policy.Config `json:"policy,omitempty" yaml:"policy,omitempty"`
	Tracing       TracingConfig  `json:"tracing,omitempty" yaml:"tracing,omitempty"`
}

// TracingConfig enables the stdout OpenTelemetry exporter
type TracingConfig struct {
	Enabled        bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	ServiceName    string `json:"serviceName,omitempty" yaml:"serviceName,omitempty"`
	ServiceVersion string `json:"serviceVersion,omitempty" yaml:"serviceVersion,omitempty"`
	OutputFile     string `json:"outputFile,omitempty" yaml:"outputFile,omitempty"`
}

// DefaultConfig returns a Config populated with client defaults
func DefaultConfig() *Config {
	return &Config{
		StepTimeoutMs: defaultStepTimeoutMs,
	}
}

// LoadConfigFromEnv returns default config overlaid with environment variables
func LoadConfigFromEnv() (*Config, error) {
	ret := DefaultConfig()
	if err := ret.applyEnv(); err != nil {
		return nil, err
	}
	ret.Init()
	return ret, nil
}

// LoadConfig loads YAML config from any afs supported URL, expands ${env.KEY}
// references and overlays environment variables.
func LoadConfig(ctx context.Context, URL string, options ...storage.Option) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", URL, err)
	}
	ret := DefaultConfig()
	if err := yaml.Unmarshal([]byte(expandEnvExpr(string(data))), ret); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", URL, err)
	}
	if err := ret.applyEnv(); err != nil {
		return nil, err
	}
	ret.Init()
	return ret, nil
}

func (c *Config) applyEnv() error {
	if value, ok := os.LookupEnv(EnvClientID); ok && value != "" {
		c.ClientID = value
	}
	if value, ok := os.LookupEnv(EnvAuthToken); ok && value != "" {
		c.AuthToken = value
	}
	if value, ok := os.LookupEnv(EnvServerURL); ok && value != "" {
		c.ServerURL = value
	}
	if value, ok := os.LookupEnv(EnvPort); ok && value != "" {
		port, err := toolbox.ToInt(value)
		if err != nil {
			return fmt.Errorf("invalid %v: %w", EnvPort, err)
		}
		c.Port = port
	}
	return nil
}

// Init fills defaults; a localhost server URL without a port gets LocalPort.
func (c *Config) Init() {
	if c.StepTimeoutMs == 0 {
		c.StepTimeoutMs = defaultStepTimeoutMs
	}
	if c.Port == 0 && strings.Contains(c.ServerURL, "localhost") {
		c.Port = LocalPort
	}
}

// ResolveSecrets loads client ID and auth token from a scy secret when AuthSecretURL is set
func (c *Config) ResolveSecrets(ctx context.Context) error {
	if c.AuthSecretURL == "" {
		return nil
	}
	targetType, err := cred.TargetType("basic")
	if err != nil {
		return err
	}
	resource := scy.NewResource(targetType, c.AuthSecretURL, c.AuthSecretKey)
	secret, err := scy.New().Load(ctx, resource)
	if err != nil {
		return fmt.Errorf("failed to load auth secret from %s: %w", c.AuthSecretURL, err)
	}
	basic, ok := secret.Target.(*cred.Basic)
	if !ok {
		return fmt.Errorf("unsupported auth secret type: %T", secret.Target)
	}
	if c.ClientID == "" {
		c.ClientID = basic.Username
	}
	if basic.Password != "" {
		c.AuthToken = basic.Password
	}
	return nil
}

// Validate returns an error when mandatory connection parameters are missing
func (c *Config) Validate() error {
	if c == nil || c.ClientID == "" || c.AuthToken == "" || c.ServerURL == "" {
		return fmt.Errorf("[%v], [%v] and [%v] are mandatory parameters", EnvClientID, EnvAuthToken, EnvServerURL)
	}
	if _, err := url.Parse(c.ServerURL); err != nil {
		return fmt.Errorf("invalid %v: %w", EnvServerURL, err)
	}
	return nil
}

// BaseURL returns server URL with the configured port applied
func (c *Config) BaseURL() string {
	URL := strings.TrimRight(c.ServerURL, "/")
	if c.Port == 0 {
		return URL
	}
	parsed, err := url.Parse(URL)
	if err != nil || parsed.Host == "" {
		return URL
	}
	parsed.Host = parsed.Hostname() + ":" + strconv.Itoa(c.Port)
	return parsed.String()
}

// StepTimeout returns the HTTP timeout used for engine calls, zero means unbounded
func (c *Config) StepTimeout() time.Duration {
	if c.StepTimeoutMs <= 0 || c.StepTimeoutMs > int64(math.MaxInt64/time.Millisecond) {
		return 0
	}
	return time.Duration(c.StepTimeoutMs) * time.Millisecond
}
