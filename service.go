package unmeshed

import (
	"context"
	"errors"
	"fmt"

	"github.com/unmeshed/unmeshed-mcp-server/client"
	"github.com/unmeshed/unmeshed-mcp-server/client/rest"
	"github.com/unmeshed/unmeshed-mcp-server/extension"
	"github.com/unmeshed/unmeshed-mcp-server/model/types"
	"github.com/unmeshed/unmeshed-mcp-server/policy"
	aunmeshed "github.com/unmeshed/unmeshed-mcp-server/service/action/unmeshed"
	"github.com/unmeshed/unmeshed-mcp-server/service/executor"
	"github.com/unmeshed/unmeshed-mcp-server/service/gateway"
	"github.com/unmeshed/unmeshed-mcp-server/tracing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/viant/afs/storage"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// DefaultServiceName is reported by tracing when no service name is configured
const DefaultServiceName = "unmeshed-mcp-server"

// Service wires the engine client, gateway and tool surface together
type Service struct {
	config            *Config
	configURL         string
	configFsOptions   []storage.Option
	client            client.Client
	logger            *zap.Logger
	registerer        prometheus.Registerer
	policy            *policy.Policy
	listener          executor.Listener
	extensionServices []types.Service
	tracing           *TracingConfig
	exporter          sdktrace.SpanExporter

	gateway  *gateway.Service
	actions  *extension.Actions
	executor *executor.Service
	provider *tracing.Provider
}

// Config returns effective configuration
func (s *Service) Config() *Config {
	return s.config
}

// Gateway returns the process gateway
func (s *Service) Gateway() *gateway.Service {
	return s.gateway
}

// Actions returns the tool service registry
func (s *Service) Actions() *extension.Actions {
	return s.actions
}

// Executor returns the tool call executor
func (s *Service) Executor() *executor.Service {
	return s.executor
}

// Tools returns every exposed tool
func (s *Service) Tools() []*extension.Tool {
	return s.actions.Tools()
}

// Execute runs an agent tool call
func (s *Service) Execute(ctx context.Context, call *executor.Call) (interface{}, error) {
	return s.executor.Execute(ctx, call)
}

// RegisterExtensionServices registers additional tool services
func (s *Service) RegisterExtensionServices(services ...types.Service) {
	for i := range services {
		s.actions.Register(services[i])
	}
}

// Close releases the engine client and flushes the tracing provider installed by New
func (s *Service) Close() error {
	var err error
	if s.client != nil {
		err = s.client.Close()
	}
	if s.provider != nil {
		err = errors.Join(err, s.provider.Shutdown(context.Background()))
		s.provider = nil
	}
	return err
}

func (s *Service) loadConfig(ctx context.Context) error {
	var err error
	if s.config == nil {
		if s.configURL != "" {
			s.config, err = LoadConfig(ctx, s.configURL, s.configFsOptions...)
		} else {
			s.config, err = LoadConfigFromEnv()
		}
		if err != nil {
			return err
		}
	}
	if err = s.config.ResolveSecrets(ctx); err != nil {
		return err
	}
	s.config.Init()
	return s.config.Validate()
}

func (s *Service) initTracing() error {
	cfg := s.tracing
	if cfg == nil && s.config.Tracing.Enabled {
		cfg = &s.config.Tracing
	}
	if cfg == nil || !cfg.Enabled {
		return nil
	}
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = DefaultServiceName
	}
	var err error
	if s.exporter != nil {
		s.provider, err = tracing.InitWithExporter(serviceName, cfg.ServiceVersion, s.exporter)
	} else {
		s.provider, err = tracing.Init(serviceName, cfg.ServiceVersion, cfg.OutputFile)
	}
	return err
}

func (s *Service) init(ctx context.Context, options []Option) error {
	for _, option := range options {
		option(s)
	}
	if err := s.loadConfig(ctx); err != nil {
		return err
	}
	if err := s.initTracing(); err != nil {
		return fmt.Errorf("failed to initialise tracing: %w", err)
	}
	if s.client == nil {
		s.client = rest.New(s.config.BaseURL(), s.config.ClientID, s.config.AuthToken, rest.WithTimeout(s.config.StepTimeout()))
	}

	gatewayOptions := []gateway.Option{gateway.WithLogger(s.logger)}
	if s.registerer != nil {
		metrics, err := gateway.NewMetrics(s.registerer)
		if err != nil {
			_ = s.provider.Shutdown(ctx)
			return err
		}
		gatewayOptions = append(gatewayOptions, gateway.WithMetrics(metrics))
	}
	s.gateway = gateway.New(s.client, gatewayOptions...)

	s.actions = extension.NewActions(aunmeshed.New(s.gateway))
	s.RegisterExtensionServices(s.extensionServices...)

	if s.policy == nil {
		s.policy = policy.FromConfig(s.config.Policy)
	}
	if s.listener == nil {
		s.listener = executor.LogListener(s.logger)
	}
	s.executor = executor.New(s.actions, executor.WithPolicy(s.policy), executor.WithListener(s.listener))
	return nil
}

// New creates a service; configuration without client id, auth token or server URL is fatal.
func New(ctx context.Context, options ...Option) (*Service, error) {
	ret := &Service{logger: zap.NewNop()}
	if err := ret.init(ctx, options); err != nil {
		return nil, err
	}
	return ret, nil
}
