package unmeshed

import (
	"github.com/unmeshed/unmeshed-mcp-server/client"
	"github.com/unmeshed/unmeshed-mcp-server/model/types"
	"github.com/unmeshed/unmeshed-mcp-server/policy"
	"github.com/unmeshed/unmeshed-mcp-server/service/executor"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/viant/afs/storage"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// Option customises Service construction
type Option func(s *Service)

// WithConfig sets the configuration, LoadConfigFromEnv is used otherwise
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithConfigURL loads YAML configuration from any afs supported URL
func WithConfigURL(URL string, options ...storage.Option) Option {
	return func(s *Service) {
		s.configURL = URL
		s.configFsOptions = options
	}
}

// WithClient sets the orchestration engine client, the REST client is used otherwise
func WithClient(c client.Client) Option {
	return func(s *Service) {
		s.client = c
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetricsRegisterer enables gateway metrics registered with reg
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(s *Service) {
		s.registerer = reg
	}
}

// WithPolicy sets the default execution policy, it takes precedence over Config.Policy
func WithPolicy(p *policy.Policy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

// WithListener sets the executor listener
func WithListener(listener executor.Listener) Option {
	return func(s *Service) {
		s.listener = listener
	}
}

// WithExtensionServices registers additional tool services
func WithExtensionServices(services ...types.Service) Option {
	return func(s *Service) {
		s.extensionServices = append(s.extensionServices, services...)
	}
}

// WithTracing enables stdout tracing for the supplied service name, version and output file
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		s.tracing = &TracingConfig{Enabled: true, ServiceName: serviceName, ServiceVersion: serviceVersion, OutputFile: outputFile}
	}
}

// WithTracingExporter enables tracing with a custom exporter
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		s.tracing = &TracingConfig{Enabled: true, ServiceName: serviceName, ServiceVersion: serviceVersion}
		s.exporter = exporter
	}
}
