package tracing

import (
	"context"
	"errors"
	"io"
	"os"
	"strconv"

	"github.com/unmeshed/unmeshed-mcp-server/model/process"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/unmeshed/unmeshed-mcp-server"

// Span kinds used by the gateway, the REST client and the executor
const (
	KindInternal = trace.SpanKindInternal
	KindClient   = trace.SpanKindClient
	KindServer   = trace.SpanKindServer
)

// Attribute keys recorded on spans
const (
	ProcessID          = attribute.Key("unmeshed.process.id")
	ProcessName        = attribute.Key("unmeshed.process.name")
	ProcessNamespace   = attribute.Key("unmeshed.process.namespace")
	ProcessVersion     = attribute.Key("unmeshed.process.version")
	RequestID          = attribute.Key("unmeshed.request_id")
	CorrelationID      = attribute.Key("unmeshed.correlation_id")
	Endpoint           = attribute.Key("unmeshed.api.endpoint")
	CallType           = attribute.Key("unmeshed.api.call_type")
	ToolCallID         = attribute.Key("tool.call_id")
	HTTPResponseStatus = attribute.Key("http.response.status_code")
)

// Provider owns the installed tracer provider and the trace output it writes to
type Provider struct {
	provider *sdktrace.TracerProvider
	output   io.Closer
}

// Init installs a provider exporting spans to stdout or, when outputFile is set, to that file
func Init(serviceName, serviceVersion, outputFile string) (*Provider, error) {
	var w io.Writer = os.Stdout
	var output io.Closer
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return nil, err
		}
		w, output = f, f
	}
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		if output != nil {
			_ = output.Close()
		}
		return nil, err
	}
	ret, err := install(serviceName, serviceVersion, exporter)
	if err != nil {
		if output != nil {
			_ = output.Close()
		}
		return nil, err
	}
	ret.output = output
	return ret, nil
}

// InitWithExporter installs a provider using the supplied exporter (OTLP, Jaeger, ...)
func InitWithExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) (*Provider, error) {
	if exporter == nil {
		return nil, errors.New("span exporter was nil")
	}
	return install(serviceName, serviceVersion, exporter)
}

func install(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) (*Provider, error) {
	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	return &Provider{provider: provider}, nil
}

// Shutdown flushes pending spans and closes the trace output file
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	err := p.provider.Shutdown(ctx)
	if p.output != nil {
		err = errors.Join(err, p.output.Close())
		p.output = nil
	}
	return err
}

// Span wraps an OpenTelemetry span
type Span struct {
	span trace.Span
}

// SetAttributes records attributes, empty string values are skipped
func (s *Span) SetAttributes(attrs ...attribute.KeyValue) *Span {
	if s == nil {
		return s
	}
	kept := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if attr.Value.Type() == attribute.STRING && attr.Value.AsString() == "" {
			continue
		}
		kept = append(kept, attr)
	}
	s.span.SetAttributes(kept...)
	return s
}

// SetHTTPStatus records the engine response code, 4xx and 5xx mark the span as failed
func (s *Span) SetHTTPStatus(code int) {
	if s == nil {
		return
	}
	s.span.SetAttributes(HTTPResponseStatus.Int(code))
	if code >= 400 {
		s.span.SetStatus(codes.Error, "unmeshed api status "+strconv.Itoa(code))
	}
}

// End records err, if any, and ends the span
func (s *Span) End(err error) {
	if s == nil {
		return
	}
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	}
	s.span.End()
}

// StartSpan starts a child span of any span carried by ctx
func StartSpan(ctx context.Context, name string, kind trace.SpanKind, attrs ...attribute.KeyValue) (context.Context, *Span) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, name, trace.WithSpanKind(kind))
	ret := &Span{span: span}
	ret.SetAttributes(attrs...)
	return ctx, ret
}

// RequestAttributes describes a process start request
func RequestAttributes(request *process.Request) []attribute.KeyValue {
	if request == nil {
		return nil
	}
	ret := []attribute.KeyValue{
		ProcessName.String(request.Name),
		ProcessNamespace.String(request.Namespace),
		RequestID.String(request.RequestID),
		CorrelationID.String(request.CorrelationID),
	}
	if request.Version != nil {
		ret = append(ret, ProcessVersion.Int(*request.Version))
	}
	return ret
}

// InvocationAttributes describes an API mapping invocation
func InvocationAttributes(invocation *process.Invocation) []attribute.KeyValue {
	if invocation == nil {
		return nil
	}
	return []attribute.KeyValue{
		Endpoint.String(invocation.Endpoint),
		CallType.String(string(invocation.CallType)),
		RequestID.String(invocation.RequestID),
		CorrelationID.String(invocation.CorrelationID),
	}
}
