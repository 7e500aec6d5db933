package policy

import (
	"context"
	"strings"
)

// Modes
const (
	ModeAuto = "auto"
	ModeAsk  = "ask"
	ModeDeny = "deny"
)

// Request is a tool call awaiting approval
type Request struct {
	CallID string
	Tool   string // service.method, for example unmeshed.startSync
	Args   map[string]interface{}
}

// Service returns the service part of the tool name
func (r *Request) Service() string {
	if index := strings.Index(r.Tool, "."); index != -1 {
		return r.Tool[:index]
	}
	return r.Tool
}

// AskFunc decides a request when the policy mode is ask
type AskFunc func(ctx context.Context, request *Request) bool

// Policy controls which tool calls the executor runs. A nil Policy approves every call.
//
// Rules in AllowList and BlockList are tool names matched case-insensitively;
// "service.*" matches every method of a service and "*" matches any tool.
// BlockList wins over AllowList, an empty AllowList allows every tool.
type Policy struct {
	Mode      string
	AllowList []string
	BlockList []string
	Ask       AskFunc
}

// Config is the serialisable part of a Policy
type Config struct {
	Mode      string   `json:"mode,omitempty" yaml:"mode,omitempty"`
	AllowList []string `json:"allow,omitempty" yaml:"allow,omitempty"`
	BlockList []string `json:"block,omitempty" yaml:"block,omitempty"`
}

// FromConfig creates a Policy from its configuration; nil stays nil
func FromConfig(c *Config) *Policy {
	if c == nil {
		return nil
	}
	return &Policy{
		Mode:      strings.ToLower(strings.TrimSpace(c.Mode)),
		AllowList: append([]string(nil), c.AllowList...),
		BlockList: append([]string(nil), c.BlockList...),
	}
}

// IsAllowed evaluates the allow and block lists for tool
func (p *Policy) IsAllowed(tool string) bool {
	if p == nil {
		return true
	}
	if matchAny(p.BlockList, tool) {
		return false
	}
	return len(p.AllowList) == 0 || matchAny(p.AllowList, tool)
}

// Approve reports whether request may run
func (p *Policy) Approve(ctx context.Context, request *Request) bool {
	if p == nil {
		return true
	}
	if request == nil || !p.IsAllowed(request.Tool) {
		return false
	}
	switch strings.ToLower(p.Mode) {
	case ModeDeny:
		return false
	case ModeAsk:
		return p.Ask != nil && p.Ask(ctx, request)
	}
	return true
}

func matchAny(rules []string, tool string) bool {
	for _, rule := range rules {
		if match(rule, tool) {
			return true
		}
	}
	return false
}

func match(rule, tool string) bool {
	rule = strings.TrimSpace(rule)
	if rule == "*" {
		return true
	}
	if service, ok := strings.CutSuffix(rule, ".*"); ok {
		prefix := service + "."
		return len(tool) > len(prefix) && strings.EqualFold(tool[:len(prefix)], prefix)
	}
	return strings.EqualFold(rule, tool)
}

type contextKey struct{}

// WithPolicy returns ctx carrying p; the executor prefers it over its default policy
func WithPolicy(ctx context.Context, p *Policy) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext returns the policy carried by ctx, or nil
func FromContext(ctx context.Context) *Policy {
	if ctx == nil {
		return nil
	}
	p, _ := ctx.Value(contextKey{}).(*Policy)
	return p
}
