package extension

import (
	"sort"
	"sync"

	"github.com/unmeshed/unmeshed-mcp-server/model/types"
)

// Actions provides action service registry
type Actions struct {
	services map[string]types.Service
	mux      sync.RWMutex
}

// Lookup returns a service by name
func (s *Actions) Lookup(name string) types.Service {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return s.services[name]
}

// Register registers a service, a service with the same name is replaced
func (s *Actions) Register(service types.Service) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.services[service.Name()] = service
}

// Tool describes one exposed service method
type Tool struct {
	Service   string
	Signature types.Signature
}

// Name returns fully qualified tool name: service.method
func (t *Tool) Name() string {
	return t.Service + "." + t.Signature.Name
}

// Tools returns all methods of registered services sorted by name
func (s *Actions) Tools() []*Tool {
	s.mux.RLock()
	defer s.mux.RUnlock()
	var ret []*Tool
	for name, service := range s.services {
		for _, signature := range service.Methods() {
			ret = append(ret, &Tool{Service: name, Signature: signature})
		}
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Name() < ret[j].Name() })
	return ret
}

// NewActions creates a new action registry
func NewActions(services ...types.Service) *Actions {
	ret := &Actions{
		services: make(map[string]types.Service),
	}
	for _, service := range services {
		if service != nil {
			ret.Register(service)
		}
	}
	return ret
}
