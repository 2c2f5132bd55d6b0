package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dispatchbot/dispatch/internal/domain"
)

// Handler executes a tool call with parsed arguments
type Handler func(ctx context.Context, args map[string]interface{}) (string, error)

// Executor runs a named tool against a raw argument payload
type Executor interface {
	Execute(ctx context.Context, name string, args json.RawMessage) (string, error)
}

// Registry holds locally executable tools
type Registry struct {
	mu    sync.RWMutex
	tools map[string]registeredTool
}

type registeredTool struct {
	tool    domain.Tool
	handler Handler
	// preset parameter values injected at execution time; pinned
	// parameters are stripped from the advertised schema
	preset map[string]string
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]registeredTool)}
}

// Register adds a tool and its handler to the registry
func (r *Registry) Register(tool domain.Tool, handler Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("tool %q already registered", tool.Name)
	}
	r.tools[tool.Name] = registeredTool{tool: tool, handler: handler}
	return nil
}

// Get returns the advertised descriptor for a tool
func (r *Registry) Get(name string) (domain.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[name]
	if !ok {
		return domain.Tool{}, false
	}
	return t.tool, true
}

// All returns the advertised descriptors of every registered tool
func (r *Registry) All() map[string]domain.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]domain.Tool, len(r.tools))
	for name, t := range r.tools {
		result[name] = t.tool
	}
	return result
}

// Execute validates the raw arguments against the tool's schema,
// injects any pinned preset parameters, and runs the handler.
func (r *Registry) Execute(ctx context.Context, name string, args json.RawMessage) (string, error) {
	r.mu.RLock()
	t, ok := r.tools[name]
	r.mu.RUnlock()

	if !ok {
		return "", domain.ToolNotFoundError{Name: name}
	}

	if err := domain.ValidateArguments(args, t.tool); err != nil {
		return "", fmt.Errorf("argument validation failed: %w", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(args, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse arguments: %w", err)
	}
	for k, v := range t.preset {
		parsed[k] = v
	}

	result, err := t.handler(ctx, parsed)
	if err != nil {
		return "", fmt.Errorf("tool %s failed: %w", name, err)
	}
	return result, nil
}
