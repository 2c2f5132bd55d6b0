package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/dispatchbot/dispatch/internal/config"
	"github.com/dispatchbot/dispatch/internal/domain"
	mcp_golang "github.com/metoro-io/mcp-golang"
	"github.com/metoro-io/mcp-golang/transport/stdio"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Client manages multiple MCP server connections and exposes their
// tools under "server__tool" names.
type Client struct {
	servers     map[string]config.MCPServer
	clients     map[string]*mcp_golang.Client
	commands    map[string]*exec.Cmd
	tools       map[string]domain.Tool
	mu          sync.RWMutex
	initialized bool
}

// New creates a new MCP client manager
func New(servers map[string]config.MCPServer) *Client {
	return &Client{
		servers:  servers,
		clients:  make(map[string]*mcp_golang.Client),
		commands: make(map[string]*exec.Cmd),
		tools:    make(map[string]domain.Tool),
	}
}

// Initialize starts all configured servers and establishes connections
// in parallel
func (c *Client) Initialize(ctx context.Context) error {
	c.mu.Lock()
	if c.initialized {
		c.mu.Unlock()
		return errors.New("client already initialized")
	}
	c.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)

	for name, server := range c.servers {
		name, server := name, server
		g.Go(func() error {
			return c.startServer(gctx, name, server)
		})
	}

	if err := g.Wait(); err != nil {
		c.Shutdown()
		return errors.Wrap(err, "failed to initialize servers")
	}

	if err := c.buildToolRegistry(ctx); err != nil {
		c.Shutdown()
		return errors.Wrap(err, "failed to build tool registry")
	}

	c.mu.Lock()
	c.initialized = true
	c.mu.Unlock()

	return nil
}

// startServer starts a single server and establishes its client connection
func (c *Client) startServer(ctx context.Context, name string, server config.MCPServer) error {
	if strings.Contains(name, "__") {
		return fmt.Errorf("invalid server name %q, must not contain '__'", name)
	}

	cmd := exec.Command(server.Command, server.Args...)
	for k, v := range server.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return errors.Wrap(err, "failed to get stdin pipe")
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return errors.Wrap(err, "failed to get stdout pipe")
	}

	if err := cmd.Start(); err != nil {
		return errors.Wrap(err, "failed to start server")
	}

	transport := stdio.NewStdioServerTransportWithIO(stdout, stdin)
	client := mcp_golang.NewClientWithInfo(transport, mcp_golang.ClientInfo{
		Name:    fmt.Sprintf("dispatch-%s", name),
		Version: "1.0.0",
	})

	if _, err := client.Initialize(ctx); err != nil {
		_ = cmd.Process.Kill()
		return errors.Wrap(err, "failed to initialize client")
	}

	c.mu.Lock()
	c.clients[name] = client
	c.commands[name] = cmd
	c.mu.Unlock()

	return nil
}

// buildToolRegistry aggregates the tools of every connected server
func (c *Client) buildToolRegistry(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tools = make(map[string]domain.Tool)

	for serverName, client := range c.clients {
		response, err := client.ListTools(ctx, nil)
		if err != nil {
			return errors.Wrapf(err, "failed to list tools for server %s", serverName)
		}

		for _, mcpTool := range response.Tools {
			toolName := fmt.Sprintf("%s__%s", serverName, mcpTool.Name)

			description := ""
			if mcpTool.Description != nil {
				description = *mcpTool.Description
			}

			var params domain.Parameters
			if schema, ok := mcpTool.InputSchema.(map[string]interface{}); ok {
				params = parseSchema(schema)
			}

			c.tools[toolName] = domain.Tool{
				Name:        toolName,
				Description: description,
				Parameters:  params,
			}
		}
	}

	return nil
}

// parseSchema converts a JSON schema map into a Parameters struct
func parseSchema(schema map[string]interface{}) domain.Parameters {
	params := domain.Parameters{
		Properties: make(map[string]domain.Property),
	}

	if t, ok := schema["type"].(string); ok {
		params.Type = t
	}

	if required, ok := schema["required"].([]interface{}); ok {
		params.Required = make([]string, 0, len(required))
		for _, r := range required {
			if str, ok := r.(string); ok {
				params.Required = append(params.Required, str)
			}
		}
	}

	if props, ok := schema["properties"].(map[string]interface{}); ok {
		for name, propInterface := range props {
			propMap, ok := propInterface.(map[string]interface{})
			if !ok {
				continue
			}
			property := domain.Property{}

			if t, ok := propMap["type"].(string); ok {
				property.Type = t
			}
			if desc, ok := propMap["description"].(string); ok {
				property.Description = desc
			}
			if enum, ok := propMap["enum"].([]interface{}); ok {
				property.Enum = make([]string, 0, len(enum))
				for _, e := range enum {
					if str, ok := e.(string); ok {
						property.Enum = append(property.Enum, str)
					}
				}
			}

			params.Properties[name] = property
		}
	}

	return params
}

// Execute calls a tool using its fully qualified name (server__tool).
// It satisfies the same Executor contract as the local registry so the
// agent can treat both tool sources alike.
func (c *Client) Execute(ctx context.Context, name string, args json.RawMessage) (string, error) {
	parts := strings.SplitN(name, "__", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid tool name format, expected 'server__tool', got %q", name)
	}

	serverName, toolName := parts[0], parts[1]

	c.mu.RLock()
	client, exists := c.clients[serverName]
	tool, known := c.tools[name]
	c.mu.RUnlock()

	if !exists {
		return "", fmt.Errorf("server %s not found", serverName)
	}
	if known {
		if err := domain.ValidateArguments(args, tool); err != nil {
			return "", fmt.Errorf("argument validation failed: %w", err)
		}
	}

	var arguments interface{}
	if err := json.Unmarshal(args, &arguments); err != nil {
		return "", errors.Wrap(err, "failed to parse arguments")
	}

	response, err := client.CallTool(ctx, toolName, arguments)
	if err != nil {
		return "", errors.Wrapf(err, "tool %s failed", name)
	}

	result, err := json.Marshal(response)
	if err != nil {
		return "", errors.Wrap(err, "failed to format result")
	}

	return string(result), nil
}

// GetTools returns a copy of the aggregated tool map
func (c *Client) GetTools() map[string]domain.Tool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tools := make(map[string]domain.Tool, len(c.tools))
	for k, v := range c.tools {
		tools[k] = v
	}
	return tools
}

// Shutdown stops all servers and cleans up resources in parallel
func (c *Client) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	var wg sync.WaitGroup
	for _, cmd := range c.commands {
		if cmd == nil || cmd.Process == nil {
			continue
		}
		wg.Add(1)
		go func(cmd *exec.Cmd) {
			defer wg.Done()
			_ = cmd.Process.Kill()
		}(cmd)
	}
	wg.Wait()

	c.commands = make(map[string]*exec.Cmd)
	c.clients = make(map[string]*mcp_golang.Client)
	c.tools = make(map[string]domain.Tool)
	c.initialized = false
}
