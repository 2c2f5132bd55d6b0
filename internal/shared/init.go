package shared

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dispatchbot/dispatch/internal/agent"
	"github.com/dispatchbot/dispatch/internal/appState"
	"github.com/dispatchbot/dispatch/internal/config"
	"github.com/dispatchbot/dispatch/internal/mcp"
	"github.com/dispatchbot/dispatch/internal/repository"
	sqliteRepo "github.com/dispatchbot/dispatch/internal/repository/sqlite"
	"github.com/dispatchbot/dispatch/internal/safety"
	"github.com/dispatchbot/dispatch/internal/tools"
)

// InitializeAgent wires the full stack for one invocation: repository,
// tool registry (builtins plus MCP servers), safety pipeline, and the
// agent itself. The returned cleanup shuts down MCP servers and must
// be called when done.
func InitializeAgent(ctx context.Context, presetOverride string) (*agent.Agent, repository.ConversationRepository, func(), error) {
	app := appState.Get()
	cfg := app.Config

	preset, err := cfg.ResolvePreset(presetOverride)
	if err != nil {
		return nil, nil, nil, err
	}

	repo, err := sqliteRepo.Initialize(cfg.DBPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize repository: %w", err)
	}

	registry := tools.NewRegistry()
	if err := tools.RegisterBuiltins(registry); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to register builtin tools: %w", err)
	}

	filtered, advertised, err := registry.FilterForPreset(preset.Toolsets, cfg.Toolsets)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to process toolsets: %w", err)
	}

	preset.SystemMessage = assembleSystemMessage(preset, cfg)

	cleanup := func() {}
	var mcpClient *mcp.Client
	if len(cfg.MCPServers) > 0 {
		mcpClient = mcp.New(cfg.MCPServers)
		if err := mcpClient.Initialize(ctx); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to initialize MCP servers: %w", err)
		}
		cleanup = mcpClient.Shutdown

		for name, tool := range mcpClient.GetTools() {
			advertised[name] = tools.ToolWithApproval{Tool: tool}
		}
	}

	var remote tools.Executor
	if mcpClient != nil {
		remote = mcpClient
	}
	var executor tools.Executor = tools.NewRouter(filtered, remote)
	if cfg.Agent.MaxToolResultLength > 0 {
		executor = tools.NewTruncatingExecutor(executor, cfg.Agent.MaxToolResultLength)
	}

	var moderator safety.Moderator
	if cfg.Safety.Moderation {
		moderator = safety.NewLLMModerator(preset)
	}
	pipeline := safety.NewPipeline(cfg.Safety, moderator)

	return agent.New(repo, executor, advertised, preset, cfg.Agent, pipeline), repo, cleanup, nil
}

// assembleSystemMessage joins the preset's system message with the
// messages contributed by its active toolsets and by configured MCP
// servers. Servers are appended in name order so the result is stable
// across runs.
func assembleSystemMessage(preset config.ModelPreset, cfg *config.ConfigSchema) string {
	parts := make([]string, 0, 1+len(preset.Toolsets)+len(cfg.MCPServers))
	if preset.SystemMessage != "" {
		parts = append(parts, preset.SystemMessage)
	}
	for _, name := range preset.Toolsets {
		if ts, ok := cfg.Toolsets[name]; ok && ts.SystemMessage != "" {
			parts = append(parts, ts.SystemMessage)
		}
	}
	serverNames := make([]string, 0, len(cfg.MCPServers))
	for name := range cfg.MCPServers {
		serverNames = append(serverNames, name)
	}
	sort.Strings(serverNames)
	for _, name := range serverNames {
		if msg := cfg.MCPServers[name].SystemMessage; msg != "" {
			parts = append(parts, msg)
		}
	}
	return strings.Join(parts, "\n\n")
}
