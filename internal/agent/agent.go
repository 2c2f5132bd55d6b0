package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dispatchbot/dispatch/internal/config"
	"github.com/dispatchbot/dispatch/internal/domain"
	"github.com/dispatchbot/dispatch/internal/llm"
	"github.com/dispatchbot/dispatch/internal/repository"
	"github.com/dispatchbot/dispatch/internal/safety"
	"github.com/dispatchbot/dispatch/internal/tokens"
	"github.com/dispatchbot/dispatch/internal/tools"
	"github.com/google/uuid"
)

// Agent manages the interaction between the repository, the model, and
// function calls.
type Agent struct {
	repository  repository.ConversationRepository
	executor    tools.Executor
	tools       map[string]tools.ToolWithApproval
	modelConfig config.ModelPreset
	cfg         config.Agent
	pipeline    *safety.Pipeline
}

// New creates a new Agent with the given dependencies. The executor
// must be able to run every tool in the advertised map.
func New(
	repo repository.ConversationRepository,
	executor tools.Executor,
	advertised map[string]tools.ToolWithApproval,
	modelCfg config.ModelPreset,
	cfg config.Agent,
	pipeline *safety.Pipeline,
) *Agent {
	return &Agent{
		repository:  repo,
		executor:    executor,
		tools:       advertised,
		modelConfig: modelCfg,
		cfg:         cfg,
		pipeline:    pipeline,
	}
}

type SendMessageOptions struct {
	ConversationID uuid.UUID
	Content        string
	Role           domain.Role // defaults to RoleHuman
	StreamHandler  llm.StreamHandler
}

// SendMessage runs one exchange: safety-check and persist the user
// message, generate a response with the advertised tools, and when the
// model chose tool calls, execute them and feed the results back until
// the model answers in text or the iteration cap is reached.
func (a *Agent) SendMessage(ctx context.Context, opts SendMessageOptions) (*domain.Message, error) {
	return a.sendMessage(ctx, opts, 0)
}

func (a *Agent) sendMessage(ctx context.Context, opts SendMessageOptions, depth int) (*domain.Message, error) {
	content := opts.Content
	role := opts.Role
	if role == "" {
		role = domain.RoleHuman
	}

	// Tool results are our own output and skip the input checks
	if role == domain.RoleHuman && a.pipeline != nil {
		result, err := a.pipeline.CheckInput(ctx, content)
		if err != nil {
			return nil, fmt.Errorf("safety check failed: %w", err)
		}
		if !result.Safe {
			return nil, &InputBlockedError{Details: result.Details}
		}
		if result.Processed != content {
			slog.Debug("input redacted", "findings", len(result.Details.Findings))
			content = result.Processed
		}
	}

	conv, err := a.repository.GetByID(ctx, opts.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	history := a.buildHistory(conv.Messages)

	userMsg := &domain.Message{
		ConversationID: conv.ID,
		Role:           role,
		Content:        content,
	}
	if err := a.repository.AddMessage(ctx, conv.ID, userMsg); err != nil {
		return nil, err
	}

	response, err := llm.GenerateContent(
		ctx,
		a.modelConfig,
		content,
		history,
		a.advertisedTools(),
		opts.StreamHandler,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate response: %w", err)
	}

	if opts.StreamHandler != nil {
		_ = opts.StreamHandler.HandleMessageDone()
		opts.StreamHandler.Reset()
	}

	toolCallsJSON := ""
	if len(response.ToolCalls) > 0 {
		b, err := json.Marshal(response.ToolCalls)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize tool calls: %w", err)
		}
		toolCallsJSON = string(b)
	}

	aiMsg := &domain.Message{
		ConversationID: conv.ID,
		Role:           domain.RoleAssistant,
		Content:        response.TextResponse,
		ToolCalls:      toolCallsJSON,
		ModelName:      a.modelConfig.Name,
		Provider:       a.modelConfig.Provider,
	}
	if err := a.repository.AddMessage(ctx, conv.ID, aiMsg); err != nil {
		return nil, err
	}

	if len(response.ToolCalls) == 0 {
		return a.checkOutput(ctx, aiMsg)
	}

	if depth+1 >= a.maxIterations() {
		slog.Warn("function call iteration cap reached", "conversation", conv.ID)
		return aiMsg, nil
	}

	if !a.cfg.AutoApproveFunctions {
		if call, required := a.firstApprovalRequired(response.ToolCalls); required {
			return aiMsg, &PendingFunctionCallError{Message: aiMsg, ToolCall: call}
		}
	}

	combined := a.executeAll(ctx, response.ToolCalls)

	return a.sendMessage(ctx, SendMessageOptions{
		ConversationID: conv.ID,
		Content:        combined,
		Role:           domain.RoleTool,
		StreamHandler:  opts.StreamHandler,
	}, depth+1)
}

// buildHistory prepends the configured system message and trims the
// conversation to the token budget.
func (a *Agent) buildHistory(messages []domain.Message) []domain.Message {
	var history []domain.Message
	if a.modelConfig.SystemMessage != "" {
		history = append(history, domain.Message{
			Role:    domain.RoleSystem,
			Content: a.modelConfig.SystemMessage,
		})
	}
	history = append(history, messages...)
	return tokens.Budget(history, a.cfg.HistoryTokenBudget)
}

func (a *Agent) advertisedTools() map[string]domain.Tool {
	flat := make(map[string]domain.Tool, len(a.tools))
	for name, t := range a.tools {
		flat[name] = t.Tool
	}
	return flat
}

func (a *Agent) maxIterations() int {
	if a.cfg.MaxIterations <= 0 {
		return 1
	}
	return a.cfg.MaxIterations
}

func (a *Agent) firstApprovalRequired(calls []domain.ToolCall) (domain.ToolCall, bool) {
	for _, call := range calls {
		if t, ok := a.tools[call.Name]; ok && t.RequireApproval {
			return call, true
		}
	}
	return domain.ToolCall{}, false
}

// executeAll runs every tool call concurrently and formats the
// combined results in call order.
func (a *Agent) executeAll(ctx context.Context, calls []domain.ToolCall) string {
	type toolResult struct {
		index  int
		result string
		err    error
	}
	resultChan := make(chan toolResult, len(calls))

	for i, call := range calls {
		go func(i int, tc domain.ToolCall) {
			result, err := a.executor.Execute(ctx, tc.Name, tc.Arguments)
			resultChan <- toolResult{index: i, result: result, err: err}
		}(i, call)
	}

	results := make([]toolResult, len(calls))
	for range calls {
		res := <-resultChan
		results[res.index] = res
	}

	var combined strings.Builder
	combined.WriteString("Tool call results:\n\n")
	for i, res := range results {
		call := calls[i]
		fmt.Fprintf(&combined, "Name: %s\n", call.Name)
		fmt.Fprintf(&combined, "ID: %s\n", call.ID)
		fmt.Fprintf(&combined, "Arguments: %s\n", string(call.Arguments))
		fmt.Fprint(&combined, "Result:\n")
		if res.err != nil {
			fmt.Fprintf(&combined, "Error: %v\n", res.err)
		} else {
			fmt.Fprintf(&combined, "%s\n", res.result)
		}
		if i < len(results)-1 {
			combined.WriteString("\n")
		}
	}
	return combined.String()
}

// checkOutput runs the safety pipeline over the final response and
// substitutes a refusal when it is flagged.
func (a *Agent) checkOutput(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	if a.pipeline == nil || msg.Content == "" {
		return msg, nil
	}

	result, err := a.pipeline.CheckOutput(ctx, msg.Content)
	if err != nil {
		return nil, fmt.Errorf("output safety check failed: %w", err)
	}
	if !result.Safe {
		slog.Warn("model output blocked", "categories", result.Details.Categories)
		msg.Content = "I cannot provide that information."
	}
	return msg, nil
}

// ApproveFunctionCall executes a previously pending tool call and
// feeds its result back into the conversation.
func (a *Agent) ApproveFunctionCall(ctx context.Context, conversationID uuid.UUID, call domain.ToolCall) (*domain.Message, error) {
	result, err := a.executor.Execute(ctx, call.Name, call.Arguments)

	var combined strings.Builder
	combined.WriteString("Tool call results:\n\n")
	fmt.Fprintf(&combined, "Name: %s\n", call.Name)
	fmt.Fprintf(&combined, "ID: %s\n", call.ID)
	fmt.Fprintf(&combined, "Arguments: %s\n", string(call.Arguments))
	fmt.Fprint(&combined, "Result:\n")
	if err != nil {
		fmt.Fprintf(&combined, "Error: %v\n", err)
	} else {
		fmt.Fprintf(&combined, "%s\n", result)
	}

	return a.sendMessage(ctx, SendMessageOptions{
		ConversationID: conversationID,
		Content:        combined.String(),
		Role:           domain.RoleTool,
	}, 1)
}

// DenyFunctionCall reports a denied function call to the model
func (a *Agent) DenyFunctionCall(ctx context.Context, conversationID uuid.UUID, reason string) (*domain.Message, error) {
	content := fmt.Sprintf("Function call denied: %s\nPlease suggest an alternative approach.", reason)
	return a.sendMessage(ctx, SendMessageOptions{
		ConversationID: conversationID,
		Content:        content,
		Role:           domain.RoleTool,
	}, 1)
}

// NewConversation creates and persists an empty conversation
func (a *Agent) NewConversation(ctx context.Context) (*domain.Conversation, error) {
	conv := &domain.Conversation{}
	if err := a.repository.Create(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// GetActiveConversation returns the most recently created conversation
func (a *Agent) GetActiveConversation(ctx context.Context) (*domain.Conversation, error) {
	return a.repository.GetMostRecent(ctx)
}
