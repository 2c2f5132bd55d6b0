package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dispatchbot/dispatch/internal/config"
	"github.com/dispatchbot/dispatch/internal/domain"
	"github.com/tmc/langchaingo/llms"
)

// MessageResponse is the result of one model round trip: text, tool
// invocations, or both.
type MessageResponse struct {
	TextResponse string
	ToolCalls    []domain.ToolCall
}

type FunctionCallChunk struct {
	Name          string `json:"name"`
	ArgumentsJson string `json:"arguments"`
}

// StreamHandler receives streaming output as it arrives
type StreamHandler interface {
	HandleTextChunk(chunk []byte) error
	HandleMessageDone() error
	HandleFunctionCallStart(id, name string) error
	HandleFunctionCallChunk(chunk FunctionCallChunk) error
	Reset()
}

func buildMessageHistory(messages []domain.Message) []llms.MessageContent {
	var history []llms.MessageContent
	for _, msg := range messages {
		var role llms.ChatMessageType
		switch msg.Role {
		case domain.RoleAssistant:
			role = llms.ChatMessageTypeAI
		case domain.RoleSystem:
			role = llms.ChatMessageTypeSystem
		case domain.RoleTool:
			role = llms.ChatMessageTypeTool
		default:
			role = llms.ChatMessageTypeHuman
		}
		history = append(history, llms.TextParts(role, msg.Content))
	}
	return history
}

func getTools(tools map[string]domain.Tool) []llms.Tool {
	var result []llms.Tool
	for name, tool := range tools {
		paramsMap := convertParameters(tool.Parameters)

		result = append(result, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        name,
				Description: tool.Description,
				Parameters:  paramsMap,
			},
		})
	}
	return result
}

func convertParameters(params domain.Parameters) map[string]any {
	properties := make(map[string]any)

	for pName, prop := range params.Properties {
		properties[pName] = convertProperty(prop)
	}

	return map[string]any{
		"type":       params.Type,
		"properties": properties,
		"required":   params.Required,
	}
}

func convertProperty(prop domain.Property) map[string]any {
	result := map[string]any{
		"type":        prop.Type,
		"description": prop.Description,
	}

	if len(prop.Enum) > 0 {
		result["enum"] = prop.Enum
	}

	if prop.Default != nil {
		result["default"] = prop.Default
	}

	if prop.Type == "array" && prop.Items != nil {
		result["items"] = convertProperty(*prop.Items)
	}

	if prop.Type == "object" && len(prop.Properties) > 0 {
		nestedProps := make(map[string]any)
		for name, p := range prop.Properties {
			nestedProps[name] = convertProperty(p)
		}
		result["properties"] = nestedProps

		if len(prop.Required) > 0 {
			result["required"] = prop.Required
		}
	}

	return result
}

// GenerateContent sends one chat request with the given history and
// advertised tools, and extracts any tool calls the model chose.
func GenerateContent(
	ctx context.Context,
	modelCfg config.ModelPreset,
	content string,
	history []domain.Message,
	tools map[string]domain.Tool,
	streamHandler StreamHandler,
) (MessageResponse, error) {
	llmClient, err := createClient(modelCfg)
	if err != nil {
		return MessageResponse{}, fmt.Errorf("failed to create LLM client: %w", err)
	}

	return generate(ctx, llmClient, modelCfg, content, history, tools, streamHandler)
}

// generate is the provider-independent half of GenerateContent, split
// out so tests can substitute the model.
func generate(
	ctx context.Context,
	llmClient llms.Model,
	modelCfg config.ModelPreset,
	content string,
	history []domain.Message,
	tools map[string]domain.Tool,
	streamHandler StreamHandler,
) (MessageResponse, error) {
	opts := []llms.CallOption{
		llms.WithTemperature(modelCfg.Temperature),
		llms.WithMaxTokens(modelCfg.MaxTokens),
	}
	if modelCfg.TopP > 0 {
		opts = append(opts, llms.WithTopP(modelCfg.TopP))
	}
	if len(modelCfg.Stop) > 0 {
		opts = append(opts, llms.WithStopWords(modelCfg.Stop))
	}

	langchainTools := getTools(tools)
	if len(langchainTools) > 0 {
		opts = append(opts, llms.WithTools(langchainTools))
	}

	if streamHandler != nil {
		opts = append(opts, llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
			return streamHandler.HandleTextChunk(chunk)
		}))
	}

	msgs := buildMessageHistory(history)
	msgs = append(msgs, llms.TextParts(llms.ChatMessageTypeHuman, content))

	resp, err := llmClient.GenerateContent(ctx, msgs, opts...)
	if err != nil {
		return MessageResponse{}, fmt.Errorf("message generation failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return MessageResponse{}, fmt.Errorf("no response choices returned")
	}

	toolCalls := make([]domain.ToolCall, 0)
	for _, choice := range resp.Choices {
		for _, tc := range choice.ToolCalls {
			if tc.FunctionCall == nil {
				continue
			}
			toolCalls = append(toolCalls, domain.ToolCall{
				ID:        tc.ID,
				Name:      tc.FunctionCall.Name,
				Arguments: json.RawMessage(tc.FunctionCall.Arguments),
			})
		}
	}

	// The provider SDKs only stream text; tool calls arrive with the
	// final response. Replay them through the handler so streaming
	// consumers see one uniform event sequence.
	if streamHandler != nil {
		for _, call := range toolCalls {
			if err := streamHandler.HandleFunctionCallStart(call.ID, call.Name); err != nil {
				return MessageResponse{}, err
			}
			if err := streamHandler.HandleFunctionCallChunk(FunctionCallChunk{
				Name:          call.Name,
				ArgumentsJson: string(call.Arguments),
			}); err != nil {
				return MessageResponse{}, err
			}
		}
	}

	return MessageResponse{
		TextResponse: resp.Choices[0].Content,
		ToolCalls:    toolCalls,
	}, nil
}
