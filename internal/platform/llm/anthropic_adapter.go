package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/interviewcoach/coach/internal/platform/logger"
)

const defaultAnthropicModel = anthropic.ModelClaude4Sonnet20250514

// anthropicClient talks to the Anthropic Messages API directly, using
// forced tool-use to obtain schema-shaped JSON the way the agent service in
// the retrieved corpus drives tool calls.
type anthropicClient struct {
	client anthropic.Client
	model  anthropic.Model
	log    *logger.Logger
}

func NewAnthropicClient(apiKey, model string, log *logger.Logger) (Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("anthropic api key required")
	}
	m := anthropic.Model(model)
	if strings.TrimSpace(model) == "" {
		m = defaultAnthropicModel
	}
	return &anthropicClient{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  m,
		log:    log.With("component", "anthropicClient"),
	}, nil
}

func (c *anthropicClient) GenerateText(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 4096,
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic messages.new: %w", err)
	}
	var out strings.Builder
	for _, block := range resp.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			out.WriteString(tb.Text)
		}
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("anthropic messages.new: empty response")
	}
	return out.String(), nil
}

func (c *anthropicClient) GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any) (map[string]any, error) {
	properties, _ := schema["properties"].(map[string]any)
	tool := anthropic.ToolParam{
		Name:        schemaName,
		Description: anthropic.String("Return the result of this task as structured data."),
		InputSchema: anthropic.ToolInputSchemaParam{
			Properties: properties,
		},
	}
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 4096,
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
		Tools: []anthropic.ToolUnionParam{{OfTool: &tool}},
		ToolChoice: anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{Name: schemaName},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic messages.new: %w", err)
	}
	for _, block := range resp.Content {
		if tu, ok := block.AsAny().(anthropic.ToolUseBlock); ok && tu.Name == schemaName {
			raw, err := json.Marshal(tu.Input)
			if err != nil {
				return nil, fmt.Errorf("anthropic marshal tool input: %w", err)
			}
			var out map[string]any
			if err := json.Unmarshal(raw, &out); err != nil {
				return nil, fmt.Errorf("anthropic decode tool input: %w", err)
			}
			return out, nil
		}
	}
	return nil, fmt.Errorf("anthropic messages.new: model returned no tool_use block for schema %q", schemaName)
}
