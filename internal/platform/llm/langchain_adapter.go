package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/interviewcoach/coach/internal/platform/logger"
)

// langchainClient talks to any OpenAI-compatible chat completions endpoint
// via langchaingo, using its tool-calling support to force schema-shaped
// JSON output the same way the function-calling examples in the retrieved
// corpus do (a single tool named after the requested schema, chosen with
// ToolChoice).
type langchainClient struct {
	model llms.Model
	log   *logger.Logger
}

// NewLangchainClient builds a Client backed by langchaingo's OpenAI
// provider. baseURL may point at any OpenAI-compatible gateway (Ollama,
// vLLM, Azure OpenAI, etc.); an empty baseURL uses langchaingo's default.
func NewLangchainClient(apiKey, model, baseURL string, log *logger.Logger) (Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	opts := []openai.Option{openai.WithToken(apiKey)}
	if model != "" {
		opts = append(opts, openai.WithModel(model))
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	m, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create langchaingo openai client: %w", err)
	}
	return &langchainClient{model: m, log: log.With("component", "langchainClient")}, nil
}

func (c *langchainClient) GenerateText(ctx context.Context, system, user string) (string, error) {
	history := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, user),
	}
	resp, err := c.model.GenerateContent(ctx, history, llms.WithTemperature(0.2))
	if err != nil {
		return "", fmt.Errorf("langchain generate content: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Content) == "" {
		return "", fmt.Errorf("langchain generate content: empty response")
	}
	return resp.Choices[0].Content, nil
}

func (c *langchainClient) GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any) (map[string]any, error) {
	tool := llms.Tool{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:        schemaName,
			Description: "Return the result of this task as structured data.",
			Parameters:  schema,
		},
	}
	history := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, user),
	}
	resp, err := c.model.GenerateContent(ctx, history,
		llms.WithTools([]llms.Tool{tool}),
		llms.WithToolChoice(map[string]any{
			"type":     "function",
			"function": map[string]any{"name": schemaName},
		}),
		llms.WithTemperature(0.2),
	)
	if err != nil {
		return nil, fmt.Errorf("langchain generate content: %w", err)
	}
	if len(resp.Choices) == 0 || len(resp.Choices[0].ToolCalls) == 0 {
		return nil, fmt.Errorf("langchain generate content: model returned no tool call for schema %q", schemaName)
	}
	args := resp.Choices[0].ToolCalls[0].FunctionCall.Arguments
	var out map[string]any
	if err := json.Unmarshal([]byte(args), &out); err != nil {
		return nil, fmt.Errorf("langchain decode tool call arguments: %w; raw=%s", err, args)
	}
	return out, nil
}
