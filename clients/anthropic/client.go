package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"vlmbridge/clients"
	"vlmbridge/models"
)

const defaultMaxTokens = 1024

// AnthropicClient implements the clients.CompletionClient interface on top
// of the Anthropic Messages API. It is the alternative completion backend to
// the default Ollama one, selected via COMPLETION_BACKEND=anthropic.
type AnthropicClient struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewAnthropicClient creates a new Anthropic completion client for the given
// API key and model.
func NewAnthropicClient(apiKey, model string) *AnthropicClient {
	return &AnthropicClient{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  anthropic.Model(model),
	}
}

func (c *AnthropicClient) GenerateCompletion(
	ctx context.Context,
	turns []models.ConversationTurn,
	params clients.CompletionParams,
) (string, error) {
	model := c.model
	if params.Model != "" {
		model = anthropic.Model(params.Model)
	}

	// Anthropic takes system instructions outside the message list.
	var system []anthropic.TextBlockParam
	var messages []anthropic.MessageParam
	for _, turn := range turns {
		switch turn.Role {
		case models.RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: turn.Content})
		case models.RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(turn.Content)))
		default:
			blocks := []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(turn.Content)}
			for _, image := range turn.Images {
				blocks = append(blocks, anthropic.NewImageBlockBase64("image/png", image))
			}
			messages = append(messages, anthropic.NewUserMessage(blocks...))
		}
	}

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       model,
		MaxTokens:   defaultMaxTokens,
		Temperature: anthropic.Float(params.Temperature),
		TopP:        anthropic.Float(params.TopP),
		System:      system,
		Messages:    messages,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create message: %w", err)
	}

	var parts []string
	for _, block := range message.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("message contained no text content")
	}

	return strings.Join(parts, "\n"), nil
}
