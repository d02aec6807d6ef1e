package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"vlmbridge/clients"
	"vlmbridge/models"
)

// OllamaClient implements the clients.CompletionClient interface against the
// Ollama /api/chat endpoint (non-streaming). Per-call deadlines come from the
// caller's context; the client itself imposes no timeout.
type OllamaClient struct {
	httpClient *http.Client
	baseURL    string
	model      string
}

type chatMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

type chatRequest struct {
	Model    string         `json:"model"`
	Messages []chatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  map[string]any `json:"options,omitempty"`
}

type chatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

// NewOllamaClient creates a new Ollama chat client. model is the default
// model used when the completion params do not name one.
func NewOllamaClient(baseURL, model string) *OllamaClient {
	return &OllamaClient{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
	}
}

func (c *OllamaClient) GenerateCompletion(
	ctx context.Context,
	turns []models.ConversationTurn,
	params clients.CompletionParams,
) (string, error) {
	model := params.Model
	if model == "" {
		model = c.model
	}

	messages := make([]chatMessage, 0, len(turns))
	for _, turn := range turns {
		messages = append(messages, chatMessage{
			Role:    turn.Role,
			Content: turn.Content,
			Images:  turn.Images,
		})
	}

	reqBody := chatRequest{
		Model:    model,
		Messages: messages,
		Stream:   false,
		Options: map[string]any{
			"temperature":    params.Temperature,
			"top_p":          params.TopP,
			"repeat_penalty": params.RepeatPenalty,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/chat", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ollama chat failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return chatResp.Message.Content, nil
}
