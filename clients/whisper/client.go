package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// WhisperClient implements the clients.TranscriptionClient interface against
// a whisper.cpp server's /inference endpoint.
type WhisperClient struct {
	httpClient *http.Client
	baseURL    string
}

type inferenceResponse struct {
	Text  string `json:"text"`
	Error string `json:"error"`
}

// NewWhisperClient creates a new whisper server client.
func NewWhisperClient(baseURL string) *WhisperClient {
	return &WhisperClient{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

func (c *WhisperClient) Transcribe(ctx context.Context, audio []byte) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "audio.wav")
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("failed to write audio payload: %w", err)
	}
	if err := writer.WriteField("response_format", "json"); err != nil {
		return "", fmt.Errorf("failed to write form field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/inference", &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call whisper server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("transcription failed: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var inference inferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&inference); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if inference.Error != "" {
		return "", fmt.Errorf("transcription failed: %s", inference.Error)
	}

	return strings.TrimSpace(inference.Text), nil
}
