package clients

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vlmbridge/models"
)

// MockCompletionClient is a mock implementation of CompletionClient
type MockCompletionClient struct {
	mock.Mock
}

func (m *MockCompletionClient) GenerateCompletion(
	ctx context.Context,
	turns []models.ConversationTurn,
	params CompletionParams,
) (string, error) {
	args := m.Called(ctx, turns, params)
	return args.String(0), args.Error(1)
}

// MockTranscriptionClient is a mock implementation of TranscriptionClient
type MockTranscriptionClient struct {
	mock.Mock
}

func (m *MockTranscriptionClient) Transcribe(ctx context.Context, audio []byte) (string, error) {
	args := m.Called(ctx, audio)
	return args.String(0), args.Error(1)
}
