package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vlmbridge/models"
)

// MockCompletionService is a mock implementation of CompletionService
type MockCompletionService struct {
	mock.Mock
}

func (m *MockCompletionService) GenerateCompletion(
	ctx context.Context,
	turns []models.ConversationTurn,
) (string, error) {
	args := m.Called(ctx, turns)
	return args.String(0), args.Error(1)
}

// MockExtractionService is a mock implementation of ExtractionService
type MockExtractionService struct {
	mock.Mock
}

func (m *MockExtractionService) ExtractCommand(
	ctx context.Context,
	req models.ConversationRequest,
) (*models.ExtractionResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExtractionResult), args.Error(1)
}

// MockTranscriptionService is a mock implementation of TranscriptionService
type MockTranscriptionService struct {
	mock.Mock
}

func (m *MockTranscriptionService) TranscribeAudio(ctx context.Context, audioB64 string) (string, error) {
	args := m.Called(ctx, audioB64)
	return args.String(0), args.Error(1)
}
