package services

import (
	"context"

	"vlmbridge/models"
)

// CompletionService defines the interface for deadline-bounded completion
// calls through the worker pool. Errors wrap core.ErrCompletionTimeout or
// core.ErrCompletionTransport.
type CompletionService interface {
	GenerateCompletion(ctx context.Context, turns []models.ConversationTurn) (string, error)
}

// ExtractionService defines the interface for the retry orchestrator. All
// completion, parse and validation failures are folded into the
// ExtractionResult; the error return is reserved for malformed requests and
// completion errors outside the core taxonomy.
type ExtractionService interface {
	ExtractCommand(ctx context.Context, req models.ConversationRequest) (*models.ExtractionResult, error)
}

// TranscriptionService defines the interface for speech-to-text operations
// on base64-encoded audio payloads.
type TranscriptionService interface {
	TranscribeAudio(ctx context.Context, audioB64 string) (string, error)
}
