package clients

import (
	"context"

	"vlmbridge/models"
)

// CompletionParams are the decoding parameters for one completion call.
// They are fixed per deployment and deterministic (temperature 0) so that
// retries differ only through the corrective turns appended to the
// conversation.
type CompletionParams struct {
	Model         string
	Temperature   float64
	TopP          float64
	RepeatPenalty float64
}

// CompletionClient is the opaque generative capability: one text response
// for a given conversation and decoding parameters. Implementations must
// honor context cancellation, though cancellation is advisory only - the
// backend may not reclaim resources.
type CompletionClient interface {
	GenerateCompletion(ctx context.Context, turns []models.ConversationTurn, params CompletionParams) (string, error)
}

// TranscriptionClient converts raw audio bytes into transcript text.
type TranscriptionClient interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}
