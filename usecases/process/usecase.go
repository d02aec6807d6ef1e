// Package process glues the external collaborators together for one
// incoming request: transcribe, assemble the conversation, run the
// extraction loop, flatten the response.
package process

import (
	"context"
	"fmt"
	"log"

	"vlmbridge/models"
	"vlmbridge/services"
)

type ProcessUseCase struct {
	transcriptionService services.TranscriptionService
	extractionService    services.ExtractionService
	maxAttempts          int
}

func NewProcessUseCase(
	transcriptionService services.TranscriptionService,
	extractionService services.ExtractionService,
	maxAttempts int,
) *ProcessUseCase {
	return &ProcessUseCase{
		transcriptionService: transcriptionService,
		extractionService:    extractionService,
		maxAttempts:          maxAttempts,
	}
}

// ProcessVoiceCommand turns one framed request into a validated command or a
// structured failure. A transcription failure is the only hard error: without
// a transcript there is no instruction to extract.
func (u *ProcessUseCase) ProcessVoiceCommand(
	ctx context.Context,
	req *models.ProcessRequest,
) (*models.ProcessResponse, error) {
	log.Printf("📋 Starting to process voice command request")

	transcript, err := u.transcriptionService.TranscribeAudio(ctx, req.Audio)
	if err != nil {
		return nil, fmt.Errorf("failed to transcribe voice command: %w", err)
	}
	log.Printf("🔍 Transcribed text: %s", transcript)

	conversation := BuildConversation(transcript, req.Context, req.Image)

	result, err := u.extractionService.ExtractCommand(ctx, models.ConversationRequest{
		Messages:    conversation,
		MaxAttempts: u.maxAttempts,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to extract command: %w", err)
	}

	log.Printf("📋 Completed successfully - extraction success=%t", result.Success)
	return &models.ProcessResponse{
		Success:    result.Success,
		Error:      result.Error,
		Raw:        result.RawText,
		Transcript: transcript,
		Command:    result.Command,
	}, nil
}
