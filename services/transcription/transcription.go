package transcription

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"

	"vlmbridge/clients"
)

// TranscriptionServiceImpl decodes framed audio payloads and delegates to
// the external speech-to-text capability. The transcript is treated as an
// opaque string for the caller to embed into the initial user turn.
type TranscriptionServiceImpl struct {
	client clients.TranscriptionClient
}

func NewTranscriptionService(client clients.TranscriptionClient) *TranscriptionServiceImpl {
	return &TranscriptionServiceImpl{client: client}
}

func (s *TranscriptionServiceImpl) TranscribeAudio(ctx context.Context, audioB64 string) (string, error) {
	log.Printf("📋 Starting to transcribe audio payload (%d base64 chars)", len(audioB64))
	if audioB64 == "" {
		return "", fmt.Errorf("audio payload cannot be empty")
	}

	audio, err := base64.StdEncoding.DecodeString(audioB64)
	if err != nil {
		return "", fmt.Errorf("failed to decode audio payload: %w", err)
	}
	if len(audio) == 0 {
		return "", fmt.Errorf("audio payload cannot be empty")
	}

	transcript, err := s.client.Transcribe(ctx, audio)
	if err != nil {
		return "", fmt.Errorf("failed to transcribe audio: %w", err)
	}

	log.Printf("📋 Completed successfully - transcribed %d bytes of audio", len(audio))
	return transcript, nil
}
