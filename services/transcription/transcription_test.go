package transcription

import (
	"context"
	"encoding/base64"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vlmbridge/clients"
)

func TestTranscribeAudio(t *testing.T) {
	ctx := context.Background()
	audio := []byte("RIFF-fake-wav-bytes")
	audioB64 := base64.StdEncoding.EncodeToString(audio)

	t.Run("decodes and delegates to the client", func(t *testing.T) {
		mockClient := &clients.MockTranscriptionClient{}
		mockClient.On("Transcribe", ctx, audio).Return("move the cube left", nil)

		transcript, err := NewTranscriptionService(mockClient).TranscribeAudio(ctx, audioB64)

		require.NoError(t, err)
		assert.Equal(t, "move the cube left", transcript)
		mockClient.AssertExpectations(t)
	})

	t.Run("empty payload rejected", func(t *testing.T) {
		mockClient := &clients.MockTranscriptionClient{}

		_, err := NewTranscriptionService(mockClient).TranscribeAudio(ctx, "")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be empty")
		mockClient.AssertNotCalled(t, "Transcribe")
	})

	t.Run("malformed base64 rejected", func(t *testing.T) {
		mockClient := &clients.MockTranscriptionClient{}

		_, err := NewTranscriptionService(mockClient).TranscribeAudio(ctx, "!!!not-base64!!!")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode audio payload")
		mockClient.AssertNotCalled(t, "Transcribe")
	})

	t.Run("client failure is wrapped", func(t *testing.T) {
		mockClient := &clients.MockTranscriptionClient{}
		mockClient.On("Transcribe", ctx, audio).Return("", fmt.Errorf("server busy"))

		_, err := NewTranscriptionService(mockClient).TranscribeAudio(ctx, audioB64)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to transcribe audio")
	})
}
