package process

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vlmbridge/models"
	"vlmbridge/services"
)

func TestBuildConversation(t *testing.T) {
	t.Run("system turn first, transcript in user turn", func(t *testing.T) {
		conversation := BuildConversation("move the cube left", nil, "")

		require.Len(t, conversation, 2)
		assert.Equal(t, models.RoleSystem, conversation[0].Role)
		assert.Contains(t, conversation[0].Content, "scene editing assistant")
		assert.Equal(t, models.RoleUser, conversation[1].Role)
		assert.Contains(t, conversation[1].Content, "User request:\nmove the cube left")
		assert.NotContains(t, conversation[1].Content, "Context:")
		assert.Empty(t, conversation[1].Images)
	})

	t.Run("context is serialized into the user turn", func(t *testing.T) {
		context := map[string]any{"camera_right": map[string]any{"x": 1, "y": 0, "z": 0}}
		conversation := BuildConversation("move it right", context, "")

		assert.Contains(t, conversation[1].Content, "Context:")
		assert.Contains(t, conversation[1].Content, `"camera_right"`)
	})

	t.Run("image is attached to the user turn", func(t *testing.T) {
		conversation := BuildConversation("delete that", nil, "aW1hZ2U=")

		assert.Equal(t, []string{"aW1hZ2U="}, conversation[1].Images)
	})

	t.Run("fresh conversation per call", func(t *testing.T) {
		first := BuildConversation("one", nil, "")
		second := BuildConversation("two", nil, "")

		assert.NotContains(t, second[1].Content, "one",
			"no history may leak between requests")
		assert.NotSame(t, &first[0], &second[0])
	})
}

func TestProcessVoiceCommand(t *testing.T) {
	ctx := context.Background()

	t.Run("flattens extraction result with transcript", func(t *testing.T) {
		mockTranscription := &services.MockTranscriptionService{}
		mockExtraction := &services.MockExtractionService{}

		command := &models.Command{Command: models.CommandDeleteObject, ObjectName: "Cube_A"}
		mockTranscription.On("TranscribeAudio", ctx, "YXVkaW8=").Return("delete cube a", nil)

		var capturedReq models.ConversationRequest
		mockExtraction.On("ExtractCommand", ctx, mock.Anything).
			Run(func(args mock.Arguments) {
				capturedReq = args.Get(1).(models.ConversationRequest)
			}).
			Return(&models.ExtractionResult{
				Success: true,
				Command: command,
				RawText: `{"command":"delete_object","object_name":"Cube_A"}`,
			}, nil)

		useCase := NewProcessUseCase(mockTranscription, mockExtraction, 2)
		resp, err := useCase.ProcessVoiceCommand(ctx, &models.ProcessRequest{Audio: "YXVkaW8="})

		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, "delete cube a", resp.Transcript)
		assert.Equal(t, command, resp.Command)
		assert.Empty(t, resp.Error)

		assert.Equal(t, 2, capturedReq.MaxAttempts)
		require.Len(t, capturedReq.Messages, 2)
		assert.Contains(t, capturedReq.Messages[1].Content, "delete cube a")
		mockTranscription.AssertExpectations(t)
		mockExtraction.AssertExpectations(t)
	})

	t.Run("transcription failure is a hard error", func(t *testing.T) {
		mockTranscription := &services.MockTranscriptionService{}
		mockExtraction := &services.MockExtractionService{}

		mockTranscription.On("TranscribeAudio", ctx, mock.Anything).
			Return("", fmt.Errorf("audio is malformed"))

		useCase := NewProcessUseCase(mockTranscription, mockExtraction, 2)
		_, err := useCase.ProcessVoiceCommand(ctx, &models.ProcessRequest{Audio: "YXVkaW8="})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to transcribe voice command")
		mockExtraction.AssertNotCalled(t, "ExtractCommand")
	})

	t.Run("extraction failure stays structured", func(t *testing.T) {
		mockTranscription := &services.MockTranscriptionService{}
		mockExtraction := &services.MockExtractionService{}

		mockTranscription.On("TranscribeAudio", ctx, mock.Anything).Return("gibberish", nil)
		mockExtraction.On("ExtractCommand", ctx, mock.Anything).
			Return(&models.ExtractionResult{
				Success: false,
				RawText: "not json",
				Error:   "Model response was not valid JSON",
			}, nil)

		useCase := NewProcessUseCase(mockTranscription, mockExtraction, 2)
		resp, err := useCase.ProcessVoiceCommand(ctx, &models.ProcessRequest{Audio: "YXVkaW8="})

		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Equal(t, "not json", resp.Raw)
		assert.Contains(t, resp.Error, "not valid JSON")
		assert.Nil(t, resp.Command)
	})
}
