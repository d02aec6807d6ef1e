package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vlmbridge/models"
)

// MockVoiceCommandUseCase is a mock implementation of VoiceCommandUseCase
type MockVoiceCommandUseCase struct {
	mock.Mock
}

func (m *MockVoiceCommandUseCase) ProcessVoiceCommand(
	ctx context.Context,
	req *models.ProcessRequest,
) (*models.ProcessResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProcessResponse), args.Error(1)
}

func newTestRouter(useCase VoiceCommandUseCase) *mux.Router {
	router := mux.NewRouter()
	NewProcessHandler(useCase).SetupEndpoints(router)
	return router
}

func TestHandleProcess(t *testing.T) {
	t.Run("returns flattened response on success", func(t *testing.T) {
		mockUseCase := &MockVoiceCommandUseCase{}
		mockUseCase.On("ProcessVoiceCommand", mock.Anything, mock.MatchedBy(func(req *models.ProcessRequest) bool {
			return req.Audio == "YXVkaW8=" && req.Image == "aW1hZ2U="
		})).Return(&models.ProcessResponse{
			Success:    true,
			Raw:        `{"command":"rotate_mesh","rotation":{"x":0,"y":90,"z":0}}`,
			Transcript: "rotate the cube ninety degrees",
			Command: &models.Command{
				Command:  models.CommandRotateMesh,
				Rotation: &models.Vector3{Y: 90},
			},
		}, nil)

		body := `{"audio":"YXVkaW8=","image":"aW1hZ2U=","context":{"selected":"Cube_A"}}`
		req := httptest.NewRequest("POST", "/process", strings.NewReader(body))
		rec := httptest.NewRecorder()

		newTestRouter(mockUseCase).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var resp models.ProcessResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "rotate the cube ninety degrees", resp.Transcript)
		require.NotNil(t, resp.Command)
		assert.Equal(t, models.CommandRotateMesh, resp.Command.Command)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("rejects invalid JSON body", func(t *testing.T) {
		mockUseCase := &MockVoiceCommandUseCase{}

		req := httptest.NewRequest("POST", "/process", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()

		newTestRouter(mockUseCase).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockUseCase.AssertNotCalled(t, "ProcessVoiceCommand")
	})

	t.Run("rejects missing audio", func(t *testing.T) {
		mockUseCase := &MockVoiceCommandUseCase{}

		req := httptest.NewRequest("POST", "/process", strings.NewReader(`{"image":"aW1hZ2U="}`))
		rec := httptest.NewRecorder()

		newTestRouter(mockUseCase).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "'audio' field is required")
		mockUseCase.AssertNotCalled(t, "ProcessVoiceCommand")
	})

	t.Run("usecase failure returns 500", func(t *testing.T) {
		mockUseCase := &MockVoiceCommandUseCase{}
		mockUseCase.On("ProcessVoiceCommand", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("failed to transcribe voice command: audio is malformed"))

		req := httptest.NewRequest("POST", "/process", strings.NewReader(`{"audio":"YXVkaW8="}`))
		rec := httptest.NewRecorder()

		newTestRouter(mockUseCase).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("unsuccessful extraction still returns 200 with structured failure", func(t *testing.T) {
		mockUseCase := &MockVoiceCommandUseCase{}
		mockUseCase.On("ProcessVoiceCommand", mock.Anything, mock.Anything).
			Return(&models.ProcessResponse{
				Success:    false,
				Error:      "model could not resolve the instruction: need clarification",
				Raw:        `{"command":"unknown","reason":"need clarification"}`,
				Transcript: "do the thing",
			}, nil)

		req := httptest.NewRequest("POST", "/process", strings.NewReader(`{"audio":"YXVkaW8="}`))
		rec := httptest.NewRecorder()

		newTestRouter(mockUseCase).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp models.ProcessResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Contains(t, resp.Error, "need clarification")
		assert.Nil(t, resp.Command)
	})

	t.Run("GET is not allowed", func(t *testing.T) {
		mockUseCase := &MockVoiceCommandUseCase{}

		req := httptest.NewRequest("GET", "/process", nil)
		rec := httptest.NewRecorder()

		newTestRouter(mockUseCase).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}
