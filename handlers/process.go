package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"vlmbridge/core"
	"vlmbridge/models"
)

// VoiceCommandUseCase is the glue the handler delegates to.
type VoiceCommandUseCase interface {
	ProcessVoiceCommand(ctx context.Context, req *models.ProcessRequest) (*models.ProcessResponse, error)
}

type ProcessHandler struct {
	useCase VoiceCommandUseCase
}

func NewProcessHandler(useCase VoiceCommandUseCase) *ProcessHandler {
	return &ProcessHandler{useCase: useCase}
}

func (h *ProcessHandler) SetupEndpoints(router *mux.Router) {
	router.HandleFunc("/process", h.HandleProcess).Methods("POST")
}

func (h *ProcessHandler) HandleProcess(w http.ResponseWriter, r *http.Request) {
	requestID := core.NewID("req")
	log.Printf("🎙️ [%s] Voice command request received from %s", requestID, r.RemoteAddr)

	var req models.ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ [%s] Invalid request body: %v", requestID, err)
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Audio == "" {
		log.Printf("❌ [%s] Missing audio payload", requestID)
		http.Error(w, "'audio' field is required", http.StatusBadRequest)
		return
	}

	resp, err := h.useCase.ProcessVoiceCommand(r.Context(), &req)
	if err != nil {
		log.Printf("❌ [%s] Failed to process voice command: %v", requestID, err)
		http.Error(w, "failed to process voice command", http.StatusInternalServerError)
		return
	}

	log.Printf("✅ [%s] Voice command processed - success=%t", requestID, resp.Success)
	h.writeJSONResponse(w, http.StatusOK, resp)
}

func (h *ProcessHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("❌ Failed to encode JSON response: %v", err)
	}
}
