package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/wezza-dev/prembot/internal/dialogue"
	"github.com/wezza-dev/prembot/internal/memory"
	"github.com/wezza-dev/prembot/internal/models"
)

// TurnHandler glues the transport to the dialogue manager: it loads the
// session, runs one turn, persists the result, and records the transcript.
type TurnHandler struct {
	dialogue    *dialogue.Manager
	store       memory.Store
	transcripts *memory.Manager // optional
}

func NewTurnHandler(manager *dialogue.Manager, store memory.Store, transcripts *memory.Manager) *TurnHandler {
	return &TurnHandler{
		dialogue:    manager,
		store:       store,
		transcripts: transcripts,
	}
}

func (h *TurnHandler) ProcessTurn(ctx context.Context, request *models.TurnRequest) (*models.TurnResponse, error) {
	if err := h.validateRequest(request); err != nil {
		return h.createErrorResponse(request, models.ErrorParseError, err.Error()), nil
	}

	session, err := h.store.LoadSession(ctx, request.SessionID)
	if err != nil {
		return h.createErrorResponse(request, models.ErrorStoreFailed, err.Error()), nil
	}
	if session.UserID == "" {
		session.UserID = request.UserID
	}

	reply := h.dialogue.HandleTurn(ctx, &session.Dialogue, request.UserMessage)

	if err := h.store.SaveSession(ctx, session); err != nil {
		return h.createErrorResponse(request, models.ErrorStoreFailed, err.Error()), nil
	}

	if h.transcripts != nil {
		if err := h.transcripts.SaveUserMessage(ctx, request.SessionID, request.UserID, request.UserMessage); err != nil {
			log.Printf("failed to record user message for session %s: %v", request.SessionID, err)
		}
		if err := h.transcripts.SaveAssistantMessage(ctx, request.SessionID, request.UserID, reply); err != nil {
			log.Printf("failed to record reply for session %s: %v", request.SessionID, err)
		}
	}

	status := models.StatusReady
	if session.Dialogue.Active() {
		status = models.StatusNeedsInfo
	}

	return &models.TurnResponse{
		SessionID:   request.SessionID,
		Reply:       reply,
		Intent:      session.Dialogue.CurrentIntent,
		PendingTask: session.Dialogue.PendingTask,
		Status:      status,
	}, nil
}

func (h *TurnHandler) validateRequest(request *models.TurnRequest) error {
	if request.SessionID == "" {
		return fmt.Errorf("session_id is required")
	}
	if request.UserMessage == "" {
		return fmt.Errorf("user_message is required")
	}
	return nil
}

func (h *TurnHandler) createErrorResponse(request *models.TurnRequest, errorCode, errorMessage string) *models.TurnResponse {
	return &models.TurnResponse{
		SessionID:    request.SessionID,
		Status:       models.StatusError,
		Reply:        "I'm sorry, I encountered an error processing your request. Please try again.",
		ErrorCode:    &errorCode,
		ErrorMessage: &errorMessage,
	}
}
