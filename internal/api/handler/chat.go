package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/luxehomes/property-assistant/internal/api/middleware"
	"github.com/luxehomes/property-assistant/internal/api/response"
	"github.com/luxehomes/property-assistant/internal/service"
)

var validate = validator.New()

// ChatHandler handles conversation endpoints
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// SendMessageRequest is the body of a message submission
type SendMessageRequest struct {
	Message string `json:"message" validate:"required,max=500"`
}

// Create starts a new conversation
func (h *ChatHandler) Create(w http.ResponseWriter, r *http.Request) {
	var userID *uuid.UUID
	if id, ok := middleware.GetUserID(r.Context()); ok {
		userID = &id
	}

	session := h.chatService.CreateSession(userID)
	response.Created(w, session.Snapshot())
}

// Get returns the current state of a conversation
func (h *ChatHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	session, err := h.chatService.Session(sessionID)
	if err != nil {
		response.NotFound(w, "session not found")
		return
	}

	response.OK(w, session.Snapshot())
}

// Close tears a conversation down
func (h *ChatHandler) Close(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	if err := h.chatService.CloseSession(sessionID); err != nil {
		response.NotFound(w, "session not found")
		return
	}

	response.NoContent(w)
}

// SendMessage submits one utterance and returns the assistant response
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	reply, err := h.chatService.Submit(r.Context(), sessionID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			response.NotFound(w, "session not found")
		case errors.Is(err, service.ErrTurnInFlight):
			response.Conflict(w, "a message is already being processed")
		case errors.Is(err, service.ErrEmptyUtterance):
			response.BadRequest(w, "message must not be blank")
		case errors.Is(err, service.ErrSessionClosed):
			response.NotFound(w, "session closed")
		default:
			response.InternalError(w, "failed to process message")
		}
		return
	}

	response.OK(w, reply)
}

func sessionIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		response.BadRequest(w, "invalid session ID")
		return uuid.Nil, false
	}
	return sessionID, true
}
