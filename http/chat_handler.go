package http

import (
	"net/http"

	"loan-advisor/domain"
	"loan-advisor/observability"
	"loan-advisor/service"
)

type ChatHandler struct {
	service *service.ChatService
}

func NewChatHandler(service *service.ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

// Ask handles POST /v1/chat.
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req domain.ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	reply, err := h.service.Ask(r.Context(), observability.SessionID(r.Context()), req.Question)
	if err != nil {
		writeServiceError(w, r, err, nil)
		return
	}
	respondJSON(w, http.StatusOK, reply)
}

// QuickQuestions handles GET /v1/chat/quick-questions.
func (h *ChatHandler) QuickQuestions(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"questions": h.service.QuickQuestions()})
}
