package http

import "net/http"

type HealthHandler struct {
	corpusChunks int
	provider     string
}

func NewHealthHandler(corpusChunks int, provider string) *HealthHandler {
	return &HealthHandler{corpusChunks: corpusChunks, provider: provider}
}

// Check handles GET /health.
func (h *HealthHandler) Check(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"provider":     h.provider,
		"corpusChunks": h.corpusChunks,
	})
}
