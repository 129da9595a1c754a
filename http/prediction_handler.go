package http

import (
	"net/http"

	"loan-advisor/domain"
	"loan-advisor/service"
)

type PredictionHandler struct {
	client *service.PredictionClient
}

func NewPredictionHandler(client *service.PredictionClient) *PredictionHandler {
	return &PredictionHandler{client: client}
}

// Predict handles POST /v1/predictions.
func (h *PredictionHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var input domain.PredictionInput
	if err := decodeJSON(w, r, &input); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.client.Predict(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err, input)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
