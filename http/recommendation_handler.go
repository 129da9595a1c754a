package http

import (
	"fmt"
	"net/http"

	"loan-advisor/domain"
	"loan-advisor/observability"
	"loan-advisor/service"
)

type RecommendationHandler struct {
	service *service.RecommendationService
}

func NewRecommendationHandler(service *service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{service: service}
}

// Recommend handles POST /v1/recommendations.
func (h *RecommendationHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req domain.RecommendationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.Recommend(r.Context(), observability.SessionID(r.Context()), req)
	if err != nil {
		writeServiceError(w, r, err, req.Applicant)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

// Current handles GET /v1/recommendations/current.
func (h *RecommendationHandler) Current(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Current(r.Context(), observability.SessionID(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, nil)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Clear handles DELETE /v1/recommendations/current.
func (h *RecommendationHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context(), observability.SessionID(r.Context())); err != nil {
		writeServiceError(w, r, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Report handles GET /v1/recommendations/current/report and serves the result
// as a JSON attachment.
func (h *RecommendationHandler) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Report(r.Context(), observability.SessionID(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, nil)
		return
	}
	filename := fmt.Sprintf("loan-report-%s.json", report.GeneratedAt.Format("20060102-150405"))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	respondJSON(w, http.StatusOK, report)
}
