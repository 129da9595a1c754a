package http

import (
	"net/http"

	"loan-advisor/domain"
	"loan-advisor/service"
)

type LoanHandler struct {
	loans       *service.LoanService
	assessments *service.AssessmentService
}

func NewLoanHandler(loans *service.LoanService, assessments *service.AssessmentService) *LoanHandler {
	return &LoanHandler{loans: loans, assessments: assessments}
}

// CalculateLoan handles POST /v1/loans/calculate.
func (h *LoanHandler) CalculateLoan(w http.ResponseWriter, r *http.Request) {
	var input domain.LoanInput
	if err := decodeJSON(w, r, &input); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.loans.CalculateLoan(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err, nil)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Assess handles POST /v1/loans/assessment.
func (h *LoanHandler) Assess(w http.ResponseWriter, r *http.Request) {
	var input domain.AssessmentInput
	if err := decodeJSON(w, r, &input); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	dashboard, err := h.assessments.Assess(input)
	if err != nil {
		writeServiceError(w, r, err, nil)
		return
	}
	respondJSON(w, http.StatusOK, dashboard)
}

// Lenders handles GET /v1/lenders.
func (h *LoanHandler) Lenders(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"lenders": h.assessments.Lenders()})
}
