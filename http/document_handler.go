package http

import (
	"errors"
	"net/http"

	"loan-advisor/service"
)

const multipartMemory = 1 << 20

type DocumentHandler struct {
	service *service.DocumentService
}

func NewDocumentHandler(service *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{service: service}
}

// Extract handles POST /v1/documents/extract with a multipart "file" field.
func (h *DocumentHandler) Extract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, service.MaxUploadBytes+multipartMemory)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, http.StatusRequestEntityTooLarge, "upload exceeds the maximum allowed size")
			return
		}
		respondError(w, http.StatusBadRequest, "expected a multipart form with a file field")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	doc, err := h.service.ExtractPDF(r.Context(), header.Filename, file)
	if err != nil {
		writeServiceError(w, r, err, nil)
		return
	}
	respondJSON(w, http.StatusOK, doc)
}
