package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"loan-advisor/domain"
	"loan-advisor/loanerrors"
)

const pageSeparator = "\n\n"

var pdfMagic = []byte("%PDF-")

// DocumentService extracts the text of uploaded statements so it can be
// attached to a recommendation request.
type DocumentService struct {
	logger *slog.Logger
}

func NewDocumentService(logger *slog.Logger) *DocumentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentService{logger: logger}
}

// ExtractPDF reads at most MaxUploadBytes from r and returns the plain text
// of every page, pages separated by a blank line.
func (s *DocumentService) ExtractPDF(ctx context.Context, filename string, r io.Reader) (domain.ExtractedDocument, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return domain.ExtractedDocument{}, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return domain.ExtractedDocument{}, loanerrors.NewValidationError("file", fmt.Sprintf("file exceeds %d bytes", MaxUploadBytes))
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return domain.ExtractedDocument{}, loanerrors.NewValidationError("file", "file is not a PDF")
	}

	pages, text, err := extractPages(data)
	if err != nil {
		s.logger.WarnContext(ctx, "pdf text extraction failed", "filename", filename, "error", err)
		return domain.ExtractedDocument{}, loanerrors.NewValidationError("file", "could not read text from the PDF")
	}
	if utf8.RuneCountInString(text) > MaxDocumentChars {
		text = truncateRunes(text, MaxDocumentChars)
	}

	return domain.ExtractedDocument{
		Filename:   filename,
		Pages:      pages,
		Characters: utf8.RuneCountInString(text),
		Text:       text,
	}, nil
}

func extractPages(data []byte) (pages int, text string, err error) {
	// The parser panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, "", err
	}

	pages = reader.NumPage()
	texts := make([]string, 0, pages)
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return 0, "", fmt.Errorf("page %d: %w", i, err)
		}
		if content = strings.TrimSpace(content); content != "" {
			texts = append(texts, content)
		}
	}
	return pages, strings.Join(texts, pageSeparator), nil
}

func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
