package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"tcgen/internal/extract"
	"tcgen/internal/service"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "validation error",
			err:        &service.ValidationError{Field: "overlap", Message: "must not be negative"},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Validation error: validation error on field overlap: must not be negative",
		},
		{
			name:       "body too large",
			err:        fmt.Errorf("read body: %w", &http.MaxBytesError{Limit: 1024}),
			wantStatus: http.StatusRequestEntityTooLarge,
			wantMsg:    "Request body exceeds 1024 bytes",
		},
		{
			name:       "unsupported format",
			err:        fmt.Errorf("failed: %w: %w", service.ErrInvalidInput, extract.ErrUnsupportedFormat),
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Unsupported file format (supported: .pdf, .docx)",
		},
		{
			name:       "format mismatch",
			err:        fmt.Errorf("failed: %w: %w", service.ErrInvalidInput, extract.ErrFormatMismatch),
			wantStatus: http.StatusBadRequest,
			wantMsg:    "File content does not match its extension",
		},
		{
			name:       "invalid input",
			err:        fmt.Errorf("failed: %w", service.ErrInvalidInput),
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid input",
		},
		{
			name:       "not found",
			err:        service.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantMsg:    "Resource not found",
		},
		{
			name:       "unprocessable",
			err:        service.ErrUnprocessable,
			wantStatus: http.StatusUnprocessableEntity,
			wantMsg:    "Document text could not be extracted",
		},
		{
			name:       "external service",
			err:        service.ErrExternalService,
			wantStatus: http.StatusBadGateway,
			wantMsg:    "External service error",
		},
		{
			name:       "unknown",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "fallback",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := errorStatus(tt.err, "fallback")
			if status != tt.wantStatus {
				t.Errorf("errorStatus() status = %d, want %d", status, tt.wantStatus)
			}
			if msg != tt.wantMsg {
				t.Errorf("errorStatus() message = %q, want %q", msg, tt.wantMsg)
			}
		})
	}
}
