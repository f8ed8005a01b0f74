package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dvloznov/finance-docproc/internal/api/middleware"
	"github.com/dvloznov/finance-docproc/internal/apperrors"
	"github.com/dvloznov/finance-docproc/internal/domain"
	"github.com/dvloznov/finance-docproc/internal/logger"
)

// maxBodyBytes caps the request body of the process endpoint.
const maxBodyBytes = 1 << 20

// DocumentProcessor runs the extraction and conversion pipeline.
type DocumentProcessor interface {
	Process(ctx context.Context, userID, rawText string) (*domain.ProcessedFinancialDocument, error)
}

// ProcessDocumentRequest is the body of POST /process-document-convert.
type ProcessDocumentRequest struct {
	UserID  string `json:"user_id" validate:"required"`
	RawText string `json:"raw_text" validate:"required,min=10"`
}

// DocumentsHandler handles document processing endpoints.
type DocumentsHandler struct {
	processor DocumentProcessor
	validate  *validator.Validate
}

// NewDocumentsHandler creates a new documents handler.
func NewDocumentsHandler(processor DocumentProcessor) *DocumentsHandler {
	return &DocumentsHandler{
		processor: processor,
		validate:  newValidator(),
	}
}

// ProcessDocument handles POST /process-document-convert
func (h *DocumentsHandler) ProcessDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	var req ProcessDocumentRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		log.Debug().Err(err).Msg("Rejected malformed request body")
		middleware.WriteAppError(w, apperrors.New(apperrors.ErrInvalidRequest, "Invalid request body: "+err.Error(), err))
		return
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		log.Debug().Msg("Rejected request body with trailing data")
		middleware.WriteAppError(w, apperrors.WithMessage(apperrors.ErrInvalidRequest, "Invalid request body: unexpected data after JSON object"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		msg := validationMessage(err)
		log.Debug().Str("reason", msg).Msg("Rejected invalid request")
		middleware.WriteAppError(w, apperrors.New(apperrors.ErrInvalidRequest, msg, err))
		return
	}

	log.Info().Str("user_id", req.UserID).Int("raw_text_chars", len([]rune(req.RawText))).Msg("Processing document")

	result, err := h.processor.Process(ctx, req.UserID, req.RawText)
	if err != nil {
		appErr := apperrors.From(err)
		if appErr.StatusCode >= http.StatusInternalServerError {
			log.Error().Err(appErr.Internal).Str("code", appErr.Code).Msg("Document processing failed")
		} else {
			log.Warn().Err(appErr.Internal).Str("code", appErr.Code).Msg("Document processing rejected")
		}
		middleware.WriteAppError(w, appErr)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, result)
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names in messages.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationMessage renders the first validation failure for the caller.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
