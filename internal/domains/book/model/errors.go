package model

import (
	"errors"
	"fmt"
	"net/http"

	"bookstore-catalog/internal/shared/response"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"
)

var (
	ErrBookNotFound       = errors.New("book not found")
	ErrInvalidPage        = errors.New("page must be a positive integer")
	ErrInvalidPageSize    = errors.New("pageSize must be a positive integer")
	ErrInvalidBookID      = errors.New("book id must be a positive integer")
	ErrStorageUnavailable = errors.New("book storage unavailable")
)

// ValidationError carries field-level failures for a payload or query.
type ValidationError struct {
	Fields map[string]string
	err    error
}

func (e *ValidationError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return "validation failed"
}

func (e *ValidationError) Unwrap() error { return e.err }

// NewValidationError wraps err. ozzo field errors are flattened into Fields.
func NewValidationError(err error) *ValidationError {
	ve := &ValidationError{Fields: map[string]string{}, err: err}
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		for field, fe := range fieldErrs {
			ve.Fields[field] = fe.Error()
		}
	}
	return ve
}

// NewFieldError is a single-field ValidationError wrapping a sentinel.
func NewFieldError(field string, sentinel error) *ValidationError {
	return &ValidationError{
		Fields: map[string]string{field: sentinel.Error()},
		err:    sentinel,
	}
}

// StorageFailure marks err as a store/IO failure for op. Callers may retry.
func StorageFailure(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}

var bookErrorMap = map[error]struct {
	Status  int
	Code    string
	Message string
}{
	ErrBookNotFound: {
		Status:  http.StatusNotFound,
		Code:    "BOOK_NOT_FOUND",
		Message: "The specified book does not exist",
	},
	ErrInvalidBookID: {
		Status:  http.StatusBadRequest,
		Code:    "INVALID_BOOK_ID",
		Message: "Book id must be a positive integer",
	},
	ErrStorageUnavailable: {
		Status:  http.StatusInternalServerError,
		Code:    "STORAGE_UNAVAILABLE",
		Message: "The catalog is temporarily unavailable, please retry",
	},
}

// HandleBookError writes the error response for err and reports whether it did.
func HandleBookError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", ve.Error(), ve.Fields)
		return true
	}

	for target, cfg := range bookErrorMap {
		if errors.Is(err, target) {
			if cfg.Status >= http.StatusInternalServerError {
				log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("book request failed")
			}
			response.ErrorResponse(c, cfg.Status, cfg.Code, cfg.Message)
			return true
		}
	}

	log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("unexpected book error")
	response.InternalServerError(c, "Internal server error")
	return true
}
