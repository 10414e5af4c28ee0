package dto

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mtlprog/taskflow/internal/domain"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorResponse creates a new error response.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// MapDomainError maps domain errors to HTTP status codes and error codes.
// Not-found and conflict conditions are matched before the generic store failure
// because stores wrap them in *domain.StoreError.
func MapDomainError(err error) (status int, code string, message string) {
	message = err.Error()

	switch {
	// Not found
	case errors.Is(err, domain.ErrTaskNotFound):
		return http.StatusNotFound, "TASK_NOT_FOUND", domain.ErrTaskNotFound.Error()
	case errors.Is(err, domain.ErrCategoryNotFound):
		return http.StatusNotFound, "CATEGORY_NOT_FOUND", domain.ErrCategoryNotFound.Error()

	// Conflicts
	case errors.Is(err, domain.ErrCategoryExists):
		return http.StatusConflict, "CATEGORY_EXISTS", domain.ErrCategoryExists.Error()

	// Query errors
	case errors.Is(err, domain.ErrInvalidFilter):
		return http.StatusBadRequest, "INVALID_FILTER", message
	case errors.Is(err, domain.ErrInvalidSortKey):
		return http.StatusBadRequest, "INVALID_SORT", message

	// Validation errors
	case errors.Is(err, domain.ErrEmptyTitle),
		errors.Is(err, domain.ErrTitleTooLong),
		errors.Is(err, domain.ErrEmptyCategoryName),
		errors.Is(err, domain.ErrInvalidPriority),
		errors.Is(err, domain.ErrInvalidDate):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", message

	// Persistence failures are retryable
	case domain.IsStoreError(err):
		slog.Error("store failure", "error", err)
		return http.StatusServiceUnavailable, "STORE_ERROR", "Storage unavailable, please retry"

	// Default: internal server error
	default:
		slog.Error("unmapped domain error returned to client",
			"error", err,
			"error_type", fmt.Sprintf("%T", err),
		)
		return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"
	}
}
