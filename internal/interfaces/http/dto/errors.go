package dto

import (
	"net/http"
	"strings"
)

// API error codes, ERR_<DESCRIPTION>. Domain errors carry their own
// short codes and are translated through NormalizeErrorCode before
// they reach a response.
const (
	ErrCodeInternal   = "ERR_INTERNAL"
	ErrCodeValidation = "ERR_VALIDATION"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"

	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"

	ErrCodeInvalidState      = "ERR_INVALID_STATE"
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	ErrCodeDuplicateNumber   = "ERR_DUPLICATE_NUMBER"

	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
)

var errorCodeStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// State machine and stock violations are well-formed requests the
	// documents cannot satisfy, so 422 rather than 400.
	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,

	// A taken document number is a conflict with an existing document.
	ErrCodeDuplicateNumber: http.StatusConflict,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
}

// domainCodeMapping translates the short codes domain errors carry
// into API error codes.
var domainCodeMapping = map[string]string{
	"NOT_FOUND":               ErrCodeNotFound,
	"ITEM_NOT_FOUND":          ErrCodeNotFound,
	"ALREADY_EXISTS":          ErrCodeAlreadyExists,
	"INVALID_INPUT":           ErrCodeInvalidInput,
	"INVALID_STATE":           ErrCodeInvalidState,
	"UNAUTHORIZED":            ErrCodeUnauthorized,
	"FORBIDDEN":               ErrCodeForbidden,
	"CONCURRENCY_CONFLICT":    ErrCodeConcurrencyConflict,
	"CONCURRENT_MODIFICATION": ErrCodeConcurrencyConflict,
	"INSUFFICIENT_STOCK":      ErrCodeInsufficientStock,
	"DUPLICATE_NUMBER":        ErrCodeDuplicateNumber,
	"VALIDATION_ERROR":        ErrCodeValidation,
	"BAD_REQUEST":             ErrCodeBadRequest,
	"INTERNAL_ERROR":          ErrCodeInternal,
	"PERSISTENCE_FAILURE":     ErrCodeInternal,
}

// NormalizeErrorCode translates a domain error code into the API
// format. Codes already in the API format, and granular domain codes
// with no dedicated API code, pass through unchanged.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := domainCodeMapping[code]; ok {
		return apiCode
	}
	return code
}

// GetHTTPStatus returns the HTTP status for an error code. Granular
// domain rule codes (INVALID_QUANTITY, DUPLICATE_PRODUCT, NO_ITEMS
// and the like) map to 422; anything else unknown is a 500.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeStatus[code]; ok {
		return status
	}
	if !strings.HasPrefix(code, "ERR_") {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
