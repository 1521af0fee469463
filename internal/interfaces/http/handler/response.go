package handler

import "github.com/bizledger/backend/internal/interfaces/http/dto"

// APIResponse is the typed response envelope used by the OpenAPI
// annotations. Runtime responses are built by the dto package; this
// mirror exists so generated docs carry a concrete data type.
// @Description Standard API response wrapper with typed data field
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ErrorResponse is the error envelope for OpenAPI documentation.
// @Description Standard error response
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}
