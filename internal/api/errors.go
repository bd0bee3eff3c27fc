package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ValidationError represents errors from invalid input
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// StorageError represents errors from database operations
type StorageError struct {
	Operation string
	Cause     error
}

func (e *StorageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("storage error during %s: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("storage error during %s", e.Operation)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

func NewStorageError(operation string, cause error) *StorageError {
	return &StorageError{Operation: operation, Cause: cause}
}

// TimeoutError represents timeout errors
type TimeoutError struct {
	Operation string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout during %s", e.Operation)
}

func NewTimeoutError(operation string) *TimeoutError {
	return &TimeoutError{Operation: operation}
}

// PayloadTooLargeError represents errors when request payload exceeds size limit
type PayloadTooLargeError struct {
	MaxSize    int64
	ActualSize int64
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("payload too large: maximum size is %d bytes, got %d bytes", e.MaxSize, e.ActualSize)
}

func NewPayloadTooLargeError(maxSize, actualSize int64) *PayloadTooLargeError {
	return &PayloadTooLargeError{MaxSize: maxSize, ActualSize: actualSize}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

func IsTimeoutError(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

func IsPayloadTooLargeError(err error) bool {
	var ptle *PayloadTooLargeError
	return errors.As(err, &ptle)
}

// HTTPStatusFromError returns the appropriate HTTP status code for an error
func HTTPStatusFromError(err error) int {
	switch {
	case IsValidationError(err):
		return http.StatusBadRequest
	case IsTimeoutError(err):
		return http.StatusGatewayTimeout
	case IsPayloadTooLargeError(err):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// WriteErrorFromError writes an error response based on the error type
func WriteErrorFromError(w http.ResponseWriter, err error) {
	WriteError(w, HTTPStatusFromError(err), err.Error())
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func WriteError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}

func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}
