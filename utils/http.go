package utils

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Message string                 `json:"message,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// SuccessResponse wraps operational payloads such as readiness reports
type SuccessResponse struct {
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// MessageResponse is returned by operations that have nothing else to report
type MessageResponse struct {
	Message string `json:"message"`
}

// errorCodes maps statuses to the machine-readable error field
var errorCodes = map[int]string{
	http.StatusBadRequest:          "bad_request",
	http.StatusUnauthorized:        "unauthorized",
	http.StatusForbidden:           "forbidden",
	http.StatusNotFound:            "not_found",
	http.StatusMethodNotAllowed:    "method_not_allowed",
	http.StatusConflict:            "conflict",
	http.StatusBadGateway:          "bad_gateway",
	http.StatusServiceUnavailable:  "service_unavailable",
	http.StatusInternalServerError: "internal_error",
}

// ErrorCode returns the error field used for status
func ErrorCode(status int) string {
	if code, ok := errorCodes[status]; ok {
		return code
	}
	return "internal_error"
}

// WriteJSON encodes data with the given status. A nil data writes headers only.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(data)
}

// WriteMessage writes {"message": message} with a 200
func WriteMessage(w http.ResponseWriter, message string) error {
	return WriteJSON(w, http.StatusOK, MessageResponse{Message: message})
}

// WriteError writes an ErrorResponse whose error field is derived from status
func WriteError(w http.ResponseWriter, status int, message string, details map[string]interface{}) error {
	return WriteJSON(w, status, ErrorResponse{
		Error:   ErrorCode(status),
		Message: message,
		Details: details,
	})
}

// WriteBadRequest writes a 400
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]interface{}) error {
	return WriteError(w, http.StatusBadRequest, message, details)
}

// WriteUnauthorized writes a 401
func WriteUnauthorized(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusUnauthorized, withDefault(message, "Authentication required"), nil)
}

// WriteForbidden writes a 403
func WriteForbidden(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusForbidden, withDefault(message, "Access forbidden"), nil)
}

// WriteNotFound writes a 404
func WriteNotFound(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusNotFound, withDefault(message, "Resource not found"), nil)
}

// WriteConflict writes a 409
func WriteConflict(w http.ResponseWriter, message string, details map[string]interface{}) error {
	return WriteError(w, http.StatusConflict, message, details)
}

// WriteBadGateway writes a 502 for failed upstream calls
func WriteBadGateway(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusBadGateway, withDefault(message, "Upstream request failed"), nil)
}

// WriteInternalServerError writes a 500. Callers pass a generic message;
// causes belong in the log.
func WriteInternalServerError(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusInternalServerError, withDefault(message, "Internal server error"), nil)
}

func withDefault(message, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}
