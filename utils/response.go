package utils

import (
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// Every endpoint answers with the same envelope:
// { success, data?, error?: {code, message, details?}, meta?: {page, limit, total, timestamp} }

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type Meta struct {
	Page      int    `json:"page,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Total     int    `json:"total,omitempty"`
	Timestamp string `json:"timestamp"`
}

type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
	Meta    *Meta      `json:"meta,omitempty"`
}

// APIError travels from services up to handlers instead of bare errors,
// carrying the HTTP status and the envelope error code.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Message
}

func NewAPIError(status int, code, message string) *APIError {
	return &APIError{Status: status, Code: code, Message: message}
}

func RespondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Println("response encode error:", err)
	}
}

func RespondSuccess(w http.ResponseWriter, statusCode int, data any) {
	RespondWithJSON(w, statusCode, Envelope{
		Success: true,
		Data:    data,
		Meta:    &Meta{Timestamp: time.Now().UTC().Format(time.RFC3339)},
	})
}

func RespondSuccessMeta(w http.ResponseWriter, statusCode int, data any, meta Meta) {
	meta.Timestamp = time.Now().UTC().Format(time.RFC3339)
	RespondWithJSON(w, statusCode, Envelope{Success: true, Data: data, Meta: &meta})
}

func RespondError(w http.ResponseWriter, apiErr *APIError) {
	RespondWithJSON(w, apiErr.Status, Envelope{
		Success: false,
		Error: &ErrorBody{
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		},
		Meta: &Meta{Timestamp: time.Now().UTC().Format(time.RFC3339)},
	})
}

func RespondWithError(w http.ResponseWriter, statusCode int, code, message string) {
	RespondError(w, &APIError{Status: statusCode, Code: code, Message: message})
}

type M map[string]interface{}
