package common

import (
	"encoding/json"
	"net/http"
)

// Response is the canonical envelope returned by the API.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// JSON writes the provided value to the response writer as JSON.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK renders a successful envelope with a human readable message.
func OK(w http.ResponseWriter, message string) {
	JSON(w, http.StatusOK, Response{Success: true, Message: message})
}

// Fail renders a failed envelope with the given status and message.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Response{Success: false, Message: message})
}

// FailFromError maps an error onto the failure envelope, falling back to a
// generic 500 when the error carries no HTTP status of its own.
func FailFromError(w http.ResponseWriter, err error) {
	if app, ok := AsAppError(err); ok {
		Fail(w, app.HTTPStatus, app.Message)
		return
	}
	Fail(w, http.StatusInternalServerError, "Something went wrong")
}
