package httputil

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the JSON body of every API error response. Code carries the
// numeric input validation code when the error came from one.
type ErrorBody struct {
	Error string `json:"error"`
	Code  int    `json:"code,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteError writes an ErrorBody with the given status.
func WriteError(w http.ResponseWriter, status int, msg string, code int) {
	WriteJSON(w, status, ErrorBody{Error: msg, Code: code})
}
