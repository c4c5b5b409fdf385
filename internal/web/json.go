// Package web holds the JSON response helpers shared by all handlers.
package web

import (
	"encoding/json"
	"log"
	"net/http"

	"jobrec/search-service/internal/apperr"
	"jobrec/search-service/internal/model"
)

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[web] encode response: %v", err)
	}
}

// OK writes v with HTTP 200.
func OK(w http.ResponseWriter, v any) {
	JSON(w, http.StatusOK, v)
}

// Error writes a {result: message} body with the given status.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, model.Result{Result: message})
}

// AppError maps err through the error taxonomy: the kind picks the HTTP
// status, only the client-safe message is emitted, and the full error is
// logged with its component tag.
func AppError(w http.ResponseWriter, component string, err error) {
	log.Printf("[%s] %v", component, err)
	Error(w, apperr.StatusOf(err), apperr.MessageOf(err))
}
