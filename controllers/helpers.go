package controllers

import (
	"encoding/json"
	"net/http"
)

// WriteJSONResponse writes payload as JSON with the given status code
func WriteJSONResponse(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// InternalServerError is the only body a fatal error produces
func InternalServerError(w http.ResponseWriter) {
	WriteJSONResponse(w, http.StatusInternalServerError, "Internal Server Error")
}

// HealthCheckHandler provides a basic health check
func HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSONResponse(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// MethodNotAllowedHandler answers unsupported methods the way fatal errors are answered
func MethodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	InternalServerError(w)
}
