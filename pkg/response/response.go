// Package response writes the API's JSON envelope:
//
//	{"success": true, "message": "...", <payload keys>...}
//
// Failures carry "success": false and, when there is an underlying error,
// its text under "error".
package response

import (
	"encoding/json"
	"net/http"
)

// Map is a flat JSON object merged into the envelope.
type Map = map[string]any

// JSON writes v as-is with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func envelope(success bool, message string, payload Map) Map {
	body := make(Map, len(payload)+2)
	for k, v := range payload {
		body[k] = v
	}
	body["success"] = success
	if message != "" {
		body["message"] = message
	}
	return body
}

// Success sends a 200 envelope.
func Success(w http.ResponseWriter, message string, payload Map) {
	JSON(w, http.StatusOK, envelope(true, message, payload))
}

// Created sends a 201 envelope.
func Created(w http.ResponseWriter, message string, payload Map) {
	JSON(w, http.StatusCreated, envelope(true, message, payload))
}

// Fail sends a success:false envelope. err may be nil.
func Fail(w http.ResponseWriter, status int, message string, err error) {
	payload := Map{}
	if err != nil {
		payload["error"] = err.Error()
	}
	JSON(w, status, envelope(false, message, payload))
}

// FailWith is Fail with extra payload keys.
func FailWith(w http.ResponseWriter, status int, message string, err error, extra Map) {
	payload := Map{}
	for k, v := range extra {
		payload[k] = v
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	JSON(w, status, envelope(false, message, payload))
}

// ValidationError sends a 400 with a field-level error map.
func ValidationError(w http.ResponseWriter, message string, errs map[string]string) {
	JSON(w, http.StatusBadRequest, envelope(false, message, Map{"errors": errs}))
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter) {
	Fail(w, http.StatusUnauthorized, "Unauthorized", nil)
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter, message string) {
	Fail(w, http.StatusNotFound, message, nil)
}
