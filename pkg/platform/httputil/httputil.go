// Package httputil writes the response envelope every endpoint shares:
//
//	{ "success": true,  "message": "...", "<resource>": ... }
//	{ "success": false, "error": "<code>", "message": "..." }
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "lifesure/pkg/domain-errors"
)

func statusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeValidation:
		return http.StatusBadRequest
	case dErrors.CodeUnauthenticated:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// WriteSuccess writes a success envelope. Each entry in data becomes a
// top-level key, so handlers control the resource key name ("policy",
// "applications", "pagination", ...).
func WriteSuccess(w http.ResponseWriter, status int, message string, data map[string]any) {
	body := map[string]any{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range data {
		body[k] = v
	}
	writeJSON(w, status, body)
}

// WriteError translates err into the error envelope. Non-domain errors are
// reported as internal_error with a generic message so upstream error text
// never leaks to callers.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	message := "something went wrong"
	var de *dErrors.Error
	if errors.As(err, &de) && code != dErrors.CodeInternal {
		message = de.Message
	}
	writeJSON(w, statusFor(code), map[string]any{
		"success": false,
		"error":   string(code),
		"message": message,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
