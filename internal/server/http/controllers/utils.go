package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Ailysom/ras-chat/internal/ringlog"
	chatsvc "github.com/Ailysom/ras-chat/internal/services/chat"
)

// Helper functions for common HTTP responses

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeJSON writes a JSON response with the given data.
func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}

// writeServiceError maps the service error taxonomy onto HTTP statuses. The
// messages are deliberately generic: authentication failures in particular
// never say why the token was rejected.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chatsvc.ErrBadRequest):
		writeError(w, http.StatusBadRequest, "Bad request")
	case errors.Is(err, chatsvc.ErrAuthenticationFailed):
		writeError(w, http.StatusUnauthorized, "Authentication failed")
	case errors.Is(err, chatsvc.ErrAuthorizationDenied):
		writeError(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, ringlog.ErrMessageTooLong):
		writeError(w, http.StatusBadRequest, "Message too long")
	case errors.Is(err, chatsvc.ErrUnavailable):
		writeError(w, http.StatusInternalServerError, "Service unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "Internal error")
	}
}

// formatMessages renders an ordered snapshot for the wire. This is the only
// place message content meets serialization; the JSON encoder escapes quotes
// and control characters embedded in keys or values.
func formatMessages(msgs []ringlog.Message) []messageJSON {
	out := make([]messageJSON, len(msgs))
	for i, m := range msgs {
		out[i] = messageJSON{Key: m.Key, Value: m.Value}
	}
	return out
}
