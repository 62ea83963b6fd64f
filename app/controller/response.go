package controller

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"merch-order-desk/repository"
	"merch-order-desk/service"
	"merch-order-desk/utils"
)

// networkErrorMessage is shown when the backend gave no message of its own
const networkErrorMessage = "Network error."

// writeJSON encodes v with the given status
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ Error encoding response: %v", err)
	}
}

// statusFor maps service and repository errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrContactRequired),
		errors.Is(err, service.ErrNoLines),
		errors.Is(err, service.ErrLookupParams),
		errors.Is(err, utils.ErrInvalidBaseURL),
		errors.Is(err, repository.ErrBaseURLNotSet):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrTokenMissing):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrAccessDenied),
		errors.Is(err, service.ErrPasscodeNotSet):
		return http.StatusForbidden
	case errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrNoImage):
		return http.StatusNotFound
	case errors.Is(err, service.ErrSubmitInFlight):
		return http.StatusConflict
	}

	var be *repository.BackendError
	if errors.As(err, &be) || errors.Is(err, repository.ErrNetwork) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// messageFor returns the user-facing text of err. A server supplied message
// wins; a transport failure without one becomes the generic network message.
func messageFor(err error) string {
	if msg, ok := repository.BackendMessage(err); ok {
		return msg
	}
	if statusFor(err) == http.StatusBadGateway {
		return networkErrorMessage
	}
	return err.Error()
}

// writeError logs err under op and writes it as a JSON error body
func writeError(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Printf("❌ %s: %v", op, err)
	} else {
		log.Printf("⚠️  %s: %v", op, err)
	}
	writeJSON(w, status, map[string]string{"error": messageFor(err)})
}

// decodeBody decodes a JSON request body into v, writing a 400 on failure
func decodeBody(w http.ResponseWriter, r *http.Request, op string, v interface{}) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		log.Printf("❌ %s: Failed to decode request body: %v", op, err)
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}
