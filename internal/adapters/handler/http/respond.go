package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/afisha/api/internal/core/domain"
)

type messageResponse struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, messageResponse{Message: message})
}

// respondError maps a service error to an HTTP status. Unknown errors get a
// generic 500 so internals never leak.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrInvalidCredentials):
		respondMessage(w, http.StatusBadRequest, userFacing(err))
	case errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrTokenRevoked):
		respondMessage(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrEventNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		respondMessage(w, http.StatusNotFound, userFacing(err))
	case errors.Is(err, domain.ErrNotEventCreator):
		respondMessage(w, http.StatusForbidden, userFacing(err))
	case errors.Is(err, domain.ErrAlreadyJoined),
		errors.Is(err, domain.ErrNotJoined):
		respondMessage(w, http.StatusConflict, userFacing(err))
	case errors.Is(err, domain.ErrDailyLimitReached):
		respondMessage(w, http.StatusTooManyRequests, userFacing(err))
	default:
		respondMessage(w, http.StatusInternalServerError, domain.ErrInternal.Error())
	}
}

// userFacing strips wrapping context, leaving only the sentinel's text.
func userFacing(err error) string {
	for _, sentinel := range []error{
		domain.ErrValidation, domain.ErrEmailTaken, domain.ErrInvalidCredentials,
		domain.ErrEventNotFound, domain.ErrUserNotFound, domain.ErrNotEventCreator,
		domain.ErrAlreadyJoined, domain.ErrNotJoined, domain.ErrDailyLimitReached,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
