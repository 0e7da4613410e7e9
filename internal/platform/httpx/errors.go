// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"

	"github.com/odyssey-erp/odyssey-tasks/internal/shared"
)

// Client-facing messages. They never carry internal error text.
const (
	MsgUserExists         = "User already exists"
	MsgInvalidCredentials = "Invalid credentials"
	MsgNoToken            = "No token provided"
	MsgInvalidToken       = "Invalid token"
	MsgTaskNotFound       = "Task not found"
	MsgBadRequest         = "Invalid request body"
	MsgInternal           = "Internal Server Error"
)

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", MsgTaskNotFound)
	case errors.Is(err, shared.ErrEmailTaken):
		Problem(w, http.StatusBadRequest, "Duplicate", MsgUserExists)
	case errors.Is(err, shared.ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, shared.ErrInvalidCredentials):
		Problem(w, http.StatusUnauthorized, "Unauthorized", MsgInvalidCredentials)
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", MsgInternal)
	}
}
