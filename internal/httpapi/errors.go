package httpapi

import (
	"errors"
	"net/http"

	"github.com/vkarpenko/authd/internal/services/auth"
)

// Kind tags every error the API can emit. One enum and one mapping
// table instead of a class per status code; handlers produce a Kind
// and writeError does the rest.
type Kind int

const (
	KindBadRequest Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindUnavailable
	KindInternal
)

var kindTable = map[Kind]struct {
	Status int
	Code   string
}{
	KindBadRequest:   {http.StatusBadRequest, "BAD_REQUEST"},
	KindValidation:   {http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
	KindUnauthorized: {http.StatusUnauthorized, "UNAUTHORIZED"},
	KindForbidden:    {http.StatusForbidden, "FORBIDDEN"},
	KindNotFound:     {http.StatusNotFound, "NOT_FOUND"},
	KindConflict:     {http.StatusConflict, "CONFLICT"},
	KindUnavailable:  {http.StatusServiceUnavailable, "UNAVAILABLE"},
	KindInternal:     {http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
}

// classify maps usecase errors to a Kind and a client-facing message.
// Every credential failure shares one message: the response must not
// reveal which check rejected the token.
func classify(err error) (Kind, string) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return KindUnauthorized, "could not validate credentials"
	case errors.Is(err, auth.ErrUserInactive):
		return KindForbidden, "inactive user"
	case errors.Is(err, auth.ErrPermissionDenied):
		return KindForbidden, "the user doesn't have enough privileges"
	case errors.Is(err, auth.ErrEmailTaken):
		return KindConflict, "email already registered"
	case errors.Is(err, auth.ErrWeakPassword):
		return KindValidation, "password is too weak"
	case errors.Is(err, auth.ErrDirectoryUnavailable):
		return KindUnavailable, "service temporarily unavailable"
	default:
		return KindInternal, "an unexpected error occurred"
	}
}

type errorBody struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

func writeError(w http.ResponseWriter, kind Kind, msg string) {
	entry := kindTable[kind]
	if kind == KindUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	writeJSON(w, entry.Status, errorEnvelope{Error: errorBody{
		Code:       entry.Code,
		Message:    msg,
		StatusCode: entry.Status,
	}})
}
