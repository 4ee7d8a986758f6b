package controller

import (
	"crypto/rand"
	"net/http"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/sharetube/watchparty/internal/apperr"
)

var (
	errInternal             = apperr.New(apperr.KindInternal, "Internal server error")
	errInvalidMessage       = apperr.Malformed("Invalid message format")
	errUnknownMessageType   = apperr.Malformed("Unknown message type")
	errNotAuthenticated     = apperr.Authentication("Not authenticated")
	errAlreadyAuthenticated = apperr.Conflict("Already authenticated")
	errMissingBearer        = apperr.Authentication("Missing bearer token")
	errNotPartyMember       = apperr.Authorization("Not a member of this party")
)

const (
	authRequiredMessage = "Please authenticate"
	invalidTokenMessage = "Invalid token"
	partyLeftMessage    = "Left party"
)

func (c controller) generateTimeBasedId() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

func (c controller) getBearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", errMissingBearer
	}

	return token, nil
}

func statusFromError(err error) int {
	e, ok := apperr.From(err)
	if !ok {
		return http.StatusInternalServerError
	}

	switch e.Kind {
	case apperr.KindAuthentication:
		return http.StatusUnauthorized
	case apperr.KindAuthorization:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindValidation, apperr.KindMalformed:
		return http.StatusBadRequest
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
