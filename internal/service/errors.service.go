package service

import "github.com/sharetube/watchparty/internal/apperr"

var (
	ErrNotInParty    = apperr.Validation("Not in a party")
	ErrPartyNotFound = apperr.NotFound("Party not found")
	ErrMovieNotFound = apperr.NotFound("Movie not found")
	ErrOnlyHost      = apperr.Authorization("Only host can control video")
)
