package party

import "errors"

var (
	ErrPartyNotFound     = errors.New("party not found")
	ErrInviteCodeTaken   = errors.New("invite code already taken")
	ErrInviteCodeMissing = errors.New("invite code not found")
)

type Party struct {
	ID           string `redis:"-"`
	Name         string `redis:"name"`
	InviteCode   string `redis:"invite_code"`
	HostID       string `redis:"host_id"`
	HostUsername string `redis:"host_username"`
	MovieID      string `redis:"movie_id"`
	IsActive     bool   `redis:"is_active"`
	// unix milliseconds
	CreatedAt int64 `redis:"created_at"`
}

type CreatePartyParams struct {
	PartyID      string
	Name         string
	InviteCode   string
	HostID       string
	HostUsername string
	MovieID      string
	CreatedAt    int64
}

// UpdatePartyParams is a partial update, nil fields are left untouched.
type UpdatePartyParams struct {
	PartyID      string
	HostID       *string
	HostUsername *string
	MovieID      *string
}

type AddMemberParams struct {
	PartyID string
	UserID  string
}

type RemoveMemberParams struct {
	PartyID string
	UserID  string
}
