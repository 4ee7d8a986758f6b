package party

import "github.com/sharetube/watchparty/internal/domain"

type CreatePartyParams struct {
	Peer     domain.Peer
	RoomName string
	MovieID  string
}

type CreatePartyResponse struct {
	Room domain.Snapshot
}

type JoinPartyParams struct {
	Peer       domain.Peer
	InviteCode string
	PartyID    string
}

type JoinPartyResponse struct {
	Room   domain.Snapshot
	IsHost bool
}

type LeavePartyParams struct {
	Peer domain.Peer
}

type KickUserParams struct {
	Peer         domain.Peer
	TargetUserID string
}

type EndPartyParams struct {
	Peer domain.Peer
}

type DisconnectParams struct {
	Peer domain.Peer
}

type PartySummary struct {
	PartyID      string `json:"partyId"`
	RoomName     string `json:"roomName"`
	InviteCode   string `json:"inviteCode"`
	MovieID      string `json:"movieId"`
	HostID       string `json:"hostId"`
	HostUsername string `json:"hostUsername"`
	MembersCount int    `json:"membersCount"`
	CreatedAt    int64  `json:"createdAt"`
}
