package session

import "errors"

var (
	ErrConnNotFound      = errors.New("connection not found")
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomAlreadyExists = errors.New("room already exists")
)

type CreateRoomParams struct {
	// RoomID is generated when empty.
	RoomID       string
	Name         string
	InviteCode   string
	MovieID      string
	HostID       string
	HostUsername string
	MembersLimit int
}

type Stats struct {
	Connections int `json:"connections"`
	Rooms       int `json:"rooms"`
}
