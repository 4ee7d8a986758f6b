package domain

import (
	"errors"
	"time"

	"github.com/samber/lo"
)

var (
	ErrMissingIdentity = errors.New("member identity is missing")
	ErrRoomEnded       = errors.New("room ended")
)

const KickedByHostReason = "Kicked by host"

const PartyEndedMessage = "Party ended by host"

type roomState int

const (
	roomActive roomState = iota
	roomEnded
)

type Snapshot struct {
	ID         string     `json:"partyId"`
	Name       string     `json:"roomName"`
	InviteCode string     `json:"inviteCode"`
	HostID     string     `json:"hostId"`
	Members    []Member   `json:"users"`
	VideoState VideoState `json:"videoState"`
	IsActive   bool       `json:"isActive"`
}

type NewRoomParams struct {
	ID         string
	Name       string
	InviteCode string
	MovieID    string
	// HostID names the host recorded for the party. When set, the host is seeded as an
	// offline member so the room has exactly one host before anyone connects.
	HostID       string
	HostUsername string
	MembersLimit int
	Clock        func() time.Time
}

// Room owns the membership, host authority and playback state of one party.
// It is not safe for concurrent use; callers serialize access.
type Room struct {
	id         string
	name       string
	inviteCode string
	hostID     string
	members    *Members
	observers  map[string]Observer
	videoState VideoState
	state      roomState
	now        func() time.Time
}

func NewRoom(params *NewRoomParams) *Room {
	now := params.Clock
	if now == nil {
		now = time.Now
	}

	r := &Room{
		id:         params.ID,
		name:       params.Name,
		inviteCode: params.InviteCode,
		hostID:     params.HostID,
		members:    NewMembers(params.MembersLimit),
		observers:  make(map[string]Observer),
		videoState: NewVideoState(params.MovieID),
		state:      roomActive,
		now:        now,
	}
	r.videoState.LastUpdate = now().UnixMilli()

	if params.HostID != "" {
		r.members.list = append(r.members.list, Member{
			UserID:   params.HostID,
			Username: params.HostUsername,
			IsHost:   true,
			IsOnline: false,
			JoinedAt: now(),
		})
	}

	return r
}

func (r *Room) ID() string         { return r.id }
func (r *Room) Name() string       { return r.name }
func (r *Room) InviteCode() string { return r.inviteCode }
func (r *Room) HostID() string     { return r.hostID }
func (r *Room) IsActive() bool     { return r.state == roomActive }

func (r *Room) IsHost(userID string) bool {
	return userID != "" && r.hostID == userID
}

func (r *Room) HasMember(userID string) bool {
	_, _, err := r.members.GetByID(userID)
	return err == nil
}

func (r *Room) Member(userID string) (Member, error) {
	member, _, err := r.members.GetByID(userID)
	return member, err
}

func (r *Room) Members() []Member {
	return r.members.AsList()
}

func (r *Room) OnlineCount() int {
	return r.members.OnlineCount()
}

func (r *Room) VideoState() VideoState {
	return r.videoState
}

// IsAttached reports whether o is the observer currently receiving notifications for its user.
func (r *Room) IsAttached(o Observer) bool {
	attached, ok := r.observers[o.UserID()]
	return ok && attached == o
}

// Observers returns attached observers in join order.
func (r *Room) Observers() []Observer {
	observers := make([]Observer, 0, len(r.observers))
	for _, member := range r.members.list {
		if o, ok := r.observers[member.UserID]; ok {
			observers = append(observers, o)
		}
	}

	return observers
}

func (r *Room) Snapshot() Snapshot {
	return Snapshot{
		ID:         r.id,
		Name:       r.name,
		InviteCode: r.inviteCode,
		HostID:     r.hostID,
		Members:    r.members.AsList(),
		VideoState: r.videoState,
		IsActive:   r.IsActive(),
	}
}

func (r *Room) Attach(o Observer) {
	r.observers[o.UserID()] = o
}

func (r *Room) Detach(o Observer) {
	if r.IsAttached(o) {
		delete(r.observers, o.UserID())
	}
}

// NotifyAll pushes the current snapshot to every attached observer.
func (r *Room) NotifyAll() {
	snapshot := r.Snapshot()
	for _, o := range r.Observers() {
		o.Update(snapshot)
	}
}

// AddMember adds o as an online member. The recorded host, or the first member of a room
// without one, gets the host flag. A seeded offline member coming online keeps its place.
func (r *Room) AddMember(o Observer) error {
	if o == nil || o.UserID() == "" {
		return ErrMissingIdentity
	}
	if r.state == roomEnded {
		return ErrRoomEnded
	}

	userID := o.UserID()
	if existing, _, err := r.members.GetByID(userID); err == nil {
		if existing.IsOnline {
			return ErrMemberAlreadyExists
		}

		r.members.Update(userID, func(m *Member) {
			m.IsOnline = true
			m.Username = o.Username()
		})
		r.Attach(o)
		r.NotifyAll()
		return nil
	}

	if r.hostID == "" && r.members.Length() == 0 {
		r.hostID = userID
	}

	if err := r.members.Add(Member{
		UserID:   userID,
		Username: o.Username(),
		IsHost:   r.hostID == userID,
		IsOnline: true,
		JoinedAt: r.now(),
	}); err != nil {
		return err
	}

	r.Attach(o)
	r.NotifyAll()
	return nil
}

// RemoveMember removes userID. When the host leaves, the first remaining member by join order
// becomes host and is returned as newHost. The room ends once no members remain.
func (r *Room) RemoveMember(userID string) (removed Member, newHost *Member, err error) {
	removed, err = r.members.RemoveByID(userID)
	if err != nil {
		return Member{}, nil, err
	}

	if o, ok := r.observers[userID]; ok {
		r.Detach(o)
	}

	if removed.IsHost {
		r.hostID = ""
		if first, ok := r.members.First(); ok {
			r.members.Update(first.UserID, func(m *Member) {
				m.IsHost = true
			})
			r.hostID = first.UserID
			first.IsHost = true
			newHost = &first

			for _, o := range r.Observers() {
				o.SendHostChanged(first)
			}
		}
	}

	if r.members.Length() == 0 {
		r.state = roomEnded
	}

	r.NotifyAll()
	return removed, newHost, nil
}

// UpdateVideoState merges update into the video state. Only the host may do this.
func (r *Room) UpdateVideoState(requesterID string, update VideoStateUpdate) bool {
	if r.state == roomEnded || !r.IsHost(requesterID) {
		return false
	}

	r.videoState = r.videoState.merge(update)
	r.videoState.LastUpdate = r.now().UnixMilli()

	r.NotifyAll()
	return true
}

// KickMember lets the host remove another member. The target is told before it is removed.
func (r *Room) KickMember(requesterID, targetID string) bool {
	if r.state == roomEnded || !r.IsHost(requesterID) || requesterID == targetID {
		return false
	}

	if !r.HasMember(targetID) {
		return false
	}

	if o, ok := r.observers[targetID]; ok {
		o.SendKicked(KickedByHostReason)
	}

	_, _, err := r.RemoveMember(targetID)
	return err == nil
}

// EndParty lets the host end the room for everyone.
func (r *Room) EndParty(requesterID string) bool {
	if r.state == roomEnded || !r.IsHost(requesterID) {
		return false
	}

	r.state = roomEnded
	for _, o := range r.Observers() {
		o.SendPartyEnded(PartyEndedMessage)
	}

	r.observers = make(map[string]Observer)
	return true
}

// OnlineMemberIDs returns the ids of members with a live connection, in join order.
func (r *Room) OnlineMemberIDs() []string {
	return lo.FilterMap(r.members.list, func(m Member, _ int) (string, bool) {
		return m.UserID, m.IsOnline
	})
}
