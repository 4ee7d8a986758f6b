package inmemory

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/sharetube/watchparty/internal/domain"
	"github.com/sharetube/watchparty/internal/repository/session"
)

// repo is the process-wide registry of live connections and rooms. Mutations come from the
// event loop only; the mutex covers concurrent readers such as the stats endpoint.
type repo struct {
	conns  map[string]domain.Peer
	rooms  map[string]*domain.Room
	mu     sync.RWMutex
	logger *slog.Logger
}

func NewRepo(logger *slog.Logger) *repo {
	return &repo{
		conns:  make(map[string]domain.Peer),
		rooms:  make(map[string]*domain.Room),
		logger: logger,
	}
}

// Register maps userID to peer and returns the connection it replaced, if any.
func (r *repo) Register(userID string, peer domain.Peer) domain.Peer {
	funcName := "session.inmemory.Register"
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug(funcName, "user_id", userID)
	replaced := r.conns[userID]
	r.conns[userID] = peer

	if replaced == peer {
		return nil
	}

	return replaced
}

func (r *repo) Unregister(userID string) {
	funcName := "session.inmemory.Unregister"
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug(funcName, "user_id", userID)
	delete(r.conns, userID)
}

func (r *repo) GetConn(userID string) (domain.Peer, error) {
	funcName := "session.inmemory.GetConn"
	r.mu.RLock()
	defer r.mu.RUnlock()

	peer, ok := r.conns[userID]
	if !ok {
		r.logger.Debug(funcName, "user_id", userID, "error", session.ErrConnNotFound)
		return nil, session.ErrConnNotFound
	}

	return peer, nil
}

// CreateRoom builds a room and adds creator as its first online member.
func (r *repo) CreateRoom(creator domain.Peer, params *session.CreateRoomParams) (*domain.Room, error) {
	funcName := "session.inmemory.CreateRoom"
	r.mu.Lock()
	defer r.mu.Unlock()

	roomID := params.RoomID
	if roomID == "" {
		roomID = uuid.NewString()
	}
	r.logger.Debug(funcName, "room_id", roomID, "creator_id", creator.UserID())

	if _, ok := r.rooms[roomID]; ok {
		r.logger.Info(funcName, "error", session.ErrRoomAlreadyExists)
		return nil, session.ErrRoomAlreadyExists
	}

	hostID := params.HostID
	if hostID == creator.UserID() {
		hostID = ""
	}

	room := domain.NewRoom(&domain.NewRoomParams{
		ID:           roomID,
		Name:         params.Name,
		InviteCode:   params.InviteCode,
		MovieID:      params.MovieID,
		HostID:       hostID,
		HostUsername: params.HostUsername,
		MembersLimit: params.MembersLimit,
	})
	if err := room.AddMember(creator); err != nil {
		r.logger.Info(funcName, "error", err)
		return nil, err
	}

	r.rooms[roomID] = room
	return room, nil
}

func (r *repo) GetRoom(roomID string) (*domain.Room, error) {
	funcName := "session.inmemory.GetRoom"
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[roomID]
	if !ok {
		r.logger.Debug(funcName, "room_id", roomID, "error", session.ErrRoomNotFound)
		return nil, session.ErrRoomNotFound
	}

	return room, nil
}

func (r *repo) DeleteRoom(roomID string) {
	funcName := "session.inmemory.DeleteRoom"
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug(funcName, "room_id", roomID)
	delete(r.rooms, roomID)
}

func (r *repo) Stats() session.Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return session.Stats{
		Connections: len(r.conns),
		Rooms:       len(r.rooms),
	}
}
