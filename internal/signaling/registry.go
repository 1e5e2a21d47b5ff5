package signaling

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/mossy-p/roomrelay/internal/models"
)

// Presence observes membership changes. It is called after the registry lock
// has been released: calls for one connection arrive in order, calls for
// different connections of the same room may interleave.
type Presence interface {
	Joined(roomID, id, displayName string)
	Left(roomID, id string)
}

// Registry owns the unjoined pool and the room table. Every mutation and
// every broadcast happens under one lock, and nothing under that lock does
// I/O: frames are only enqueued on the members' outbound queues.
type Registry struct {
	mu       sync.Mutex
	live     map[string]*Connection
	unjoined map[string]*Connection
	rooms    map[string][]*Connection

	presence Presence
}

type Option func(*Registry)

// WithPresence registers an observer for joins and leaves.
func WithPresence(p Presence) Option {
	return func(r *Registry) {
		r.presence = p
	}
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		live:     make(map[string]*Connection),
		unjoined: make(map[string]*Connection),
		rooms:    make(map[string][]*Connection),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register sends the connection its identity and places it in the unjoined
// pool. The identity frame is always the first frame on the queue.
func (r *Registry) Register(c *Connection) error {
	data, err := json.Marshal(models.IdentityMessage{UUID: c.id})
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if _, ok := r.live[c.id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateIdentity, c.id)
	}
	c.enqueue(data)
	r.live[c.id] = c
	r.unjoined[c.id] = c

	log.Debug().Str("module", "signaling.registry").Str("uuid", c.id).Int("unjoined", len(r.unjoined)).Msg("connection registered")
	return nil
}

// Join moves an unjoined connection into roomID, creating the room if
// needed, and announces it to every member including the joiner.
func (r *Registry) Join(roomID string, c *Connection, displayName string) error {
	data, err := json.Marshal(models.UserJoinedMessage{UserJoined: c.id, DisplayName: displayName})
	if err != nil {
		return fmt.Errorf("encode join announcement: %w", err)
	}

	r.mu.Lock()
	if c.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	if c.joined {
		r.mu.Unlock()
		return ErrAlreadyJoined
	}
	if r.unjoined[c.id] != c {
		r.mu.Unlock()
		log.Error().Str("module", "signaling.registry").Str("uuid", c.id).Msg("join for connection missing from unjoined pool")
		return fmt.Errorf("%w: %s not in unjoined pool", ErrClosed, c.id)
	}

	delete(r.unjoined, c.id)
	members := append(r.rooms[roomID], c)
	r.rooms[roomID] = members
	c.roomID = roomID
	c.displayName = displayName
	c.joined = true

	r.broadcastLocked(roomID, data)
	size := len(members)
	r.mu.Unlock()

	log.Info().Str("module", "signaling.registry").Str("room", roomID).Str("uuid", c.id).
		Str("displayname", displayName).Int("members", size).Msg("joined room")

	if r.presence != nil {
		r.presence.Joined(roomID, c.id, displayName)
	}
	return nil
}

// Remove forgets a terminated connection. A joined connection leaves its
// room: the room is discarded when it becomes empty, otherwise the remaining
// members are told. An unjoined one is dropped from the pool. The outbound
// queue is closed before Remove returns and nothing is enqueued on it
// afterwards. This is the only way out of a room.
func (r *Registry) Remove(c *Connection) {
	r.mu.Lock()
	if c.closed {
		r.mu.Unlock()
		return
	}

	var (
		roomID string
		left   bool
	)
	if c.joined {
		roomID, left = r.leaveLocked(c)
	} else if r.unjoined[c.id] == c {
		delete(r.unjoined, c.id)
	} else {
		log.Error().Str("module", "signaling.registry").Str("uuid", c.id).Msg("connection not found in unjoined pool")
	}
	if r.live[c.id] == c {
		delete(r.live, c.id)
	}
	c.close()
	r.mu.Unlock()

	log.Info().Str("module", "signaling.registry").Str("uuid", c.id).Str("room", roomID).Msg("connection removed")

	if left && r.presence != nil {
		r.presence.Left(roomID, c.id)
	}
}

// leaveLocked reports whether c was found in its room. A missing entry is an
// internal fault: it is logged and nothing else changes.
func (r *Registry) leaveLocked(c *Connection) (roomID string, ok bool) {
	roomID = c.roomID
	members, exists := r.rooms[roomID]
	if !exists {
		log.Error().Str("module", "signaling.registry").Str("room", roomID).Str("uuid", c.id).Msg("room missing for joined connection")
		return roomID, false
	}

	idx := -1
	for i, m := range members {
		if m == c {
			idx = i
			break
		}
	}
	if idx < 0 {
		log.Error().Str("module", "signaling.registry").Str("room", roomID).Str("uuid", c.id).Msg("connection not found in room member list")
		return roomID, false
	}

	members = append(members[:idx:idx], members[idx+1:]...)
	if len(members) == 0 {
		delete(r.rooms, roomID)
		log.Info().Str("module", "signaling.registry").Str("room", roomID).Msg("removed empty room")
		return roomID, true
	}
	r.rooms[roomID] = members

	data, err := json.Marshal(models.UserLeftMessage{UserLeft: c.id})
	if err != nil {
		log.Error().Err(err).Str("module", "signaling.registry").Msg("encode leave announcement")
		return roomID, true
	}
	r.broadcastLocked(roomID, data)
	return roomID, true
}

// FindByIdentity returns the member of roomID with the given identity.
func (r *Registry) FindByIdentity(roomID, id string) *Connection {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findLocked(roomID, id)
}

func (r *Registry) findLocked(roomID, id string) *Connection {
	for _, m := range r.rooms[roomID] {
		if m.id == id {
			return m
		}
	}
	return nil
}

// Forward enqueues payload for the member of roomID named id. It reports
// whether such a member exists.
func (r *Registry) Forward(roomID, id string, payload []byte) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	dst := r.findLocked(roomID, id)
	if dst == nil {
		return false
	}
	dst.enqueue(payload)
	return true
}

// Broadcast sends payload to every current member of roomID.
func (r *Registry) Broadcast(roomID string, payload []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.broadcastLocked(roomID, payload)
}

// broadcastLocked is how join and leave announcements reach a room.
func (r *Registry) broadcastLocked(roomID string, payload []byte) {
	for _, m := range r.rooms[roomID] {
		m.enqueue(payload)
	}
}

// Snapshot returns the membership of roomID in join order.
func (r *Registry) Snapshot(roomID string) (models.RoomInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[roomID]
	if !ok {
		return models.RoomInfo{}, false
	}
	info := models.RoomInfo{
		ID:          roomID,
		MemberCount: len(members),
		Members:     make([]models.MemberInfo, 0, len(members)),
	}
	for _, m := range members {
		info.Members = append(info.Members, models.MemberInfo{UUID: m.id, DisplayName: m.displayName})
	}
	return info, true
}

func (r *Registry) Stats() models.Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	return models.Stats{
		Rooms:       len(r.rooms),
		Connections: len(r.live),
		Unjoined:    len(r.unjoined),
	}
}
