package signaling

import (
	"github.com/rs/zerolog/log"
)

// DefaultSendBuffer is the outbound queue depth used when none is given.
const DefaultSendBuffer = 256

// Connection is the server-side record of one accepted transport session.
//
// The identity is fixed at construction. Room and display name are written
// once, by Registry.Join, under the registry lock. The outbound queue is
// written only under the registry lock (or before the connection has been
// registered) and is closed by Registry.Remove, so the transport's write
// loop sees a closed channel exactly when the registry has forgotten it.
type Connection struct {
	id   string
	send chan []byte

	roomID      string
	displayName string
	joined      bool
	closed      bool
}

// NewConnection creates an unjoined connection with the given identity.
// A non-positive buffer selects DefaultSendBuffer.
func NewConnection(id string, buffer int) *Connection {
	if buffer <= 0 {
		buffer = DefaultSendBuffer
	}
	return &Connection{
		id:   id,
		send: make(chan []byte, buffer),
	}
}

func (c *Connection) ID() string { return c.id }

// Outbound is the queue of encoded frames waiting to be written.
func (c *Connection) Outbound() <-chan []byte { return c.send }

// RoomID returns the joined room, or "" before joining. Safe to call from
// the goroutine that drives the router for this connection.
func (c *Connection) RoomID() string { return c.roomID }

func (c *Connection) DisplayName() string { return c.displayName }

func (c *Connection) Joined() bool { return c.joined }

// enqueue never blocks. A full queue drops the frame.
func (c *Connection) enqueue(data []byte) bool {
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		log.Warn().Str("module", "signaling").Str("uuid", c.id).Msg("outbound queue full, dropping frame")
		return false
	}
}

func (c *Connection) close() {
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}
