package signaling

import (
	"encoding/json"
	"sync"
	"testing"
)

func newTestConn(t *testing.T, r *Registry, id string) *Connection {
	t.Helper()
	c := NewConnection(id, 64)
	if err := r.Register(c); err != nil {
		t.Fatalf("register %s: %v", id, err)
	}
	return c
}

// drain returns every frame currently queued on c, decoded.
func drain(t *testing.T, c *Connection) []map[string]any {
	t.Helper()
	var out []map[string]any
	for {
		select {
		case data, ok := <-c.Outbound():
			if !ok {
				return out
			}
			var m map[string]any
			if err := json.Unmarshal(data, &m); err != nil {
				t.Fatalf("decode frame %q: %v", data, err)
			}
			out = append(out, m)
		default:
			return out
		}
	}
}

func joinRoom(t *testing.T, rt *Router, c *Connection, room, name string) {
	t.Helper()
	frame, _ := json.Marshal(map[string]string{"roomid": room, "displayname": name})
	if err := rt.Handle(c, frame); err != nil {
		t.Fatalf("join %s: %v", c.ID(), err)
	}
}

type presenceEvent struct {
	kind string
	room string
	id   string
	name string
}

type recordingPresence struct {
	mu     sync.Mutex
	events []presenceEvent
}

func (p *recordingPresence) Joined(roomID, id, displayName string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, presenceEvent{kind: "joined", room: roomID, id: id, name: displayName})
}

func (p *recordingPresence) Left(roomID, id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, presenceEvent{kind: "left", room: roomID, id: id})
}

func (p *recordingPresence) snapshot() []presenceEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]presenceEvent(nil), p.events...)
}
