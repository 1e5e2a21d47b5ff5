package signaling

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mossy-p/roomrelay/internal/models"
	"github.com/mossy-p/roomrelay/internal/roomid"
)

// Router classifies inbound frames. The first frame of a connection must be
// a join request; every later frame is a relay instruction for one member of
// the sender's room. Frames of one connection must be handled sequentially.
type Router struct {
	registry *Registry
}

func NewRouter(registry *Registry) *Router {
	return &Router{registry: registry}
}

// Handle processes one text frame from c. A non-nil error means the
// connection violated the protocol and must be closed.
func (rt *Router) Handle(c *Connection, frame []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(frame, &fields); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if fields == nil {
		return fmt.Errorf("%w: not a JSON object", ErrMalformed)
	}

	if !c.Joined() {
		return rt.join(c, fields)
	}
	rt.relay(c, fields)
	return nil
}

func (rt *Router) join(c *Connection, fields map[string]json.RawMessage) error {
	var req models.JoinRequest
	if err := decodeField(fields, models.FieldRoomID, &req.RoomID); err != nil {
		return err
	}
	if err := decodeField(fields, models.FieldDisplayName, &req.DisplayName); err != nil {
		return err
	}
	if req.RoomID == nil {
		return ErrMissingRoomID
	}
	if req.DisplayName == nil {
		return ErrMissingDisplayName
	}
	if err := roomid.Validate(*req.RoomID); err != nil {
		return fmt.Errorf("join: %w", err)
	}
	return rt.registry.Join(*req.RoomID, c, *req.DisplayName)
}

func (rt *Router) relay(c *Connection, fields map[string]json.RawMessage) {
	var dst string
	if raw, ok := fields[models.FieldDestination]; ok {
		if err := json.Unmarshal(raw, &dst); err != nil {
			dst = ""
		}
	}
	if dst == "" {
		log.Warn().Str("module", "signaling.router").Str("uuid", c.ID()).Str("room", c.RoomID()).Msg("relay message without destination, dropping")
		return
	}

	source, err := json.Marshal(c.ID())
	if err != nil {
		log.Error().Err(err).Str("module", "signaling.router").Msg("encode source")
		return
	}
	name, err := json.Marshal(c.DisplayName())
	if err != nil {
		log.Error().Err(err).Str("module", "signaling.router").Msg("encode displayname")
		return
	}
	fields[models.FieldSource] = source
	fields[models.FieldDisplayName] = name

	data, err := json.Marshal(fields)
	if err != nil {
		log.Error().Err(err).Str("module", "signaling.router").Str("uuid", c.ID()).Msg("encode relay message")
		return
	}

	if !rt.registry.Forward(c.RoomID(), dst, data) {
		log.Warn().Str("module", "signaling.router").Str("uuid", c.ID()).Str("room", c.RoomID()).
			Str("destination", dst).Msg("destination not found in room")
	}
}

// decodeField decodes fields[key] into v when present. A present field of
// the wrong type is malformed.
func decodeField(fields map[string]json.RawMessage, key string, v any) error {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: field %q: %v", ErrMalformed, key, err)
	}
	return nil
}
