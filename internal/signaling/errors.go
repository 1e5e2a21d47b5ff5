package signaling

import "errors"

// Transport violations. Fatal to the connection.
var (
	ErrBinaryFrame = errors.New("binary frames are not supported")
)

// Protocol errors. Fatal to the connection; nothing is reported to the client.
var (
	ErrMalformed          = errors.New("malformed message")
	ErrMissingRoomID      = errors.New("join request has no roomid")
	ErrMissingDisplayName = errors.New("join request has no displayname")
	ErrAlreadyJoined      = errors.New("connection already joined a room")
)

// Registry misuse.
var (
	ErrDuplicateIdentity = errors.New("identity already registered")
	ErrClosed            = errors.New("connection closed")
)
