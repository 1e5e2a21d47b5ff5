package models

// Field names used on the wire. Envelopes carry no type or version field;
// the shape of a message determines what it means.
const (
	FieldUUID        = "uuid"
	FieldRoomID      = "roomid"
	FieldDisplayName = "displayname"
	FieldUserJoined  = "userjoined"
	FieldUserLeft    = "userleft"
	FieldDestination = "destination"
	FieldSource      = "source"
)

// IdentityMessage is sent once, as the first frame on every new connection.
type IdentityMessage struct {
	UUID string `json:"uuid"`
}

// JoinRequest is the first message a client must send.
type JoinRequest struct {
	RoomID      *string `json:"roomid"`
	DisplayName *string `json:"displayname"`
}

// UserJoinedMessage is broadcast to every member of a room, joiner included.
type UserJoinedMessage struct {
	UserJoined  string `json:"userjoined"`
	DisplayName string `json:"displayname"`
}

// UserLeftMessage is broadcast to the remaining members of a room.
type UserLeftMessage struct {
	UserLeft string `json:"userleft"`
}
