package models

// MemberInfo describes one joined connection.
type MemberInfo struct {
	UUID        string `json:"uuid"`
	DisplayName string `json:"displayname"`
}

// RoomInfo is a point-in-time view of a room's membership, in join order.
type RoomInfo struct {
	ID          string       `json:"id"`
	MemberCount int          `json:"memberCount"`
	Members     []MemberInfo `json:"members"`
}

// Stats summarises the registry.
type Stats struct {
	Rooms       int `json:"rooms"`
	Connections int `json:"connections"`
	Unjoined    int `json:"unjoined"`
}
