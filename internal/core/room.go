package core

// Role is how a member participates in a room.
type Role string

const (
	RoleText  Role = "text"
	RoleVoice Role = "voice"
	RoleVideo Role = "video"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleText, RoleVoice, RoleVideo:
		return true
	}
	return false
}

// Member is one membership record inside a room.
type Member struct {
	ID   string
	Name string
	Role Role
}

// RoomID builds the composite room key used by clients, e.g. "math::general".
func RoomID(group, channel string) string {
	return group + "::" + channel
}

// Room groups clients subscribed to the same composite group::channel key.
// It lives only while it has members; the hub drops it once the last one
// leaves, so an absent room and an empty room are indistinguishable.
type Room struct {
	ID      string
	members map[*Client]Member
}

// NewRoom constructs a room with no members.
func NewRoom(id string) *Room {
	return &Room{
		ID:      id,
		members: make(map[*Client]Member),
	}
}

// Upsert inserts or replaces the membership record for c. A repeated join
// with the same connection never duplicates; it only refreshes name and role.
func (r *Room) Upsert(c *Client, m Member) {
	r.members[c] = m
}

// Remove deletes the membership record for c. Returns true if removed.
func (r *Room) Remove(c *Client) bool {
	if _, exists := r.members[c]; !exists {
		return false
	}
	delete(r.members, c)
	return true
}

// Members returns a snapshot of the current membership records. It is never
// nil, so an empty room serializes as an empty list rather than null.
func (r *Room) Members() []Member {
	out := make([]Member, 0, len(r.members))
	for _, m := range r.members {
		out = append(out, m)
	}
	return out
}

// Broadcast sends an event to every member connection.
func (r *Room) Broadcast(event *Event) {
	for c := range r.members {
		c.send(event)
	}
}

// Empty returns true if no members remain.
func (r *Room) Empty() bool {
	return len(r.members) == 0
}
