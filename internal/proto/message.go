package proto

// Message type tags. The same tag is used in both directions where the
// protocol echoes a message back to clients.
const (
	TypeID             = "id"
	TypeUserList       = "userlist"
	TypeMessage        = "message"
	TypeUsername       = "username"
	TypeRejectUsername = "rejectusername"

	// Subprotocol is the websocket subprotocol offered during the handshake.
	Subprotocol = "json"
)

// Inbound is any message coming from a client. Pointer fields stay nil when
// the client omitted them, which lets the router tell "missing" from "empty".
type Inbound struct {
	Type string  `json:"type"`
	ID   *int64  `json:"id"`
	Text *string `json:"text,omitempty"`
	Name *string `json:"name,omitempty"`
}

// Identity is sent privately to a connection right after it is accepted.
type Identity struct {
	Type string `json:"type"`
	ID   int64  `json:"id"`
}

// UserList is the roster snapshot broadcast to every connection.
type UserList struct {
	Type  string   `json:"type"`
	Users []string `json:"users"`
}

// Chat is a public text message. Name is stamped by the server.
type Chat struct {
	Type string `json:"type"`
	ID   int64  `json:"id"`
	Text string `json:"text"`
	Name string `json:"name"`
}

// RejectUsername tells a client which name it actually got after a collision.
type RejectUsername struct {
	Type string `json:"type"`
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Username is the rename request a client sends.
type Username struct {
	Type string `json:"type"`
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// NewIdentity builds the id message for a freshly accepted connection.
func NewIdentity(id int64) Identity {
	return Identity{Type: TypeID, ID: id}
}

// NewUserList builds a roster message. A nil slice is encoded as [].
func NewUserList(users []string) UserList {
	if users == nil {
		users = []string{}
	}
	return UserList{Type: TypeUserList, Users: users}
}
