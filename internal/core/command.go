package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandAutoLogin resumes a previous session by username and user ID.
	CommandAutoLogin CommandKind = iota
	// CommandLogin authenticates with username and password.
	CommandLogin
	// CommandSendMessage broadcasts a chat message.
	CommandSendMessage
	// CommandLogout clears the connection's authenticated identity.
	CommandLogout
)

// Command represents an action requested by a client.
type Command struct {
	Kind     CommandKind
	Username string
	UserID   int64
	Password string
	Body     string
}
