package core

import "github.com/beamchat/beamchat-server/internal/store"

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventAuthError signals a failed session resume.
	EventAuthError EventKind = iota
	// EventLoginError signals a failed credential login.
	EventLoginError
	// EventLoginSuccess acknowledges a credential login to the caller.
	EventLoginSuccess
	// EventUserConnected announces a user coming online to other connections.
	EventUserConnected
	// EventUserDisconnected announces a user going offline to other connections.
	EventUserDisconnected
	// EventOnlineUsers delivers the full online-usernames snapshot.
	EventOnlineUsers
	// EventLoadMessages delivers message history to a newly authenticated connection.
	EventLoadMessages
	// EventMessageStored acknowledges a persisted message to its sender.
	EventMessageStored
	// EventMessageError tells the sender a message could not be persisted.
	EventMessageError
	// EventChatMessage carries a chat message to every other connection.
	EventChatMessage
	// EventLogoutSuccess acknowledges an explicit logout to the caller.
	EventLogoutSuccess
)

// Event is sent to clients to describe what happened in the system.
// Which fields are set depends on Kind.
type Event struct {
	Kind EventKind

	// Reason for EventAuthError, EventLoginError, EventMessageError.
	Reason string

	// User for EventUserConnected / EventUserDisconnected.
	User string

	// Username and UserID for EventLoginSuccess.
	Username string
	UserID   int64

	// Users for EventOnlineUsers, in registry insertion order.
	Users []string

	// Message for EventChatMessage and EventMessageStored.
	Message *store.Message

	// Messages for EventLoadMessages, ordered oldest-first.
	Messages []*store.Message
}
