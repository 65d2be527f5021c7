package proto

import (
	"encoding/json"
	"time"
)

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeAutoLogin = "auto_login"
	InboundTypeLogin     = "login"
	InboundTypeSend      = "send_message"
	InboundTypeLogout    = "logout"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventAuthError        = "auth_error"
	EventLoginError       = "login_error"
	EventLoginSuccess     = "login_success"
	EventUserConnected    = "user_connected"
	EventUserDisconnected = "user_disconnected"
	EventOnlineUsers      = "online_users"
	EventLoadMessages     = "load_messages"
	EventMessageStored    = "message_stored"
	EventMessageError     = "message_error"
	EventChatMessage      = "chat_message"
	EventLogoutSuccess    = "logout_success"
)

// AutoLoginData resumes a previous session.
type AutoLoginData struct {
	Username string `json:"username"`
	UserID   int64  `json:"user_id"`
}

// LoginData authenticates with credentials.
type LoginData struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SendData is a chat message from the client.
type SendData struct {
	Body string `json:"body"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// LoginSuccessData acknowledges a credential login.
type LoginSuccessData struct {
	Username string `json:"username"`
	UserID   int64  `json:"user_id"`
}

// PresenceData announces a user joining or leaving.
type PresenceData struct {
	Username string `json:"username"`
}

// OnlineUsersData is the full online-usernames snapshot.
type OnlineUsersData struct {
	Users []string `json:"users"`
}

// MessageData is one chat message on the wire. Timestamps are RFC 3339.
type MessageData struct {
	ID        int64     `json:"id,omitempty"`
	Username  string    `json:"username"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageStoredData acknowledges a persisted message to its sender.
type MessageStoredData struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// LoadMessagesData delivers history, oldest-first.
type LoadMessagesData struct {
	Messages []MessageData `json:"messages"`
}

// ReasonData carries the failure reason for auth, login and message errors.
type ReasonData struct {
	Reason string `json:"reason"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
