package core

// SessionState tracks where a connection is in its lifecycle.
type SessionState int

const (
	// StateUnauthenticated is the initial state of every connection.
	StateUnauthenticated SessionState = iota
	// StateAuthenticated means an identity is bound to the connection.
	StateAuthenticated
	// StateTerminated is terminal; the transport connection is gone.
	StateTerminated
)

func (s SessionState) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Session is the authenticated-identity binding attached to a connection.
// It is mutated only by the hub while holding the hub's lock.
type Session struct {
	State    SessionState
	Username string
	UserID   int64
}

func (s *Session) establish(username string, userID int64) {
	s.State = StateAuthenticated
	s.Username = username
	s.UserID = userID
}

func (s *Session) clear() {
	s.State = StateUnauthenticated
	s.Username = ""
	s.UserID = 0
}

func (s *Session) terminate() {
	s.State = StateTerminated
	s.Username = ""
	s.UserID = 0
}
