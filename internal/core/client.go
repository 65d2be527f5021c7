package core

// eventBuffer sizes the per-client outbound queue. Large enough to absorb
// a history push plus a burst of presence updates.
const eventBuffer = 64

// Client is one live transport connection as seen by the core layer.
// The session record is owned by the hub; transports only consume Events.
type Client struct {
	ID     string
	Events chan *Event

	session Session
}

// NewClient constructs a client with an initialized event channel.
func NewClient(id string) *Client {
	return &Client{
		ID:     id,
		Events: make(chan *Event, eventBuffer),
	}
}
