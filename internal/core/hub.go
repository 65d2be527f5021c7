package core

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/beamchat/beamchat-server/internal/auth"
	"github.com/beamchat/beamchat-server/internal/store"
)

// IdentityService is the slice of the auth layer the hub needs to drive
// connection logins.
type IdentityService interface {
	// Authenticate validates a username/password pair.
	Authenticate(ctx context.Context, username, password string) (*store.User, error)

	// Resume verifies a resumed session matching both username and user ID.
	Resume(ctx context.Context, username string, userID int64) (*store.User, error)
}

// Hub coordinates connection lifecycles and message broadcast. It owns the
// session registry and every client's session record; transports register
// clients and dispatch their inbound commands.
//
// Each command is processed on its connection's own goroutine, so events
// from one connection stay ordered while store I/O from different
// connections interleaves freely. Shared state is touched only under the
// hub lock, and always re-checked after a store call in case the
// connection disconnected while the call was in flight.
type Hub struct {
	identity     IdentityService
	messages     store.MessageStore
	historyLimit int
	log          *zerolog.Logger

	mu       sync.RWMutex
	clients  map[string]*Client
	registry *Registry
}

// NewHub creates a hub backed by the given collaborators.
func NewHub(identity IdentityService, messages store.MessageStore, historyLimit int, logger *zerolog.Logger) *Hub {
	return &Hub{
		identity:     identity,
		messages:     messages,
		historyLimit: historyLimit,
		log:          logger,
		clients:      make(map[string]*Client),
		registry:     NewRegistry(),
	}
}

// Registry exposes the online-users registry, read-only by convention.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// Register adds a new, unauthenticated connection.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c.session.State = StateUnauthenticated
	h.clients[c.ID] = c

	h.log.Debug().Str("conn_id", c.ID).Msg("connection registered")
}

// Disconnect removes a connection at transport close. An authenticated
// connection leaves the registry and triggers presence broadcasts; an
// unauthenticated one disappears without any observable side effect.
func (h *Hub) Disconnect(c *Client) {
	h.mu.Lock()
	if _, live := h.clients[c.ID]; !live {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.ID)

	wasAuthenticated := c.session.State == StateAuthenticated
	username := c.session.Username
	c.session.terminate()

	var online []string
	if wasAuthenticated {
		h.registry.Remove(c.ID)
		online = h.registry.Values()
	}
	h.mu.Unlock()

	if !wasAuthenticated {
		h.log.Debug().Str("conn_id", c.ID).Msg("connection closed")
		return
	}

	h.log.Info().Str("conn_id", c.ID).Str("username", username).Msg("user disconnected")
	h.broadcastExcept(c, &Event{Kind: EventUserDisconnected, User: username})
	h.broadcastAll(&Event{Kind: EventOnlineUsers, Users: online})
}

// Dispatch runs one inbound command for a connection.
func (h *Hub) Dispatch(ctx context.Context, c *Client, cmd *Command) {
	switch cmd.Kind {
	case CommandAutoLogin:
		h.handleAutoLogin(ctx, c, cmd.Username, cmd.UserID)
	case CommandLogin:
		h.handleLogin(ctx, c, cmd.Username, cmd.Password)
	case CommandSendMessage:
		h.handleSendMessage(ctx, c, cmd.Body)
	case CommandLogout:
		h.handleLogout(c)
	}
}

// handleAutoLogin resumes a session when a record matches both username and
// user ID. Any failure leaves the connection unauthenticated and free to
// retry.
func (h *Hub) handleAutoLogin(ctx context.Context, c *Client, username string, userID int64) {
	if state := h.sessionState(c); state != StateUnauthenticated {
		h.send(c, &Event{Kind: EventAuthError, Reason: ReasonAlreadyAuthenticated})
		return
	}

	user, err := h.identity.Resume(ctx, username, userID)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.send(c, &Event{Kind: EventAuthError, Reason: ReasonInvalidSession})
			return
		}
		h.log.Error().Err(err).Str("conn_id", c.ID).Str("username", username).Msg("auto-login store failure")
		h.send(c, &Event{Kind: EventAuthError, Reason: ReasonInternalError})
		return
	}

	h.establishSession(ctx, c, user, false)
}

// handleLogin authenticates with credentials. On success the caller gets an
// explicit acknowledgment on top of the shared establish-session effects.
func (h *Hub) handleLogin(ctx context.Context, c *Client, username, password string) {
	if state := h.sessionState(c); state != StateUnauthenticated {
		h.send(c, &Event{Kind: EventLoginError, Reason: ReasonAlreadyAuthenticated})
		return
	}

	user, err := h.identity.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.send(c, &Event{Kind: EventLoginError, Reason: ReasonInvalidCredentials})
			return
		}
		h.log.Error().Err(err).Str("conn_id", c.ID).Str("username", username).Msg("login store failure")
		h.send(c, &Event{Kind: EventLoginError, Reason: ReasonInternalError})
		return
	}

	h.establishSession(ctx, c, user, true)
}

// establishSession is the single path both login flavors converge on:
// bind the identity, update the registry, announce presence, push history.
func (h *Hub) establishSession(ctx context.Context, c *Client, user *store.User, ack bool) {
	h.mu.Lock()
	if _, live := h.clients[c.ID]; !live {
		// The connection went away while the store call was in flight;
		// discard the late success.
		h.mu.Unlock()
		h.log.Debug().Str("conn_id", c.ID).Str("username", user.Username).Msg("discarding login for closed connection")
		return
	}
	c.session.establish(user.Username, user.ID)
	h.registry.Put(c.ID, user.Username)
	online := h.registry.Values()
	h.mu.Unlock()

	h.log.Info().Str("conn_id", c.ID).Str("username", user.Username).Msg("user authenticated")

	if ack {
		h.send(c, &Event{Kind: EventLoginSuccess, Username: user.Username, UserID: user.ID})
	}
	h.broadcastExcept(c, &Event{Kind: EventUserConnected, User: user.Username})
	h.broadcastAll(&Event{Kind: EventOnlineUsers, Users: online})

	h.deliverHistory(ctx, c)
}

// deliverHistory pushes the most recent messages, oldest-first, to a newly
// authenticated connection. Fetch failures and empty history are skipped
// without signaling the client.
func (h *Hub) deliverHistory(ctx context.Context, c *Client) {
	recent, err := h.messages.RecentMessages(ctx, h.historyLimit)
	if err != nil {
		h.log.Warn().Err(err).Str("conn_id", c.ID).Msg("history fetch failed")
		return
	}
	if len(recent) == 0 {
		return
	}

	// newest-first from the store, delivered oldest-first
	history := make([]*store.Message, len(recent))
	for i, msg := range recent {
		history[len(recent)-1-i] = msg
	}

	if !h.isLive(c) {
		return
	}
	h.send(c, &Event{Kind: EventLoadMessages, Messages: history})
}

// handleLogout clears the authenticated identity and returns the connection
// to the unauthenticated state, ready for a fresh login. Ignored when the
// connection isn't authenticated.
func (h *Hub) handleLogout(c *Client) {
	h.mu.Lock()
	if c.session.State != StateAuthenticated {
		h.mu.Unlock()
		return
	}
	username := c.session.Username
	c.session.clear()
	h.registry.Remove(c.ID)
	online := h.registry.Values()
	h.mu.Unlock()

	h.log.Info().Str("conn_id", c.ID).Str("username", username).Msg("user logged out")

	h.broadcastExcept(c, &Event{Kind: EventUserDisconnected, User: username})
	h.broadcastAll(&Event{Kind: EventOnlineUsers, Users: online})
	h.send(c, &Event{Kind: EventLogoutSuccess})
}

// handleSendMessage validates, persists and fans out a chat message. A send
// from an unauthenticated connection is dropped without a signal.
func (h *Hub) handleSendMessage(ctx context.Context, c *Client, body string) {
	h.mu.RLock()
	state := c.session.State
	username := c.session.Username
	userID := c.session.UserID
	h.mu.RUnlock()

	if state != StateAuthenticated {
		h.log.Debug().Str("conn_id", c.ID).Msg("dropping message from unauthenticated connection")
		return
	}

	msg := &store.Message{
		UserID:    userID,
		Username:  username,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.messages.SaveMessage(ctx, msg); err != nil {
		h.log.Error().Err(err).Str("conn_id", c.ID).Str("username", username).Msg("message persist failed")
		h.send(c, &Event{Kind: EventMessageError, Reason: ReasonMessageNotStored})
		return
	}

	if !h.isLive(c) {
		return
	}
	h.send(c, &Event{Kind: EventMessageStored, Message: msg})
	h.broadcastExcept(c, &Event{Kind: EventChatMessage, Message: msg})
}

func (h *Hub) sessionState(c *Client) SessionState {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return c.session.State
}

func (h *Hub) isLive(c *Client) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, live := h.clients[c.ID]
	return live
}

// broadcastAll sends an event to every live connection.
func (h *Hub) broadcastAll(ev *Event) {
	for _, client := range h.snapshot() {
		h.send(client, ev)
	}
}

// broadcastExcept sends an event to every live connection but the excluded
// one, typically the originator.
func (h *Hub) broadcastExcept(exclude *Client, ev *Event) {
	for _, client := range h.snapshot() {
		if client == exclude {
			continue
		}
		h.send(client, ev)
	}
}

func (h *Hub) snapshot() []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients := make([]*Client, 0, len(h.clients))
	for _, client := range h.clients {
		clients = append(clients, client)
	}
	return clients
}

// send queues an event without blocking; a slow consumer loses the event
// rather than stalling the sender.
func (h *Hub) send(c *Client, ev *Event) {
	select {
	case c.Events <- ev:
	default:
		h.log.Warn().Str("conn_id", c.ID).Int("kind", int(ev.Kind)).Msg("dropping event for slow consumer")
	}
}
