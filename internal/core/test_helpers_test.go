package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/beamchat/beamchat-server/internal/auth"
	"github.com/beamchat/beamchat-server/internal/store"
)

// fakeIdentity serves a fixed user set without touching bcrypt or a DB.
type fakeIdentity struct {
	mu    sync.Mutex
	users map[string]*store.User // username -> user, password equals "pw-"+username
	err   error                  // non-nil simulates a store failure
}

func newFakeIdentity(usernames ...string) *fakeIdentity {
	users := make(map[string]*store.User, len(usernames))
	for i, name := range usernames {
		users[name] = &store.User{ID: int64(i + 1), Username: name, Email: name + "@example.com"}
	}
	return &fakeIdentity{users: users}
}

func (f *fakeIdentity) Authenticate(_ context.Context, username, password string) (*store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.users[username]
	if !ok || password != "pw-"+username {
		return nil, auth.ErrInvalidCredentials
	}
	return user, nil
}

func (f *fakeIdentity) Resume(_ context.Context, username string, userID int64) (*store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.users[username]
	if !ok || user.ID != userID {
		return nil, auth.ErrInvalidCredentials
	}
	return user, nil
}

// fakeMessageLog is an in-memory message store.
type fakeMessageLog struct {
	mu       sync.Mutex
	messages []*store.Message
	nextID   int64
	saveErr  error
	fetchErr error
}

func newFakeMessageLog() *fakeMessageLog {
	return &fakeMessageLog{nextID: 1}
}

func (f *fakeMessageLog) SaveMessage(_ context.Context, msg *store.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	msg.ID = f.nextID
	f.nextID++
	stored := *msg
	f.messages = append(f.messages, &stored)
	return nil
}

func (f *fakeMessageLog) RecentMessages(_ context.Context, limit int) ([]*store.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	// newest-first
	var recent []*store.Message
	for i := len(f.messages) - 1; i >= 0 && len(recent) < limit; i-- {
		recent = append(recent, f.messages[i])
	}
	return recent, nil
}

var errStoreDown = errors.New("store unavailable")

func newTestHub(identity IdentityService, messages store.MessageStore) *Hub {
	logger := zerolog.Nop()
	return NewHub(identity, messages, 50, &logger)
}

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

func mustNoEvent(t *testing.T, ch <-chan *Event) {
	t.Helper()

	select {
	case ev := <-ch:
		t.Fatalf("expected no event, got kind %v", ev.Kind)
	case <-time.After(100 * time.Millisecond):
	}
}

func drainEvents(ch <-chan *Event) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}
