package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/beamchat/beamchat-server/internal/store"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateUserUniqueness(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "alice", "alice@example.com", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.ID == 0 || user.Username != "alice" || user.Email != "alice@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}

	_, err = s.CreateUser(ctx, "alice", "other@example.com", "hash")
	if !errors.Is(err, store.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}

	_, err = s.CreateUser(ctx, "bob", "alice@example.com", "hash")
	if !errors.Is(err, store.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestGetUserLookups(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateUser(ctx, "alice", "alice@example.com", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	byName, err := s.GetUserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("get by username: %v", err)
	}
	if byName.ID != created.ID {
		t.Fatalf("id mismatch: got %d want %d", byName.ID, created.ID)
	}

	byID, err := s.GetUserByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID.Username != "alice" {
		t.Fatalf("username mismatch: got %q", byID.Username)
	}

	if _, err := s.GetUserByUsername(ctx, "nobody"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	exists, err := s.UsernameExists(ctx, "alice")
	if err != nil || !exists {
		t.Fatalf("expected username to exist, got %v %v", exists, err)
	}
	exists, err = s.EmailExists(ctx, "missing@example.com")
	if err != nil || exists {
		t.Fatalf("expected email to be absent, got %v %v", exists, err)
	}
}

func TestRecentMessagesOrderAndLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "alice", "alice@example.com", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		msg := &store.Message{
			UserID:    user.ID,
			Username:  user.Username,
			Body:      fmt.Sprintf("m%d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := s.SaveMessage(ctx, msg); err != nil {
			t.Fatalf("save message %d: %v", i, err)
		}
		if msg.ID == 0 {
			t.Fatalf("expected assigned id for message %d", i)
		}
	}

	recent, err := s.RecentMessages(ctx, 5)
	if err != nil {
		t.Fatalf("recent messages: %v", err)
	}
	if len(recent) != 5 {
		t.Fatalf("expected 5 messages, got %d", len(recent))
	}
	// Newest first: m9..m5.
	for i, msg := range recent {
		want := fmt.Sprintf("m%d", 9-i)
		if msg.Body != want {
			t.Fatalf("expected %q at index %d, got %q", want, i, msg.Body)
		}
	}
}
