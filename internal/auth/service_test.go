package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/beamchat/beamchat-server/internal/store/sqlite"
)

func newTestAuthService(t *testing.T) *Service {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	jwtConfig := &JWTConfig{
		Secret:   []byte("test-secret-change-me"),
		Issuer:   "test",
		Audience: "test",
		TTL:      24 * time.Hour,
	}

	return NewService(st, jwtConfig)
}

func TestSignup_RejectsInvalidInput(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	if _, _, err := svc.Signup(ctx, "ab", "ab@example.com", "password123"); !errors.Is(err, ErrInvalidUsername) {
		t.Fatalf("expected ErrInvalidUsername, got %v", err)
	}

	// Validated after trimming whitespace.
	if _, _, err := svc.Signup(ctx, " ab ", "ab@example.com", "password123"); !errors.Is(err, ErrInvalidUsername) {
		t.Fatalf("expected ErrInvalidUsername, got %v", err)
	}

	if _, _, err := svc.Signup(ctx, "alice", "not-an-email", "password123"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}

	if _, _, err := svc.Signup(ctx, "alice", "alice@example.com", "12345"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
}

func TestSignup_ConflictReasons(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	user, token, err := svc.Signup(ctx, " alice ", "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("expected signup success, got %v", err)
	}
	if token == "" {
		t.Fatalf("expected non-empty token")
	}
	if user.Username != "alice" {
		t.Fatalf("expected trimmed username, got %q", user.Username)
	}

	if _, _, err := svc.Signup(ctx, "alice", "other@example.com", "password123"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}

	if _, _, err := svc.Signup(ctx, "bob", "alice@example.com", "password123"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	created, _, err := svc.Signup(ctx, "alice", "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	user, err := svc.Authenticate(ctx, "alice", "password123")
	if err != nil {
		t.Fatalf("expected authentication success, got %v", err)
	}
	if user.ID != created.ID {
		t.Fatalf("id mismatch: got %d want %d", user.ID, created.ID)
	}

	if _, err := svc.Authenticate(ctx, "alice", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	if _, err := svc.Authenticate(ctx, "nobody", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestResume_RequiresJointMatch(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	created, _, err := svc.Signup(ctx, "alice", "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	user, err := svc.Resume(ctx, "alice", created.ID)
	if err != nil {
		t.Fatalf("expected resume success, got %v", err)
	}
	if user.Username != "alice" {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, err := svc.Resume(ctx, "mallory", created.ID); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials on username mismatch, got %v", err)
	}

	if _, err := svc.Resume(ctx, "alice", created.ID+100); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials on unknown id, got %v", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	user, token, err := svc.Signup(ctx, "alice", "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.UserID != user.ID || claims.Username != "alice" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, err := svc.ValidateToken(token + "x"); err == nil {
		t.Fatalf("expected error for tampered token")
	}
}
