package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/beamchat/beamchat-server/internal/store"
)

var (
	// ErrInvalidCredentials is returned when username/password don't match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUsernameTaken is returned when registering with an existing username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrEmailTaken is returned when registering with an existing email.
	ErrEmailTaken = errors.New("email already taken")
	// ErrInvalidUsername is returned when username doesn't meet constraints.
	ErrInvalidUsername = errors.New("invalid username")
	// ErrInvalidEmail is returned when email doesn't meet constraints.
	ErrInvalidEmail = errors.New("invalid email")
	// ErrInvalidPassword is returned when password doesn't meet constraints.
	ErrInvalidPassword = errors.New("invalid password")
)

// Service provides authentication and signup operations on top of the
// identity store.
type Service struct {
	store     store.UserStore
	jwtConfig *JWTConfig
}

// NewService creates a new authentication service.
func NewService(userStore store.UserStore, jwtConfig *JWTConfig) *Service {
	return &Service{
		store:     userStore,
		jwtConfig: jwtConfig,
	}
}

// Signup creates a new user with a hashed password and returns the created
// record with a session token.
//
// Uniqueness is checked optimistically first so the caller gets a specific
// conflict reason; the store's unique constraints remain the source of
// truth when two signups race.
func (s *Service) Signup(ctx context.Context, username, email, password string) (*store.User, string, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if len(username) < 3 || len(username) > 32 {
		return nil, "", ErrInvalidUsername
	}
	if !strings.Contains(email, "@") {
		return nil, "", ErrInvalidEmail
	}
	if len(password) < 6 {
		return nil, "", ErrInvalidPassword
	}

	taken, err := s.store.UsernameExists(ctx, username)
	if err != nil {
		return nil, "", fmt.Errorf("check username: %w", err)
	}
	if taken {
		return nil, "", ErrUsernameTaken
	}

	taken, err = s.store.EmailExists(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, "", ErrEmailTaken
	}

	hashedPassword, err := HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, username, email, hashedPassword)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrUsernameTaken):
			return nil, "", ErrUsernameTaken
		case errors.Is(err, store.ErrEmailTaken):
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := GenerateToken(s.jwtConfig, user.ID, user.Username)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	return user, token, nil
}

// Authenticate validates a username/password pair and returns the matching
// user. Returns ErrInvalidCredentials both when the user is unknown and
// when the password doesn't match.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*store.User, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if errPwd := ComparePassword(user.PasswordHash, password); errPwd != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Resume verifies a resumed session: a user record must exist matching both
// the username and the id. Returns ErrInvalidCredentials on any mismatch.
func (s *Service) Resume(ctx context.Context, username string, userID int64) (*store.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if user.Username != username {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Login validates credentials and returns the user with a session token.
func (s *Service) Login(ctx context.Context, username, password string) (*store.User, string, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, "", err
	}

	token, err := GenerateToken(s.jwtConfig, user.ID, user.Username)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	return user, token, nil
}

// ValidateToken validates a JWT token and returns the claims.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	return ValidateToken(s.jwtConfig, tokenString)
}
