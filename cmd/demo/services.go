package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/phrazzld/servo"
)

// User is a registered account.
type User struct {
	ID             uuid.UUID
	Email          string
	HashedPassword string
	CreatedAt      time.Time
}

var (
	errEmailTaken   = errors.New("email already registered")
	errUserNotFound = errors.New("user not found")
)

// userRegistry is an in-memory user store keyed by email.
type userRegistry struct {
	mu    sync.RWMutex
	users map[string]*User
}

func newUserRegistry() *userRegistry {
	return &userRegistry{users: make(map[string]*User)}
}

// Create stores a new user. Returns errEmailTaken when the email is already
// registered.
func (s *userRegistry) Create(_ context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[u.Email]; exists {
		return errEmailTaken
	}
	s.users[u.Email] = u
	return nil
}

// GetByEmail looks a user up by email. Returns errUserNotFound when absent.
func (s *userRegistry) GetByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[email]
	if !ok {
		return nil, errUserNotFound
	}
	return u, nil
}

// tokenIssuer signs HMAC-SHA256 access tokens.
type tokenIssuer struct {
	signingKey []byte
	lifetime   time.Duration
	timeFunc   func() time.Time // Injectable for testing
}

// accessClaims is the JWT claim set carried by issued tokens.
type accessClaims struct {
	UserID uuid.UUID `json:"uid"`
	jwt.RegisteredClaims
}

func newTokenIssuer(cfg AuthConfig) *tokenIssuer {
	return &tokenIssuer{
		signingKey: []byte(cfg.JWTSecret),
		lifetime:   time.Duration(cfg.TokenLifetimeMinutes) * time.Minute,
		timeFunc:   time.Now,
	}
}

// Issue creates a signed access token for the given user.
func (ti *tokenIssuer) Issue(userID uuid.UUID) (string, error) {
	now := ti.timeFunc()
	claims := accessClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.lifetime)),
			ID:        uuid.New().String(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// authResult is the captured value of the signup and login bodies.
type authResult struct {
	UserID uuid.UUID
	Token  string
}

// newSignupService defines the signup unit: validate the credentials, hash
// the password, store the user and issue a token. An already-registered
// email surfaces on the email attribute, so the handler can render it like
// any validation problem.
func newSignupService(registry *userRegistry, tokens *tokenIssuer, logger *slog.Logger) *servo.ServiceObject {
	return servo.NewServiceObject("signup_user", servo.WithLogger(logger)).
		Declare("email", "password").
		Validates("email", "required,email").
		Validates("password", "required,min=12,max=72").
		Perform(func(ctx context.Context, u *servo.Unit, _ servo.Callback) (any, error) {
			hashed, err := bcrypt.GenerateFromPassword([]byte(u.String("password")), bcrypt.DefaultCost)
			if err != nil {
				return nil, fmt.Errorf("failed to hash password: %w", err)
			}

			user := &User{
				ID:             uuid.New(),
				Email:          u.String("email"),
				HashedPassword: string(hashed),
				CreatedAt:      time.Now().UTC(),
			}
			if err := registry.Create(ctx, user); err != nil {
				if errors.Is(err, errEmailTaken) {
					return nil, &servo.Error{Attribute: "email", Message: "has already been taken"}
				}
				return nil, fmt.Errorf("failed to store user: %w", err)
			}

			token, err := tokens.Issue(user.ID)
			if err != nil {
				return nil, err
			}
			return authResult{UserID: user.ID, Token: token}, nil
		})
}

// invalidCredentials is recorded for every login failure mode, so responses
// do not reveal whether the email or the password was wrong.
func invalidCredentials() *servo.Error {
	return &servo.Error{Attribute: servo.BaseAttribute, Message: "invalid credentials"}
}

// newLoginService defines the login unit: look the user up and verify the
// password against the stored bcrypt hash.
func newLoginService(registry *userRegistry, tokens *tokenIssuer, logger *slog.Logger) *servo.ServiceObject {
	return servo.NewServiceObject("login_user", servo.WithLogger(logger)).
		Declare("email", "password").
		Validates("email", "required,email").
		Validates("password", "required").
		Perform(func(ctx context.Context, u *servo.Unit, _ servo.Callback) (any, error) {
			user, err := registry.GetByEmail(ctx, u.String("email"))
			if err != nil {
				return nil, invalidCredentials()
			}
			if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(u.String("password"))); err != nil {
				return nil, invalidCredentials()
			}

			token, err := tokens.Issue(user.ID)
			if err != nil {
				return nil, err
			}
			return authResult{UserID: user.ID, Token: token}, nil
		})
}
