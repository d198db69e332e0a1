// Package session holds the authenticated principal: login, signup and
// logout round-trip through the user repository, and the resulting
// bearer session lives in the cache with an inactivity TTL that every
// authenticated request refreshes.
package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/crownvoyages/backoffice/internal/cache"
	"github.com/crownvoyages/backoffice/internal/model"
	"github.com/crownvoyages/backoffice/internal/repository"
)

// ErrInvalidCredentials is returned when the email/password pair does
// not match an account.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrSessionExpired is returned when a bearer token is well-formed but
// its session is gone, either logged out or idle past the window.
var ErrSessionExpired = errors.New("session expired")

// UserDirectory is the slice of the user repository the store needs.
type UserDirectory interface {
	ByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, name, email, passwordHash, role string) (*model.User, error)
}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// Credentials is what login and signup hand back to the client.
type Credentials struct {
	Token string    `json:"token"`
	User  Principal `json:"user"`
}

// Store issues and validates bearer sessions.
type Store struct {
	users  UserDirectory
	kv     cache.KV
	secret []byte
	ttl    time.Duration
}

func NewStore(users UserDirectory, kv cache.KV, secret string, ttl time.Duration) *Store {
	return &Store{users: users, kv: kv, secret: []byte(secret), ttl: ttl}
}

// Login verifies the password and opens a session.
func (s *Store) Login(ctx context.Context, email, password string) (*Credentials, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if HashPassword(password) != user.PasswordHash {
		return nil, ErrInvalidCredentials
	}
	return s.open(ctx, user)
}

// Signup creates an account and opens a session for it.
func (s *Store) Signup(ctx context.Context, req model.SignupRequest) (*Credentials, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("name, email and password are required")
	}
	if req.Role == "" {
		req.Role = "agent"
	}
	user, err := s.users.Create(ctx, req.Name, req.Email, HashPassword(req.Password), req.Role)
	if err != nil {
		return nil, err
	}
	return s.open(ctx, user)
}

// Logout drops the session behind the token. The reason is accepted for
// symmetry with automatic expiry logouts ("inactivity") but only the
// caller logs it.
func (s *Store) Logout(ctx context.Context, token, _reason string) error {
	sid, _, err := s.parse(token)
	if err != nil {
		return err
	}
	return s.kv.Del(ctx, s.key(sid))
}

// Authenticate validates a bearer token, refreshes the inactivity
// window and returns the principal.
func (s *Store) Authenticate(ctx context.Context, token string) (*Principal, error) {
	sid, _, err := s.parse(token)
	if err != nil {
		return nil, err
	}
	raw, err := s.kv.Get(ctx, s.key(sid))
	if err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return nil, ErrSessionExpired
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	var p Principal
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	// Qualifying activity pushes the expiry window forward.
	if err := s.kv.Expire(ctx, s.key(sid), s.ttl); err != nil && !errors.Is(err, cache.ErrMiss) {
		return nil, fmt.Errorf("refresh session: %w", err)
	}
	return &p, nil
}

func (s *Store) open(ctx context.Context, user *model.User) (*Credentials, error) {
	sid := uuid.New().String()
	p := Principal{UserID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role}
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	if err := s.kv.Set(ctx, s.key(sid), raw, s.ttl); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	claims := jwt.MapClaims{
		"jti": sid,
		"sub": user.ID,
		"iat": time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Credentials{Token: token, User: p}, nil
}

// parse validates the JWT signature and extracts the session id and
// subject.
func (s *Store) parse(tokenStr string) (sid, sub string, err error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", "", ErrSessionExpired
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", ErrSessionExpired
	}
	sid, _ = claims["jti"].(string)
	sub, _ = claims["sub"].(string)
	if sid == "" {
		return "", "", ErrSessionExpired
	}
	return sid, sub, nil
}

func (s *Store) key(sid string) string { return "session:" + sid }

// HashPassword hashes a password for storage and comparison.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
