package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/daap14/roleassign/internal/user"
)

// ErrInvalidKey is returned when the provided API key does not match any user.
var ErrInvalidKey = errors.New("invalid API key")

const (
	keyPrefix    = "ra_"
	keyPrefixLen = 8
)

// Service provides authentication operations.
type Service struct {
	users      user.Repository
	directory  *user.Service
	bcryptCost int
}

// NewService creates a new auth Service. New accounts go through directory so
// that their creation is announced like any other.
func NewService(directory *user.Service, bcryptCost int) *Service {
	return &Service{
		users:      directory.Repository(),
		directory:  directory,
		bcryptCost: bcryptCost,
	}
}

// GenerateKey creates a new API key. Returns the raw key, its prefix (first 8 chars),
// and the bcrypt hash. The raw key is: 32 random bytes -> base64url -> prepend "ra_".
func (s *Service) GenerateKey() (rawKey, prefix, hash string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", "", fmt.Errorf("generating random bytes: %w", err)
	}

	rawKey = keyPrefix + base64.RawURLEncoding.EncodeToString(b)
	prefix = rawKey[:keyPrefixLen]

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(rawKey), s.bcryptCost)
	if err != nil {
		return "", "", "", fmt.Errorf("hashing key: %w", err)
	}
	hash = string(hashBytes)

	return rawKey, prefix, hash, nil
}

// Authenticate resolves a raw API key to an Identity. It extracts the prefix,
// looks up candidates, and bcrypt-compares each one.
func (s *Service) Authenticate(ctx context.Context, rawKey string) (*Identity, error) {
	if len(rawKey) < keyPrefixLen {
		return nil, ErrInvalidKey
	}

	candidates, err := s.users.FindByAPIKeyPrefix(ctx, rawKey[:keyPrefixLen])
	if err != nil {
		return nil, fmt.Errorf("finding users by prefix: %w", err)
	}

	for _, u := range candidates {
		if u.ApiKeyHash == nil {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(*u.ApiKeyHash), []byte(rawKey)) == nil {
			return &Identity{UserID: u.ID, Email: u.Email, IsStaff: u.IsStaff}, nil
		}
	}

	return nil, ErrInvalidKey
}

// IssueKey generates a fresh API key for an existing user, replacing any
// previous one. The raw key is returned once and never stored.
func (s *Service) IssueKey(ctx context.Context, userID uuid.UUID) (string, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return "", err
	}

	rawKey, prefix, hash, err := s.GenerateKey()
	if err != nil {
		return "", err
	}

	if err := s.users.SetAPIKey(ctx, userID, prefix, hash); err != nil {
		return "", fmt.Errorf("storing api key: %w", err)
	}

	slog.Info("issued api key", "userId", userID, "prefix", prefix)
	return rawKey, nil
}

// BootstrapAdmin creates the initial staff user if the users table is empty.
// Returns the raw API key (only displayed once). If users already exist, returns empty string.
func (s *Service) BootstrapAdmin(ctx context.Context, email string) (string, error) {
	count, err := s.users.CountAll(ctx)
	if err != nil {
		return "", fmt.Errorf("counting users: %w", err)
	}

	if count > 0 {
		return "", nil
	}

	rawKey, prefix, hash, err := s.GenerateKey()
	if err != nil {
		return "", fmt.Errorf("generating admin key: %w", err)
	}

	admin := &user.User{
		Email:        email,
		IsStaff:      true,
		ApiKeyPrefix: &prefix,
		ApiKeyHash:   &hash,
	}

	if err := s.directory.Create(ctx, admin); err != nil {
		return "", fmt.Errorf("creating admin: %w", err)
	}

	slog.Info("bootstrapped admin user", "email", email, "prefix", prefix)

	return rawKey, nil
}
