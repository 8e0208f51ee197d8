package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/daap14/roleassign/internal/event"
)

// Service is the single entry point for creating users. Every insert it
// performs is announced with an event.UserCreated.
type Service struct {
	repo   Repository
	events event.Publisher
}

// NewService creates a new user Service.
func NewService(repo Repository, events event.Publisher) *Service {
	return &Service{repo: repo, events: events}
}

// Repository returns the underlying repository for read paths.
func (s *Service) Repository() Repository {
	return s.repo
}

// Create persists a user built by the caller. Username defaults to the local
// part of the email.
func (s *Service) Create(ctx context.Context, u *User) error {
	if u.Username == "" {
		u.Username = UsernameFromEmail(u.Email)
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return err
	}

	s.announce(ctx, u)
	return nil
}

// GetOrCreate resolves a user by email, creating a credential-less account
// when none exists. The boolean reports whether this call created the user.
// A concurrent insert of the same email is resolved by reading the winner's
// row once.
func (s *Service) GetOrCreate(ctx context.Context, email string) (*User, bool, error) {
	existing, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, false, fmt.Errorf("looking up user: %w", err)
	}

	u := &User{Email: email, Username: UsernameFromEmail(email)}
	if err := s.repo.Create(ctx, u); err != nil {
		if !errors.Is(err, ErrDuplicateEmail) {
			return nil, false, fmt.Errorf("creating user: %w", err)
		}
		winner, err := s.repo.GetByEmail(ctx, email)
		if err != nil {
			return nil, false, fmt.Errorf("re-reading user after conflict: %w", err)
		}
		return winner, false, nil
	}

	slog.Info("created user", "email", email)
	s.announce(ctx, u)
	return u, true, nil
}

func (s *Service) announce(ctx context.Context, u *User) {
	if s.events == nil {
		return
	}
	s.events.Publish(ctx, event.UserCreated{
		UserID:    u.ID,
		Email:     u.Email,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	})
}
