package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/daap14/roleassign/internal/assignment"
	"github.com/daap14/roleassign/internal/auth"
	"github.com/daap14/roleassign/internal/event"
	"github.com/daap14/roleassign/internal/role"
	"github.com/daap14/roleassign/internal/user"
)

// AssignmentDetail is an assignment with its role resolved.
type AssignmentDetail struct {
	assignment.Assignment
	Role role.Role
}

// Revocation is the outcome of RevokeAssignment.
type Revocation struct {
	Assignment assignment.Assignment
	Role       role.Role
	User       user.User
}

// RolesForUser returns the active roles of the user with the given email.
// Returns user.ErrUserNotFound when no such user exists.
func (s *Service) RolesForUser(ctx context.Context, email string) (*user.User, []assignment.RoleView, error) {
	u, err := s.users.Repository().GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}

	views, err := s.ledger.ListRoleViews(ctx, u.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("listing roles for user: %w", err)
	}
	return u, views, nil
}

// AssignmentsByEmail returns the active assignments of the user with the
// given email.
func (s *Service) AssignmentsByEmail(ctx context.Context, email string) (*user.User, []AssignmentDetail, error) {
	u, err := s.users.Repository().GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}

	details, err := s.details(ctx, u.ID, assignment.ListFilter{ActiveOnly: true})
	if err != nil {
		return nil, nil, err
	}
	return u, details, nil
}

// AssignmentsForUser returns every assignment of userID, active or not.
// Non-staff requesters may only read their own.
func (s *Service) AssignmentsForUser(ctx context.Context, userID uuid.UUID, requester *auth.Identity) ([]AssignmentDetail, error) {
	if requester == nil || (!requester.IsStaff && requester.UserID != userID) {
		return nil, ErrForbidden
	}

	if _, err := s.users.Repository().GetByID(ctx, userID); err != nil {
		return nil, err
	}

	return s.details(ctx, userID, assignment.ListFilter{})
}

// AvailableRoles returns the roles that can be assigned.
func (s *Service) AvailableRoles(ctx context.Context) ([]role.Role, error) {
	roles, err := s.roles.List(ctx, role.ListFilter{ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("listing active roles: %w", err)
	}
	return roles, nil
}

// RevokeAssignment deactivates an assignment on behalf of actor. Assignments
// of other users are reported as not found unless actor is staff. Revoking an
// inactive assignment returns it unchanged.
func (s *Service) RevokeAssignment(ctx context.Context, id uuid.UUID, actor *auth.Identity) (*Revocation, error) {
	current, err := s.ledger.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor == nil || (!actor.IsStaff && actor.UserID != current.UserID) {
		return nil, assignment.ErrAssignmentNotFound
	}

	actorID := actor.UserID
	revoked, err := s.ledger.Revoke(ctx, id, &actorID, s.now())
	if err != nil {
		return nil, fmt.Errorf("revoking assignment: %w", err)
	}

	ro, err := s.roles.GetByID(ctx, revoked.RoleID)
	if err != nil {
		return nil, fmt.Errorf("loading revoked role: %w", err)
	}
	u, err := s.users.Repository().GetByID(ctx, revoked.UserID)
	if err != nil {
		return nil, fmt.Errorf("loading revoked user: %w", err)
	}

	if current.IsActive {
		slog.Info("revoked role", "role", ro.Name, "email", u.Email, "revokedBy", actorID)
		if s.events != nil {
			s.events.Publish(ctx, event.AssignmentRevoked{
				AssignmentID: revoked.ID,
				UserID:       revoked.UserID,
				RoleID:       revoked.RoleID,
				RevokedBy:    revoked.RevokedBy,
				RevokedAt:    *revoked.RevokedAt,
			})
		}
	}

	return &Revocation{Assignment: *revoked, Role: *ro, User: *u}, nil
}

func (s *Service) details(ctx context.Context, userID uuid.UUID, filter assignment.ListFilter) ([]AssignmentDetail, error) {
	rows, err := s.ledger.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("listing assignments: %w", err)
	}

	cache := make(map[uuid.UUID]*role.Role)
	details := make([]AssignmentDetail, 0, len(rows))
	for _, a := range rows {
		ro, ok := cache[a.RoleID]
		if !ok {
			ro, err = s.roles.GetByID(ctx, a.RoleID)
			if err != nil {
				return nil, fmt.Errorf("loading role %s: %w", a.RoleID, err)
			}
			cache[a.RoleID] = ro
		}
		details = append(details, AssignmentDetail{Assignment: a, Role: *ro})
	}
	return details, nil
}
