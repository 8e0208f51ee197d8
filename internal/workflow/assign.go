package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/daap14/roleassign/internal/assignment"
	"github.com/daap14/roleassign/internal/auth"
	"github.com/daap14/roleassign/internal/event"
	"github.com/daap14/roleassign/internal/notify"
	"github.com/daap14/roleassign/internal/role"
	"github.com/daap14/roleassign/internal/user"
)

// AssignInput is a request to link an email to a set of role names. Actor is
// nil for anonymous callers.
type AssignInput struct {
	Email     string
	RoleNames []string
	Actor     *auth.Identity
}

// RoleFailure is a role name that could not be assigned.
type RoleFailure struct {
	Role    string
	Message string
}

// AssignResult is the outcome of AssignRoles. Assigned holds only the roles
// linked by this call, in input order.
type AssignResult struct {
	User            *user.User
	UserExists      bool
	Assigned        []role.Role
	AlreadyAssigned []string
	Failed          []RoleFailure
}

// AssignRoles resolves or creates the user, then resolves or creates each
// named role and links it to the user. Names that fail are reported in
// Failed while the rest are still processed; the call only fails as a whole
// when the user cannot be resolved or no role could be processed.
func (s *Service) AssignRoles(ctx context.Context, in AssignInput) (*AssignResult, error) {
	var actorID *uuid.UUID
	if in.Actor != nil {
		id := in.Actor.UserID
		actorID = &id
	}

	u, created, err := s.users.GetOrCreate(ctx, in.Email)
	if err != nil {
		slog.Error("resolving user failed", "email", in.Email, "step", "resolve_user", "error", err)
		return nil, &StepError{Step: "resolve_user", Email: in.Email, Err: err}
	}

	result := &AssignResult{User: u, UserExists: !created}

	seen := make(map[string]bool, len(in.RoleNames))
	for _, name := range in.RoleNames {
		if seen[name] {
			continue
		}
		seen[name] = true

		ro, linked, err := s.assignOne(ctx, u, name, actorID)
		if err != nil {
			slog.Error("assigning role failed", "email", in.Email, "role", name, "error", err)
			result.Failed = append(result.Failed, RoleFailure{Role: name, Message: err.Error()})
			continue
		}

		if linked {
			slog.Info("assigned role", "role", ro.Name, "email", in.Email)
			result.Assigned = append(result.Assigned, *ro)
		} else {
			slog.Info("role already assigned", "role", ro.Name, "email", in.Email)
			result.AlreadyAssigned = append(result.AlreadyAssigned, ro.Name)
		}
	}

	if len(result.Failed) > 0 && len(result.Failed) == len(seen) {
		err := fmt.Errorf("no role could be assigned: %s", result.Failed[0].Message)
		return nil, &StepError{Step: "assign_roles", Email: in.Email, Err: err}
	}

	if len(result.Assigned) > 0 {
		s.sendNotification(ctx, result)
		s.announce(ctx, result, actorID)
	}

	return result, nil
}

func (s *Service) assignOne(ctx context.Context, u *user.User, name string, actorID *uuid.UUID) (*role.Role, bool, error) {
	ro, _, err := role.GetOrCreate(ctx, s.roles, name, actorID)
	if err != nil {
		return nil, false, err
	}

	_, linked, err := s.ledger.GetOrCreate(ctx, assignment.NewAssignment{
		UserID:     u.ID,
		RoleID:     ro.ID,
		AssignedBy: actorID,
		AssignedAt: s.now(),
	})
	if err != nil {
		return nil, false, fmt.Errorf("linking role %q: %w", name, err)
	}

	return ro, linked, nil
}

// sendNotification sends one message for the whole call. Failures stay here.
func (s *Service) sendNotification(ctx context.Context, result *AssignResult) {
	if s.notifier == nil {
		return
	}

	lines := make([]notify.RoleLine, 0, len(result.Assigned))
	for _, ro := range result.Assigned {
		lines = append(lines, notify.RoleLine{DisplayName: ro.DisplayName, Description: ro.Description})
	}

	msg := notify.Message{
		Email:    result.User.Email,
		Username: result.User.Username,
		Roles:    lines,
		NewUser:  !result.UserExists,
	}
	if err := s.notifier.NotifyAssignment(ctx, msg); err != nil {
		slog.Error("failed to send assignment notification", "email", result.User.Email, "error", err)
	}
}

func (s *Service) announce(ctx context.Context, result *AssignResult, actorID *uuid.UUID) {
	if s.events == nil {
		return
	}

	names := make([]string, 0, len(result.Assigned))
	for _, ro := range result.Assigned {
		names = append(names, ro.Name)
	}

	s.events.Publish(ctx, event.RolesAssigned{
		UserID:     result.User.ID,
		Email:      result.User.Email,
		Roles:      names,
		NewUser:    !result.UserExists,
		AssignedBy: actorID,
	})
}
