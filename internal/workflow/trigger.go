package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/daap14/roleassign/internal/assignment"
	"github.com/daap14/roleassign/internal/event"
	"github.com/daap14/roleassign/internal/role"
)

// DefaultNotes marks assignments made by the DefaultRoleTrigger.
const DefaultNotes = "default"

// Policy configures the default role given to new users.
type Policy struct {
	RoleName     string
	ExemptEmails []string
}

// Exempt reports whether email is excluded from the default assignment.
// Emails are compared exactly, like every other email lookup.
func (p Policy) Exempt(email string) bool {
	for _, e := range p.ExemptEmails {
		if strings.TrimSpace(e) == email {
			return true
		}
	}
	return false
}

// DefaultRoleTrigger links every newly created user to the policy role. It
// runs on event.UserCreated, whatever path created the user.
type DefaultRoleTrigger struct {
	roles  role.Repository
	ledger assignment.Repository
	policy Policy
	now    func() time.Time
}

// NewDefaultRoleTrigger creates a DefaultRoleTrigger.
func NewDefaultRoleTrigger(roles role.Repository, ledger assignment.Repository, policy Policy) *DefaultRoleTrigger {
	return &DefaultRoleTrigger{
		roles:  roles,
		ledger: ledger,
		policy: policy,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Register subscribes the trigger to user creation on bus.
func (t *DefaultRoleTrigger) Register(bus *event.Bus) {
	bus.Subscribe(event.UserCreatedName, t.Handle)
}

// Handle assigns the default role to the created user. A missing role or an
// exempt email is not an error. Other failures are returned to the bus,
// which logs them without affecting user creation.
func (t *DefaultRoleTrigger) Handle(ctx context.Context, evt event.Event) error {
	created, ok := evt.(event.UserCreated)
	if !ok {
		return nil
	}

	if t.policy.RoleName == "" || t.policy.Exempt(created.Email) {
		slog.Debug("default role skipped", "email", created.Email)
		return nil
	}

	ro, err := t.roles.GetByName(ctx, t.policy.RoleName)
	if errors.Is(err, role.ErrRoleNotFound) {
		slog.Debug("default role does not exist", "role", t.policy.RoleName)
		return nil
	}
	if err != nil {
		return fmt.Errorf("looking up default role %q: %w", t.policy.RoleName, err)
	}

	_, linked, err := t.ledger.GetOrCreate(ctx, assignment.NewAssignment{
		UserID:     created.UserID,
		RoleID:     ro.ID,
		AssignedAt: t.now(),
		Notes:      DefaultNotes,
	})
	if err != nil {
		return fmt.Errorf("assigning default role to %s: %w", created.Email, err)
	}

	if linked {
		slog.Info("assigned default role", "role", ro.Name, "email", created.Email)
	}
	return nil
}
