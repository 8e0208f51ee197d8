// Package workflow orchestrates role assignment across the user directory,
// the role directory and the assignment ledger.
package workflow

import (
	"errors"
	"fmt"
	"time"

	"github.com/daap14/roleassign/internal/assignment"
	"github.com/daap14/roleassign/internal/event"
	"github.com/daap14/roleassign/internal/notify"
	"github.com/daap14/roleassign/internal/role"
	"github.com/daap14/roleassign/internal/user"
)

// ErrForbidden is returned when a caller asks for another user's assignments
// without staff rights.
var ErrForbidden = errors.New("not allowed to read another user's assignments")

// StepError reports an unexpected failure inside AssignRoles together with
// the step that failed and the email being processed.
type StepError struct {
	Step  string
	Email string
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s for %s: %v", e.Step, e.Email, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Service implements the assignment workflow and the query surface.
type Service struct {
	users    *user.Service
	roles    role.Repository
	ledger   assignment.Repository
	notifier notify.Notifier
	events   event.Publisher
	now      func() time.Time
}

// NewService creates a new workflow Service. events may be nil.
func NewService(
	users *user.Service,
	roles role.Repository,
	ledger assignment.Repository,
	notifier notify.Notifier,
	events event.Publisher,
) *Service {
	return &Service{
		users:    users,
		roles:    roles,
		ledger:   ledger,
		notifier: notifier,
		events:   events,
		now:      func() time.Time { return time.Now().UTC() },
	}
}
