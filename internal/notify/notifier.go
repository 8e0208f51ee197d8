// Package notify tells users about roles assigned to them.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"text/template"
)

// Variant selects the message template.
type Variant string

const (
	// VariantWelcome is sent when the assignment created the account.
	VariantWelcome Variant = "welcome"
	// VariantRolesAdded is sent to users who already had an account.
	VariantRolesAdded Variant = "roles_added"
)

// RoleLine is one assigned role as listed in the message.
type RoleLine struct {
	DisplayName string
	Description string
}

// Message describes one assignment notification.
type Message struct {
	Email    string
	Username string
	Roles    []RoleLine
	NewUser  bool
}

// Variant returns the template variant for the message.
func (m Message) Variant() Variant {
	if m.NewUser {
		return VariantWelcome
	}
	return VariantRolesAdded
}

// Notifier delivers assignment notifications.
type Notifier interface {
	NotifyAssignment(ctx context.Context, msg Message) error
}

type rendered struct {
	Subject string
	Body    string
}

var subjects = map[Variant]string{
	VariantWelcome:    "Welcome to Label Studio - Your Account Has Been Created",
	VariantRolesAdded: "Label Studio - New Roles Assigned",
}

var bodies = map[Variant]*template.Template{
	VariantWelcome: template.Must(template.New("welcome").Parse(`Hello {{.Username}},

Your account has been created in Label Studio and the following roles have been assigned to you:

{{range .Roles}}- {{.DisplayName}}: {{.Description}}
{{end}}
You can now log in to Label Studio using your email address: {{.Email}}

Best regards,
Label Studio Team
`)),
	VariantRolesAdded: template.Must(template.New("roles_added").Parse(`Hello {{.Username}},

The following new roles have been assigned to your Label Studio account:

{{range .Roles}}- {{.DisplayName}}: {{.Description}}
{{end}}
You can access these features by logging into Label Studio.

Best regards,
Label Studio Team
`)),
}

// Render produces the subject and plain-text body for msg.
func Render(msg Message) (subject, body string, err error) {
	variant := msg.Variant()

	var buf bytes.Buffer
	if err := bodies[variant].Execute(&buf, msg); err != nil {
		return "", "", fmt.Errorf("rendering %s template: %w", variant, err)
	}
	return subjects[variant], buf.String(), nil
}
