package notify_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daap14/roleassign/internal/notify"
)

func sampleMessage(newUser bool) notify.Message {
	return notify.Message{
		Email:    "new@x.com",
		Username: "new",
		NewUser:  newUser,
		Roles: []notify.RoleLine{
			{DisplayName: "Editor", Description: "Role for editor"},
			{DisplayName: "Qa Lead", Description: "Role for qa-lead"},
		},
	}
}

func TestRender_Welcome(t *testing.T) {
	subject, body, err := notify.Render(sampleMessage(true))
	require.NoError(t, err)

	assert.Equal(t, "Welcome to Label Studio - Your Account Has Been Created", subject)
	assert.Contains(t, body, "Hello new,")
	assert.Contains(t, body, "Your account has been created")
	assert.Contains(t, body, "- Editor: Role for editor\n- Qa Lead: Role for qa-lead\n")
	assert.Contains(t, body, "using your email address: new@x.com")
}

func TestRender_RolesAdded(t *testing.T) {
	subject, body, err := notify.Render(sampleMessage(false))
	require.NoError(t, err)

	assert.Equal(t, "Label Studio - New Roles Assigned", subject)
	assert.Contains(t, body, "The following new roles have been assigned")
	assert.Contains(t, body, "- Editor: Role for editor")
	assert.NotContains(t, body, "Your account has been created")
}

func TestMessage_Variant(t *testing.T) {
	assert.Equal(t, notify.VariantWelcome, sampleMessage(true).Variant())
	assert.Equal(t, notify.VariantRolesAdded, sampleMessage(false).Variant())
}

func TestLogNotifier_WritesRenderedMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	n := notify.NewLogNotifier(logger)
	require.NoError(t, n.NotifyAssignment(context.Background(), sampleMessage(false)))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "new@x.com", entry["to"])
	assert.Equal(t, "roles_added", entry["variant"])
	assert.Equal(t, "Label Studio - New Roles Assigned", entry["subject"])
}

func TestNewEmailNotifier_RequiresHostAndFrom(t *testing.T) {
	_, err := notify.NewEmailNotifier(notify.SMTPConfig{From: "noreply@x.com", Port: 25})
	assert.Error(t, err)

	_, err = notify.NewEmailNotifier(notify.SMTPConfig{Host: "localhost", Port: 25})
	assert.Error(t, err)

	n, err := notify.NewEmailNotifier(notify.SMTPConfig{Host: "localhost", Port: 2525, From: "noreply@x.com"})
	require.NoError(t, err)
	assert.NotNil(t, n)
}

func TestEmailNotifier_RejectsEmptyRecipient(t *testing.T) {
	n, err := notify.NewEmailNotifier(notify.SMTPConfig{Host: "localhost", Port: 2525, From: "noreply@x.com"})
	require.NoError(t, err)

	err = n.NotifyAssignment(context.Background(), notify.Message{Username: "x"})
	assert.Error(t, err)
}
