package commands_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/cascade"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRespondToJobCommand(t *testing.T) {
	t.Run("should parse the action and normalize the contact", func(t *testing.T) {
		cmd, err := commands.NewRespondToJobCommand(" WhatsApp:+1 (555) 010-0 ", "Accept", "")

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.Equal(t, "whatsapp:+15550100", cmd.Contact().String())
		assert.Equal(t, cascade.ActionAccept, cmd.Action())
		assert.Nil(t, cmd.JobID())
	})

	t.Run("should keep an explicit job id", func(t *testing.T) {
		id := kernel.NewUUID()

		cmd, err := commands.NewRespondToJobCommand("+1 555 0100", "decline", id.String())

		require.NoError(t, err)
		require.NotNil(t, cmd.JobID())
		assert.True(t, cmd.JobID().IsEqual(id))
	})

	t.Run("should reject unknown actions", func(t *testing.T) {
		_, err := commands.NewRespondToJobCommand("+1 555 0100", "maybe", "")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should join every validation error", func(t *testing.T) {
		_, err := commands.NewRespondToJobCommand("", "", "not-a-uuid")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "contactAddress")
		assert.Contains(t, err.Error(), "action")
	})

	t.Run("should reject a command built without the constructor", func(t *testing.T) {
		require.ErrorIs(t, commands.RespondToJobCommand{}.Validate(), commands.ErrRespondToJobCommandIsNotConstructed)
	})
}

func TestNewAdvanceCascadeCommand(t *testing.T) {
	id := kernel.NewUUID()

	_, err := commands.NewAdvanceCascadeCommand(id, 0, cascade.ReasonNotifying)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = commands.NewAdvanceCascadeCommand(id, -1, cascade.ReasonTimeout)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	cmd, err := commands.NewAdvanceCascadeCommand(id, 2, cascade.ReasonDecline)
	require.NoError(t, err)
	assert.Equal(t, 2, cmd.FromIndex())
}

func TestNewConfirmPickupCommand(t *testing.T) {
	_, err := commands.NewConfirmPickupCommand(kernel.NewUUID(), "12345")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	cmd, err := commands.NewConfirmPickupCommand(kernel.NewUUID(), " 012345 ")
	require.NoError(t, err)
	assert.Equal(t, "012345", cmd.Code())
}
