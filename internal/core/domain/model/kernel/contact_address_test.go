package kernel_test

import (
	"testing"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContactAddress(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected string
		wantErr  error
	}{
		{name: "formatted phone", raw: " +1 (555) 010-2000 ", expected: "+15550102000"},
		{name: "dotted phone", raw: "555.010.2000", expected: "5550102000"},
		{name: "channel prefix kept", raw: "WhatsApp:+44 7700 900123", expected: "whatsapp:+447700900123"},
		{name: "email lowercased", raw: "Driver.One@Example.COM", expected: "driver.one@example.com"},
		{name: "empty", raw: "   ", wantErr: errs.ErrValueIsRequired},
		{name: "prefix only", raw: "sms:", wantErr: errs.ErrValueIsInvalid},
		{name: "plus only", raw: "+", wantErr: errs.ErrValueIsInvalid},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			contact, err := kernel.NewContactAddress(tc.raw)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.NoError(t, contact.Validate())
			assert.Equal(t, tc.expected, contact.String())
		})
	}
}

func TestContactAddress_EqualAfterNormalization(t *testing.T) {
	a, err := kernel.NewContactAddress("+1 555 010 2000")
	require.NoError(t, err)
	b, err := kernel.NewContactAddress("+1-555-010-2000")
	require.NoError(t, err)

	assert.True(t, a.IsEqual(b))
}

func TestContactAddress_ZeroValueIsInvalid(t *testing.T) {
	var contact kernel.ContactAddress
	require.ErrorIs(t, contact.Validate(), kernel.ErrContactAddressIsNotConstructed)
}
