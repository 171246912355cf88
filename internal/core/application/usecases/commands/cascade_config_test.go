package commands_test

import (
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

func TestCascadeConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*commands.CascadeConfig)
		target error
	}{
		{"defaults", func(*commands.CascadeConfig) {}, nil},
		{"ttl equal to timeout", func(c *commands.CascadeConfig) { c.CorrelationTTL = c.Timeout }, nil},
		{"ttl shorter than timeout", func(c *commands.CascadeConfig) {
			c.Timeout = 2 * time.Minute
			c.CorrelationTTL = time.Minute
		}, errs.ErrValueIsInvalid},
		{"no timeout", func(c *commands.CascadeConfig) { c.Timeout = 0 }, errs.ErrValueIsRequired},
		{"negative start grace", func(c *commands.CascadeConfig) { c.StartGrace = -time.Second }, errs.ErrValueIsInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := commands.DefaultCascadeConfig()
			tt.modify(&cfg)

			err := cfg.Validate()

			if tt.target == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.target)
		})
	}
}
