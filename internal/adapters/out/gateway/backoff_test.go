package gateway

import (
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
)

func TestLinearBackOff(t *testing.T) {
	tests := []struct {
		name string
		step time.Duration
		want []time.Duration
	}{
		{
			name: "grows by one step per attempt",
			step: time.Second,
			want: []time.Duration{time.Second, 2 * time.Second, 3 * time.Second},
		},
		{
			name: "sub-second step",
			step: 250 * time.Millisecond,
			want: []time.Duration{250 * time.Millisecond, 500 * time.Millisecond, 750 * time.Millisecond, time.Second},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &linearBackOff{step: tt.step}

			got := make([]time.Duration, 0, len(tt.want))
			for range tt.want {
				got = append(got, b.NextBackOff())
			}

			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("reset starts over from one step", func(t *testing.T) {
		b := &linearBackOff{step: time.Second}
		b.NextBackOff()
		b.NextBackOff()

		b.Reset()

		assert.Equal(t, time.Second, b.NextBackOff())
		assert.Equal(t, 2*time.Second, b.NextBackOff())
	})

	t.Run("retry cap stops after attempts minus one waits", func(t *testing.T) {
		policy := backoff.WithMaxRetries(&linearBackOff{step: time.Second}, 2)
		policy.Reset()

		assert.Equal(t, time.Second, policy.NextBackOff())
		assert.Equal(t, 2*time.Second, policy.NextBackOff())
		assert.Equal(t, backoff.Stop, policy.NextBackOff())
	})
}
