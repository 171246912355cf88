package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"dispatch/internal/core/ports"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"
)

const (
	DefaultAttempts    = 3
	DefaultBackoffStep = time.Second
	DefaultTimeout     = 5 * time.Second
)

type Config struct {
	URL   string
	Token string
	// Attempts is the total number of tries per notification.
	Attempts    int
	BackoffStep time.Duration
	// RatePerSecond caps outbound calls; zero or less disables the limit.
	RatePerSecond float64
	Timeout       time.Duration
}

// HTTPNotifier posts notifications as JSON to the gateway endpoint.
type HTTPNotifier struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

var _ ports.Notifier = (*HTTPNotifier)(nil)

func NewHTTPNotifier(cfg Config, logger *slog.Logger) (*HTTPNotifier, error) {
	if cfg.URL == "" {
		return nil, errors.New("gateway url is required")
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = DefaultAttempts
	}
	if cfg.BackoffStep <= 0 {
		cfg.BackoffStep = DefaultBackoffStep
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	limit := rate.Inf
	burst := 1
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
		burst = max(1, int(cfg.RatePerSecond))
	}

	return &HTTPNotifier{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger.With("component", "gateway"),
	}, nil
}

type notificationPayload struct {
	JobID       string    `json:"jobId"`
	Kind        string    `json:"kind"`
	Pickup      string    `json:"pickup"`
	Dropoff     string    `json:"dropoff,omitempty"`
	Contact     string    `json:"contact"`
	DisplayName string    `json:"displayName"`
	Position    int       `json:"position"`
	RespondBy   time.Time `json:"respondBy"`
}

// Notify delivers n, retrying failed attempts. It gives up early when ctx ends.
func (g *HTTPNotifier) Notify(ctx context.Context, n ports.Notification) error {
	contact := n.Candidate.Contact().String()
	body, err := json.Marshal(notificationPayload{
		JobID:       n.JobID.String(),
		Kind:        n.Kind,
		Pickup:      n.Pickup,
		Dropoff:     n.Dropoff,
		Contact:     contact,
		DisplayName: n.Candidate.DisplayName(),
		Position:    n.Position,
		RespondBy:   n.RespondBy.UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	attempts := 0
	var lastStatus int
	operation := func() error {
		attempts++
		if waitErr := g.limiter.Wait(ctx); waitErr != nil {
			return backoff.Permanent(waitErr)
		}
		status, postErr := g.post(ctx, body)
		lastStatus = status
		return postErr
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(&linearBackOff{step: g.cfg.BackoffStep}, uint64(g.cfg.Attempts-1)),
		ctx,
	)
	onRetry := func(err error, wait time.Duration) {
		g.logger.WarnContext(ctx, "Gateway attempt failed",
			"jobId", n.JobID.String(), "contact", contact, "attempt", attempts, "retryIn", wait, "error", err)
	}

	if err = backoff.RetryNotify(operation, policy, onRetry); err != nil {
		var se *statusError
		if !errors.As(err, &se) {
			lastStatus = 0
		}
		return &Error{Contact: contact, Attempts: attempts, StatusCode: lastStatus, Cause: err}
	}
	return nil
}

func (g *HTTPNotifier) post(ctx context.Context, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return 0, backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+g.cfg.Token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, &statusError{code: resp.StatusCode}
	}
	return resp.StatusCode, nil
}
