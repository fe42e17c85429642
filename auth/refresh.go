package auth

import (
	"context"
	"errors"
	"fmt"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-integra/core"
)

// RefreshJobID names the queued job that re-acquires a token ahead of
// expiry.
const RefreshJobID = "integra.token.refresh"

const defaultRefreshMaxAttempts = 3

type RefreshRunOptions struct {
	MaxAttempts int
}

type RefreshRunResult struct {
	Attempts int
}

// RefreshRunner re-acquires tokens with bounded retries. Certificate and
// credential rejections are terminal: retrying cannot fix them.
type RefreshRunner struct {
	manager   *Manager
	scheduler core.BackoffScheduler
	logger    core.Logger
}

func NewRefreshRunner(manager *Manager, scheduler core.BackoffScheduler, logger core.Logger) (*RefreshRunner, error) {
	if manager == nil {
		return nil, fmt.Errorf("auth: refresh runner requires a manager")
	}
	if scheduler == nil {
		scheduler = core.ExponentialBackoffScheduler{}
	}
	return &RefreshRunner{
		manager:   manager,
		scheduler: scheduler,
		logger:    glog.Ensure(logger),
	}, nil
}

func (r *RefreshRunner) Run(ctx context.Context, opts RefreshRunOptions) (RefreshRunResult, error) {
	if r == nil || r.manager == nil {
		return RefreshRunResult{}, fmt.Errorf("auth: refresh runner is not configured")
	}
	maxAttempts := opts.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = defaultRefreshMaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		_, err := r.manager.Refresh(ctx)
		if err == nil {
			return RefreshRunResult{Attempts: attempt}, nil
		}
		lastErr = err

		if isUnrecoverableRefreshError(err) || attempt == maxAttempts {
			return RefreshRunResult{Attempts: attempt}, err
		}
		r.logger.Warn("token refresh attempt failed", "attempt", attempt, "error", err)
		if waitErr := core.WaitWithContext(ctx, r.scheduler.NextDelay(attempt)); waitErr != nil {
			return RefreshRunResult{Attempts: attempt}, waitErr
		}
	}
	return RefreshRunResult{Attempts: maxAttempts}, lastErr
}

func isUnrecoverableRefreshError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, core.ErrCertificateRejected) ||
		errors.Is(err, core.ErrInvalidCredentials)
}

// NewRefreshMessage builds the queue message that triggers a refresh.
func NewRefreshMessage(environment core.Environment) *core.JobExecutionMessage {
	return &core.JobExecutionMessage{
		JobID: RefreshJobID,
		Parameters: map[string]any{
			"environment": environment.String(),
		},
		IdempotencyKey: RefreshJobID + "::" + environment.String(),
		DedupPolicy:    "drop",
	}
}

// Enqueue schedules a refresh for this runner's manager.
func (r *RefreshRunner) Enqueue(ctx context.Context, enqueuer core.JobEnqueuer) error {
	if r == nil || r.manager == nil {
		return fmt.Errorf("auth: refresh runner is not configured")
	}
	if enqueuer == nil {
		return fmt.Errorf("auth: enqueuer is required")
	}
	return enqueuer.Enqueue(ctx, NewRefreshMessage(r.manager.Environment()))
}

// ProcessDelivery handles one queued refresh: ack on success, nack with
// requeue on recoverable failure, dead-letter on terminal failure.
func (r *RefreshRunner) ProcessDelivery(ctx context.Context, delivery core.JobDelivery, opts RefreshRunOptions) error {
	if r == nil || r.manager == nil {
		return fmt.Errorf("auth: refresh runner is not configured")
	}
	if delivery == nil {
		return fmt.Errorf("auth: delivery is required")
	}

	result, err := r.Run(ctx, opts)
	if err == nil {
		return delivery.Ack(ctx)
	}

	nack := core.JobNackOptions{
		Delay:   r.scheduler.NextDelay(result.Attempts),
		Requeue: true,
		Reason:  err.Error(),
	}
	if isUnrecoverableRefreshError(err) {
		nack.Requeue = false
		nack.DeadLetter = true
	}
	if nackErr := delivery.Nack(ctx, nack); nackErr != nil {
		return nackErr
	}
	return err
}

// Work dequeues and processes refresh jobs until the context ends.
func (r *RefreshRunner) Work(ctx context.Context, dequeuer core.JobDequeuer, opts RefreshRunOptions) error {
	if r == nil || r.manager == nil {
		return fmt.Errorf("auth: refresh runner is not configured")
	}
	if dequeuer == nil {
		return fmt.Errorf("auth: dequeuer is required")
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		delivery, err := dequeuer.Dequeue(ctx)
		if err != nil {
			return err
		}
		if delivery == nil {
			continue
		}
		if err := r.ProcessDelivery(ctx, delivery, opts); err != nil {
			r.logger.Warn("refresh job failed", "job_id", RefreshJobID, "error", err)
		}
	}
}
