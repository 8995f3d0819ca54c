package board

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"taskboard/internal/store"
	"taskboard/pkg/metrics"
)

// command is one optimistic mutation: a local precondition check, an apply
// step that returns its own rollback, and the remote call that confirms it.
// Every mutation type the controller exposes is built from this shape so the
// apply/rollback/merge protocol lives in exactly one place.
type command struct {
	name     string
	success  string
	validate func() error
	apply    func() (rollback func(), err error)
	call     func(ctx context.Context) (merge func(), err error)
}

// run drives a command through the full protocol:
//
//	validate -> apply (optimistic) -> remote call -> merge | rollback
//
// The optimistic apply is visible to every derived view before the remote
// call is issued. On remote failure the rollback restores the exact
// pre-mutation state and the failure is surfaced as an error notification.
// A controller closed while the call was in flight discards the completion:
// neither merge nor rollback runs.
func (c *Controller) run(ctx context.Context, cmd command) error {
	if cmd.validate != nil {
		if err := cmd.validate(); err != nil {
			metrics.IncrementMutation(cmd.name, "rejected")
			c.notifier.Error(err.Error())
			return &ValidationError{Reason: err.Error()}
		}
	}

	rollback, err := cmd.apply()
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// The target vanished from the store; it already reflects the
			// desired end state, so there is nothing to do and nothing to
			// report.
			c.logger.Debug("mutation target gone, treating as applied",
				zap.String("mutation", cmd.name), zap.Error(err))
			return nil
		}
		metrics.IncrementMutation(cmd.name, "rejected")
		c.notifier.Error(err.Error())
		return &ValidationError{Reason: err.Error()}
	}

	merge, err := cmd.call(ctx)

	if c.isClosed() {
		metrics.IncrementMutation(cmd.name, "discarded")
		c.logger.Debug("controller closed, discarding completion",
			zap.String("mutation", cmd.name))
		return nil
	}

	if err != nil {
		rollback()
		metrics.IncrementMutation(cmd.name, "rolled_back")
		metrics.IncrementRollback(cmd.name)
		c.logger.Warn("remote call failed, rolled back",
			zap.String("mutation", cmd.name), zap.Error(err))
		c.notifier.Error(cmd.name + " failed: " + err.Error())
		return &RemoteError{Op: cmd.name, Err: err}
	}

	if merge != nil {
		merge()
	}
	metrics.IncrementMutation(cmd.name, "applied")
	c.notifier.Success(cmd.success)
	return nil
}
