package poller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/opwait/opwait/internal/operation"
	"github.com/opwait/opwait/internal/progress"
	"github.com/opwait/opwait/internal/retry"
)

// ErrNotFound is returned by API.GetOperation when the operation resource is
// not visible yet. During stage discovery this is transient: a freshly
// created operation may not have propagated. Any other error is terminal.
var ErrNotFound = errors.New("operation not found")

// API is the capability set the waiter needs from a service's operation
// client. Implementations adapt a concrete operation shape; the waiter's
// state machine stays generic across services.
type API[O any] interface {
	// GetOperation fetches the current operation state by name.
	GetOperation(ctx context.Context, name string) (O, error)
	// Done reports whether the operation finished.
	Done(op O) bool
	// Err returns the operation's structured error, or nil.
	Err(op O) *operation.Status
	// Stages returns the operation's current stage list, nil or empty
	// until the server populates it.
	Stages(op O) []operation.StageInfo
}

// Stages with this key get build-log URLs appended to their message.
const buildStageKey = "BUILD"

const (
	// DefaultMaxWait bounds each polling phase.
	DefaultMaxWait = 1820 * time.Second
	// DefaultPollInterval is the fixed delay between polls.
	DefaultPollInterval = time.Second
)

// Phases a wait can time out in.
const (
	PhaseStageDiscovery = "stage discovery"
	PhaseStatusPolling  = "status polling"
)

// Config holds the polling budgets.
type Config struct {
	// MaxWait is the wait budget per phase. Each phase gets the full
	// budget, accounted separately.
	MaxWait time.Duration
	// PollInterval is the delay between consecutive polls. The interval
	// is constant, not exponential.
	PollInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxWait == 0 {
		c.MaxWait = DefaultMaxWait
	}
	if c.PollInterval == 0 {
		c.PollInterval = DefaultPollInterval
	}
	return c
}

// Waiter drives a long-running operation to completion: it first polls until
// the server publishes the operation's stage list, then polls operation
// status, feeding per-stage progress to a tracker, until the operation is
// done or fails.
type Waiter[O any] struct {
	api API[O]
	cfg Config
	log *zap.Logger
	out io.Writer
}

// NewWaiter builds a waiter over the given operation API. Progress is
// rendered to out.
func NewWaiter[O any](api API[O], log *zap.Logger, out io.Writer, cfg Config) *Waiter[O] {
	return &Waiter[O]{
		api: api,
		cfg: cfg.withDefaults(),
		log: log,
		out: out,
	}
}

// Wait blocks until the named operation completes. Extra stages are appended
// to the discovered stage set, for workflows that can introduce stages the
// server does not report up front (e.g. rollbacks).
//
// The outcome is exactly one of: nil (operation done, no error), a
// *operation.FailedError carrying the remote structured error, or a
// *operation.TimeoutError naming the operation and the phase that exhausted
// its budget. There is no partial state: a fresh call restarts discovery
// from scratch.
func (w *Waiter[O]) Wait(ctx context.Context, name, description string, extraStages []progress.Stage) error {
	w.log.Info("Waiting for operation", zap.String("operation", name))

	fmt.Fprintln(w.out, "Preparing...")
	set, err := w.discoverStages(ctx, name)
	if err != nil {
		return err
	}
	set.Append(extraStages...)

	tracker := progress.NewTracker(w.log, w.out, set)
	tracker.Start(description)
	err = w.pollStatus(ctx, name, tracker)
	tracker.Stop(err)
	if err != nil {
		return err
	}

	w.log.Info("Operation finished", zap.String("operation", name))
	return nil
}

func (w *Waiter[O]) retrier() *retry.Retrier {
	return &retry.Retrier{
		Timeout: w.cfg.MaxWait,
		Backoff: retry.Backoff{Duration: w.cfg.PollInterval},
	}
}

// discoverStages polls until the operation's stage list is available. An
// operation that is not visible yet, has no metadata or has an empty stage
// list all mean "not yet": keep polling. A remote-reported error aborts the
// whole wait before status polling starts.
func (w *Waiter[O]) discoverStages(ctx context.Context, name string) (*progress.StageSet, error) {
	set, err := retry.OnResult(ctx, w.retrier(), func(ctx context.Context) (*progress.StageSet, error) {
		op, err := w.api.GetOperation(ctx, name)
		if errors.Is(err, ErrNotFound) {
			w.log.Debug("Operation not visible yet", zap.String("operation", name))
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		if status := w.api.Err(op); status != nil {
			return nil, operation.NewFailedError(status)
		}

		infos := w.api.Stages(op)
		if len(infos) == 0 {
			w.log.Debug("Stages not published yet", zap.String("operation", name))
			return nil, nil
		}

		stages := make([]progress.Stage, 0, len(infos))
		for _, info := range infos {
			stages = append(stages, progress.NewStage(info.Name))
		}
		return progress.NewStageSet(stages...), nil
	}, retry.WhileAbsent[progress.StageSet]())
	if errors.Is(err, retry.ErrTimeout) {
		return nil, &operation.TimeoutError{OperationName: name, Phase: PhaseStageDiscovery}
	}
	if err != nil {
		return nil, err
	}
	return set, nil
}

// pollStatus polls the operation until done, applying each poll's stage
// reports to the tracker.
func (w *Waiter[O]) pollStatus(ctx context.Context, name string, tracker *progress.Tracker) error {
	_, err := retry.OnResult(ctx, w.retrier(), func(ctx context.Context) (bool, error) {
		op, err := w.api.GetOperation(ctx, name)
		if err != nil {
			return false, err
		}

		// The error field wins over the done flag.
		if status := w.api.Err(op); status != nil {
			return false, operation.NewFailedError(status)
		}

		for _, info := range w.api.Stages(op) {
			w.applyStage(tracker, info)
		}
		return w.api.Done(op), nil
	}, retry.WhileFalse)
	if errors.Is(err, retry.ErrTimeout) {
		return &operation.TimeoutError{OperationName: name, Phase: PhaseStatusPolling}
	}
	return err
}

// applyStage advances the tracker with one stage report from one poll.
// Transitions are monotonic: completed stages are never touched again, so
// duplicated or late poll responses cannot regress the display.
func (w *Waiter[O]) applyStage(tracker *progress.Tracker, info operation.StageInfo) {
	inProgress := info.State == operation.StateInProgress
	complete := info.State == operation.StateComplete
	if !inProgress && !complete {
		return
	}

	if tracker.IsComplete(info.Name) {
		return
	}

	if tracker.IsWaiting(info.Name) {
		if err := tracker.StartStage(info.Name); err != nil {
			w.log.Warn("Failed to start stage", zap.String("stage", info.Name), zap.Error(err))
			return
		}
	}

	message := info.Message
	if inProgress {
		if message == "" {
			message = "In progress"
		}
		message += "... "
	} else {
		message = ""
	}
	if info.ResourceURI != "" && info.Name == buildStageKey {
		message += fmt.Sprintf("Logs are available at [%s]", info.ResourceURI)
	}
	tracker.UpdateStage(info.Name, message)

	if complete {
		if len(info.StateMessages) > 0 {
			tracker.CompleteStageWithWarnings(info.Name, operation.StateMessagesStrings(info.StateMessages))
		} else {
			tracker.CompleteStage(info.Name)
		}
	}
}
